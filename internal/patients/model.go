// Package patients implements patient registration and lookup for the
// booking flow.
package patients

import "time"

// Patient is a registered patient document. IDs and timestamps are assigned
// by the store.
type Patient struct {
	ID                     string    `dynamodbav:"id" json:"id"`
	UserID                 string    `dynamodbav:"userId" json:"userId"`
	Name                   string    `dynamodbav:"name" json:"name"`
	Email                  string    `dynamodbav:"email" json:"email"`
	Phone                  string    `dynamodbav:"phone" json:"phone"`
	BirthDate              time.Time `dynamodbav:"birthDate" json:"birthDate"`
	Gender                 string    `dynamodbav:"gender,omitempty" json:"gender,omitempty"`
	Address                string    `dynamodbav:"address,omitempty" json:"address,omitempty"`
	Occupation             string    `dynamodbav:"occupation,omitempty" json:"occupation,omitempty"`
	EmergencyContactName   string    `dynamodbav:"emergencyContactName,omitempty" json:"emergencyContactName,omitempty"`
	EmergencyContactNumber string    `dynamodbav:"emergencyContactNumber,omitempty" json:"emergencyContactNumber,omitempty"`
	PrimaryPhysician       string    `dynamodbav:"primaryPhysician,omitempty" json:"primaryPhysician,omitempty"`
	InsuranceProvider      string    `dynamodbav:"insuranceProvider,omitempty" json:"insuranceProvider,omitempty"`
	InsurancePolicyNumber  string    `dynamodbav:"insurancePolicyNumber,omitempty" json:"insurancePolicyNumber,omitempty"`
	Allergies              string    `dynamodbav:"allergies,omitempty" json:"allergies,omitempty"`
	CurrentMedication      string    `dynamodbav:"currentMedication,omitempty" json:"currentMedication,omitempty"`
	FamilyMedicalHistory   string    `dynamodbav:"familyMedicalHistory,omitempty" json:"familyMedicalHistory,omitempty"`
	PastMedicalHistory     string    `dynamodbav:"pastMedicalHistory,omitempty" json:"pastMedicalHistory,omitempty"`
	TreatmentConsent       bool      `dynamodbav:"treatmentConsent" json:"treatmentConsent"`
	DisclosureConsent      bool      `dynamodbav:"disclosureConsent" json:"disclosureConsent"`
	PrivacyConsent         bool      `dynamodbav:"privacyConsent" json:"privacyConsent"`
	CreatedAt              string    `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt              string    `dynamodbav:"updatedAt" json:"updatedAt"`
}
