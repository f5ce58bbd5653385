// Package physicians provides the physician roster backing the booking
// form's physician select.
package physicians

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const rosterKey = "physicians:roster"

// Physician is a bookable provider shown in the appointment form.
type Physician struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// DefaultRoster returns the roster used when none has been configured.
func DefaultRoster() []Physician {
	return []Physician{
		{Name: "John Green", Avatar: "/assets/images/dr-green.png"},
		{Name: "Leila Cameron", Avatar: "/assets/images/dr-cameron.png"},
		{Name: "David Livingston", Avatar: "/assets/images/dr-livingston.png"},
		{Name: "Evan Peter", Avatar: "/assets/images/dr-peter.png"},
		{Name: "Jane Powell", Avatar: "/assets/images/dr-powell.png"},
		{Name: "Alex Ramirez", Avatar: "/assets/images/dr-remirez.png"},
		{Name: "Jasmine Lee", Avatar: "/assets/images/dr-lee.png"},
		{Name: "Alyana Cruz", Avatar: "/assets/images/dr-cruz.png"},
		{Name: "Hardik Sharma", Avatar: "/assets/images/dr-sharma.png"},
	}
}

// Directory provides persistence for the physician roster.
type Directory struct {
	redis *redis.Client
}

// NewDirectory creates a roster directory backed by Redis.
func NewDirectory(redisClient *redis.Client) *Directory {
	return &Directory{redis: redisClient}
}

// List retrieves the roster, returning the default when none is stored.
func (d *Directory) List(ctx context.Context) ([]Physician, error) {
	data, err := d.redis.Get(ctx, rosterKey).Bytes()
	if err == redis.Nil {
		return DefaultRoster(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("physicians: get roster: %w", err)
	}

	var roster []Physician
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("physicians: unmarshal roster: %w", err)
	}
	return roster, nil
}

// Set replaces the stored roster.
func (d *Directory) Set(ctx context.Context, roster []Physician) error {
	data, err := json.Marshal(roster)
	if err != nil {
		return fmt.Errorf("physicians: marshal roster: %w", err)
	}
	if err := d.redis.Set(ctx, rosterKey, data, 0).Err(); err != nil {
		return fmt.Errorf("physicians: set roster: %w", err)
	}
	return nil
}

// Exists reports whether a physician with the given name is on the roster.
// Matching is case-insensitive.
func (d *Directory) Exists(ctx context.Context, name string) (bool, error) {
	roster, err := d.List(ctx)
	if err != nil {
		return false, err
	}
	for _, p := range roster {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return true, nil
		}
	}
	return false, nil
}
