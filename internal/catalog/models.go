package catalog

import (
	"strings"
	"time"
)

// Car is a marketplace listing published by a stand.
type Car struct {
	ID           string    `json:"id"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	Price        float64   `json:"price"`
	Mileage      int       `json:"mileage"`
	Fuel         string    `json:"fuel"`
	Transmission string    `json:"transmission"`
	Image        string    `json:"image"`
	Description  string    `json:"description"`
	StandName    string    `json:"stand_name"`
	Verified     bool      `json:"verified"`
	Location     string    `json:"location"`
	Category     string    `json:"category"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Filter narrows a listing query. Zero values mean "no constraint".
type Filter struct {
	// Query matches brand, model, or description, case-insensitively.
	Query    string
	Brand    string
	Category string
	MaxPrice float64
}

// Matches reports whether the car passes every set constraint.
func (f Filter) Matches(c *Car) bool {
	if f.Brand != "" && !strings.EqualFold(c.Brand, f.Brand) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(c.Category, f.Category) {
		return false
	}
	if f.MaxPrice > 0 && c.Price > f.MaxPrice {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(c.Brand), q) &&
			!strings.Contains(strings.ToLower(c.Model), q) &&
			!strings.Contains(strings.ToLower(c.Description), q) {
			return false
		}
	}
	return true
}
