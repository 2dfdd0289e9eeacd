package models

import "time"

// YearCounter backs invoice numbering: one row per calendar year,
// last_number bumped by a single atomic upsert.
type YearCounter struct {
	Year       int       `json:"year"`
	LastNumber int       `json:"last_number"`
	UpdatedAt  time.Time `json:"updated_at"`
}
