package models

import "time"

// User represents a user account row in the relational store.
// Credentials are out of scope — the row carries identity only.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CatalogEntry is one row of the listed-symbol catalog used for symbol
// search and discovery.
type CatalogEntry struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}
