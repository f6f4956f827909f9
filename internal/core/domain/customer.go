package domain

import "time"

// Customer is a row from the kunde table. Read-only to the sync core.
type Customer struct {
	ID          string
	CompanyName string
	Street      string
	StreetExtra string
	City        string
	Country     string
	PostalCode  string
	FirstName   string
	LastName    string

	// Created and UpdatedAt are auditing timestamps maintained by the
	// source system. UpdatedAt is the change-detection column.
	Created   time.Time
	UpdatedAt time.Time
}
