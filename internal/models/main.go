// Package models defines the core data structures for users and incident reports.
package models

import (
	"errors"
	"time"
)

var (
	// ErrUsernameTaken is returned when a signup collides with an existing
	// username in the authoritative store.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials is returned when a login's password or account
	// type does not match the stored record, or no record exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User represents an application account.
type User struct {
	// ID is the store-assigned identifier. Opaque to callers.
	ID int64 `json:"id"`
	// FullName is the display name of the account holder.
	FullName string `json:"fullName"`
	// Username is the login name, unique within the active store.
	Username string `json:"username"`
	// Email is the contact address of the account holder.
	Email string `json:"email"`
	// AccountType is the role of the account ("Student", "Admin", ...).
	AccountType string `json:"accountType"`
	// Password is stored as plain text. Kept out of all list projections.
	Password string `json:"password,omitempty"`
	// CreatedAt is assigned by whichever store persists the record.
	CreatedAt time.Time `json:"createdAt"`
}

// Report represents an incident report. Reports are immutable once created.
type Report struct {
	// ID is the store-assigned identifier.
	ID int64 `json:"id"`
	// Name is the reporter's name, "Anonymous" when not supplied.
	Name string `json:"name"`
	// Grade is an optional classification string, empty when not supplied.
	Grade string `json:"grade"`
	// Type is the kind of incident being reported.
	Type string `json:"type"`
	// Description is the free-text account of the incident.
	Description string `json:"description"`
	// Date is the calendar date of the incident in YYYY-MM-DD form.
	Date string `json:"date"`
	// CreatedAt is assigned by whichever store persists the record.
	CreatedAt time.Time `json:"createdAt"`
}

// AccountType defines well-known account role identifiers. The set is open:
// stores accept other values unchanged.
type AccountType string

const (
	// Student is a regular reporting account.
	Student AccountType = "Student"
	// Admin is a staff account.
	Admin AccountType = "Admin"
)

// AnonymousName is the reporter name used when none is supplied.
const AnonymousName = "Anonymous"

// DateLayout is the wire and snapshot format for incident dates.
const DateLayout = "2006-01-02"
