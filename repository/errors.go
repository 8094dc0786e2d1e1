// Package repository holds the GORM-backed stores behind the
// procurement services. Interfaces are declared by the consumers in the
// handlers package; everything here is a concrete Postgres
// implementation.
package repository

import "errors"

var (
	// ErrNotFound is returned when a row does not exist or is
	// soft-deleted.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateAlert is returned when an alert log insert hits the
	// (requirement, user, day) uniqueness constraint. Callers treat it
	// as "already sent today", not as a failure.
	ErrDuplicateAlert = errors.New("alert already logged for today")
)
