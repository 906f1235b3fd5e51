// Package repository persists dashboard accounts and their refresh-token
// sessions in MySQL.  Studio records are not stored here.
package repository

import "errors"

// ErrAdminNotFound is returned when no account matches the lookup.
var ErrAdminNotFound = errors.New("admin not found")

// ErrEmailExists is returned when an account with the same email exists.
var ErrEmailExists = errors.New("email already exists")

// ErrSessionInvalid covers unknown, expired and revoked refresh tokens.
var ErrSessionInvalid = errors.New("session invalid")
