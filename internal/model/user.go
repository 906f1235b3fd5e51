package model

import "time"

// Roles accepted on the dashboard API.  OWNER can do everything, STAFF is
// the front-desk account used for day to day edits.
const (
	RoleOwner = "OWNER"
	RoleStaff = "STAFF"
)

// Admin represents a dashboard account as stored in the `admins` table.
// Studio records (students, classes…) are not persisted; only accounts and
// their sessions live in MySQL.
//
// Fields:
//  ID           – primary key identifier of the account.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – OWNER or STAFF.
//  IsActive     – inactive accounts cannot log in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Admin struct {
	ID           uint64    // admins.id
	Email        string    // admins.email
	PasswordHash string    // admins.password_hash
	Role         string    // admins.role
	IsActive     bool      // admins.is_active
	CreatedAt    time.Time // admins.created_at
	UpdatedAt    time.Time // admins.updated_at
}

// Session models an entry in the `admin_sessions` table.  Only the
// SHA‑256 hash of the refresh token is stored.
type Session struct {
	ID        uint64     // admin_sessions.id
	AdminID   uint64     // admin_sessions.admin_id
	TokenHash string     // admin_sessions.token_hash
	ExpiresAt time.Time  // admin_sessions.expires_at
	RevokedAt *time.Time // admin_sessions.revoked_at (nullable)
	CreatedAt time.Time  // admin_sessions.created_at
}
