// Package model defines the data structures used throughout the application.
package model

// Identity is the canonical (id, username) pair owned by the primary-identity
// store. This system only ever reads it.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// User is the application store's copy of an identity, created lazily the
// first time the identity checks in.
type User struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}
