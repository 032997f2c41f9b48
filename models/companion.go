package models

import (
	"strings"
	"time"
)

// CompanionRecord is the relationship primitive of the sharing subsystem:
// a contact one user added, optionally linked to a registered account.
//
// Exactly one record exists per counterpart email address system-wide.
// Direction is carried by the permission sub-records (PermissionGrant),
// not by duplicating the contact row: CreatedBy identifies who first added
// the contact, and each party's grants are keyed by PermissionGrant.GrantedBy.
type CompanionRecord struct {
	// CompanionID is the internal unique identifier of the record.
	CompanionID int64 `json:"id"`

	// FirstName and LastName are optional contact attributes.
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// Email is the contact address. Globally unique, compared
	// case-insensitively.
	Email string `json:"email"`

	// CreatedBy is the UserID of the account that first created this record.
	CreatedBy int64 `json:"created_by"`

	// UserID links the contact to a registered account once an account with
	// a matching email exists. Nil while the contact is unregistered or has
	// been explicitly unlinked.
	UserID *int64 `json:"user_id,omitempty"`

	// CreatedAt is the timestamp when the record was created.
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName returns the companion's name, falling back to the email
// address when both name fields are blank.
func (c CompanionRecord) DisplayName() string {
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name == "" {
		return c.Email
	}
	return name
}

// LinkedTo reports whether the record is linked to the given account.
func (c CompanionRecord) LinkedTo(userID int64) bool {
	return c.UserID != nil && *c.UserID == userID
}

// TableName returns the name of the database table
// associated with the CompanionRecord model.
func (c CompanionRecord) TableName() string {
	return "companions"
}

// PermissionGrant holds the trip-level permissions one user (GrantedBy)
// extends to a companion over the granter's own trips.
//
// At most one grant exists per (CompanionID, GrantedBy) pair; permission
// changes use find-or-create-then-update semantics. Grants are never
// hard-deleted in normal flows; revocation flips the flags.
type PermissionGrant struct {
	GrantID     int64 `json:"-"`
	CompanionID int64 `json:"companion_id"`

	// GrantedBy is the UserID of the granting account. It distinguishes the
	// two directions of a bidirectional relationship sharing one
	// CompanionRecord.
	GrantedBy int64 `json:"granted_by"`

	// CanView allows the companion to see the granter's trips.
	CanView bool `json:"can_view"`

	// CanEdit allows the companion to manage the granter's trips.
	CanEdit bool `json:"can_edit"`

	// CanManageCompanions is reserved; no flow consumes it yet.
	CanManageCompanions bool `json:"can_manage_companions"`

	UpdatedAt time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the PermissionGrant model.
func (p PermissionGrant) TableName() string {
	return "companion_permissions"
}

// MergedCompanion is the bidirectional relationship view assembled by the
// companion merger: one entry per counterpart email, with four independent
// booleans describing what each party has granted the other.
type MergedCompanion struct {
	// CompanionID is the canonical record identifier. When the relationship
	// exists in both directions it is always the record as seen from the
	// viewer's side (the first merge pass).
	CompanionID int64  `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	UserID      *int64 `json:"user_id,omitempty"`

	// CanShareTrips: I let them view my trips.
	CanShareTrips bool `json:"can_share_trips"`
	// TheyManageTrips: I let them edit my trips.
	TheyManageTrips bool `json:"they_manage_trips"`
	// TheyShareTrips: they let me view their trips.
	TheyShareTrips bool `json:"they_share_trips"`
	// CanManageTrips: they let me edit their trips.
	CanManageTrips bool `json:"can_manage_trips"`
}
