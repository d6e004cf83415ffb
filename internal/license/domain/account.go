package domain

import "time"

// Account is the licensed identity: credentials, device binding, entitlement
// window and status. Accounts are never deleted; a banned account stays on
// record with Active=false.
type Account struct {
	ID              string
	ExternalChatID  *int64     // Messaging front-end identity (nullable, unique when set)
	Username        string     // Unique, immutable after creation
	PasswordHash    string     // argon2id PHC encoded, never logged
	DeviceID        *string    // Bound hardware fingerprint (nullable, write-once-until-reset)
	SubscriptionEnd *time.Time // Nil or past means no active entitlement
	Active          bool
	CreatedAt       time.Time
}

// DeviceBound reports whether a hardware fingerprint is bound.
func (a Account) DeviceBound() bool {
	return a.DeviceID != nil && *a.DeviceID != ""
}
