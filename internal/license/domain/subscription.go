package domain

import "time"

// SubscriptionStatus is the authorization state of an account at a point in
// time. Only StatusActive authorizes login and artifact download.
type SubscriptionStatus int

const (
	StatusActive SubscriptionStatus = iota
	StatusExpired
	StatusNoSubscription
	StatusBanned
)

func (s SubscriptionStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusExpired:
		return "expired"
	case StatusNoSubscription:
		return "no_subscription"
	default:
		return "banned"
	}
}

// SubscriptionStatusAt evaluates the account's entitlement at the given time.
// Banned wins over everything else regardless of the subscription window.
// This is a pure function over (SubscriptionEnd, Active, now); it must be
// re-evaluated on every authorization decision, never cached, because a
// subscription can expire mid-session.
func SubscriptionStatusAt(a Account, now time.Time) SubscriptionStatus {
	if !a.Active {
		return StatusBanned
	}
	if a.SubscriptionEnd == nil {
		return StatusNoSubscription
	}
	if !now.Before(*a.SubscriptionEnd) {
		return StatusExpired
	}
	return StatusActive
}
