package domain

// RoleKind identifies how the current session acts on the platform.
type RoleKind string

const (
	// RoleOwner receives new-order notifications for its business.
	RoleOwner RoleKind = "owner"
	// RoleCustomer receives status-change notifications for its own orders.
	RoleCustomer RoleKind = "customer"
	// RoleUnknown means neither a business nor a customer record was found;
	// the session degrades to an inert customer view with no subscriptions.
	RoleUnknown RoleKind = "unknown"
)

// Role is the result of the single authoritative role-resolution call,
// performed once per session. Exactly one of BusinessID / CustomerID is
// set, matching Kind.
type Role struct {
	Kind       RoleKind
	BusinessID string
	CustomerID string
}

func OwnerRole(businessID string) Role {
	return Role{Kind: RoleOwner, BusinessID: businessID}
}

func CustomerRole(customerID string) Role {
	return Role{Kind: RoleCustomer, CustomerID: customerID}
}

func UnknownRole() Role {
	return Role{Kind: RoleUnknown}
}

// Preferences is the persisted per-user record gating aggregator side
// effects. Notifications off suppresses modals and toasts; Sound off
// suppresses the new-order alert only.
type Preferences struct {
	Sound         bool
	Notifications bool
}

// DefaultPreferences is used when no record exists for the user.
func DefaultPreferences() Preferences {
	return Preferences{Sound: true, Notifications: true}
}
