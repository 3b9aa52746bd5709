package auth

// Actor identifies who is performing a mutating operation. Every domain
// service takes it explicitly; nothing is read from ambient state.
type Actor struct {
	UserID   string
	TenantID string
	Role     string
}

// CanBackdate reports whether the actor may supply custom timestamps on
// entries instead of the server clock.
func CanBackdate(actor Actor) bool {
	switch actor.Role {
	case RoleManager, RoleOwner:
		return true
	default:
		return false
	}
}
