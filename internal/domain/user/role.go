package user

// Role is the actor role carried in JWT claims. Who holds which role is
// decided by the external identity service; the core only gates on it.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// CanApprove reports whether the role may move attendance records to a
// terminal approval state.
func (r Role) CanApprove() bool {
	return r == RoleManager || r == RoleAdmin
}

// CanOverride reports whether the role may correct derived numeric fields.
func (r Role) CanOverride() bool {
	return r == RoleAdmin
}
