package users

// Roles known to the staff app. Role is a free-form string; the directory
// never rejects a value outside this list.
const (
	RoleAdmin     = "ADMIN"
	RoleManager   = "gerente"
	RoleAttendant = "atendente"
	RoleCook      = "cozinheiro"
	RoleCashier   = "caixa"
)

// Roles lists the roles offered when enrolling an employee.
var Roles = []string{RoleAttendant, RoleCook, RoleCashier, RoleManager, RoleAdmin}

// User is one employee credential record as persisted under the "users" key.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Login string `json:"login"`
	PIN   string `json:"pin"`
	Role  string `json:"role"`
}

// CanManageStaff reports whether the role may add, edit or remove employees.
func (u User) CanManageStaff() bool {
	return IsManagerRole(u.Role)
}

func IsManagerRole(role string) bool {
	return role == RoleAdmin || role == RoleManager
}

// Patch carries a partial update. Nil fields are left unchanged.
type Patch struct {
	Name  *string
	Login *string
	PIN   *string
	Role  *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Login == nil && p.PIN == nil && p.Role == nil
}

func (p Patch) apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Login != nil {
		u.Login = *p.Login
	}
	if p.PIN != nil {
		u.PIN = *p.PIN
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	return u
}
