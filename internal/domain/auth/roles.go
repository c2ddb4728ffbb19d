package auth

const (
	RoleBusiness = "business"
	RoleEmployee = "employee"
)

func ValidRole(name string) bool {
	return name == RoleBusiness || name == RoleEmployee
}
