package m_user

// Field name constants for the users table.
const (
	TableName = "users"

	UserID    = "user_id"
	Username  = "username"
	Avatar    = "avatar"
	Role      = "role"
	CreatedAt = "created_at"
)

// Roles
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)
