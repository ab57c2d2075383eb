package domain

// Role is the system role assigned to a user account. It decides which
// dashboard sections are reachable.
type Role string

const (
	RoleConsumer Role = "CONSUMER"
	RoleMerchant Role = "MERCHANT"
	RoleAdmin    Role = "ADMIN"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleConsumer, RoleMerchant, RoleAdmin:
		return true
	}
	return false
}

// User mirrors the account record returned by the campus-store backend.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
	Headline  string `json:"headline"`
	StoreName string `json:"store_name"`
	AvatarURL string `json:"avatar_url"`
	Avatar    string `json:"avatar,omitempty"`
}

// SessionPayload is the body returned by login and register: the account
// record plus an opaque session token and its expiry timestamp.
type SessionPayload struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}
