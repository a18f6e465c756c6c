package domain

// User is the operator profile returned after login. There is a single
// fixed operator account; no user management exists.
type User struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Teams       []string `json:"teams"`
	Permissions []string `json:"permissions"`
}
