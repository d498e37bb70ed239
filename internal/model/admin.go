package model

// Admin represents an administrative account. Only the bcrypt hash of the
// password is ever stored or serialized.
type Admin struct {
	ID           int    `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
}

// AdminCreate represents data needed to create an admin account.
type AdminCreate struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=8"`
}

// AdminUpdate rotates the username and/or password.
type AdminUpdate struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=100"`
	Password *string `json:"password" binding:"omitempty,min=8"`
}

// AdminLogin represents login credentials.
type AdminLogin struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned after a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
	Admin       Admin  `json:"admin"`
}
