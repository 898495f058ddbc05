package dto

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

// LoginResponse token de sesión emitido tras un login correcto.
type LoginResponse struct {
	Token string `json:"token"`
	User  string `json:"user"`
}

// ChangePasswordRequest body para POST /api/auth/change-password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// UpdateAPIKeysRequest body para POST /api/auth/apis. Los campos nil no se tocan.
type UpdateAPIKeysRequest struct {
	Kissoro  *string `json:"apiKissoro,omitempty"`
	EnPlural *string `json:"apiEnPlural,omitempty"`
	Groq     *string `json:"apiGroq,omitempty"`
}
