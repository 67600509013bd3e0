// Package auth contiene DTOs para registro, login y sesión.
package auth

import "time"

// CredentialsRequest es el cuerpo de registro y login (JSON o urlencoded).
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse es la vista pública de un usuario.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Admin     bool      `json:"admin"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterResponse representa la respuesta de POST /api/v2/users.
type RegisterResponse struct {
	User UserResponse `json:"user"`
}

// LoginResponse representa la respuesta exitosa de login.
type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"` // "Bearer"
	ExpiresIn int64        `json:"expires_in"` // segundos
	User      UserResponse `json:"user"`
}

// LoginResult es el resultado interno del service.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      UserResponse
}

// MeResponse devuelve las claims decodificadas y, si existe, el usuario guardado.
type MeResponse struct {
	Claims map[string]any `json:"claims"`
	User   *UserResponse  `json:"user,omitempty"`
}
