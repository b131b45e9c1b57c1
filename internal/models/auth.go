package models

import "github.com/golang-jwt/jwt/v5"

// AuthClaims is the payload of the tokens issued by login
type AuthClaims struct {
	ID       string `json:"id"`
	Role     string `json:"role"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on a successful login
type LoginResponse struct {
	Token   string      `json:"token"`
	Usuario UserSummary `json:"usuario"`
}
