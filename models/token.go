package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims é o payload do JWT do administrador.
//
// O escopo do produto é um único admin (quem opera a transmissão), então o
// claim carrega só o username configurado no ambiente. O middleware valida a
// assinatura e a expiração sem consultar o banco.
//
// Vive em models porque é usado por services e middleware — ambos podem
// depender de models sem criar ciclo de import.
type TokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// LoginRequest — payload de POST /api/admin/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
