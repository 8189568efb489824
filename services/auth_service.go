package services

import (
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/config"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg"
)

// AuthService — autenticação do único administrador.
//
// O produto tem um admin só (quem opera a transmissão nos cultos), então não
// existe tabela de usuários: as credenciais vêm do ambiente (ADMIN_USERNAME +
// ADMIN_PASSWORD_HASH em bcrypt) e o login emite um JWT assinado com
// ADMIN_JWT_SECRET. O middleware valida o token sem tocar no banco.
type AuthService interface {
	// Login confere usuário e senha e retorna o access token.
	// Credencial errada → pkg.ErrUnauthorized, sempre com a mesma mensagem —
	// não revelamos se foi o usuário ou a senha que errou.
	Login(req *models.LoginRequest) (string, error)

	// ValidateAccessToken valida assinatura e expiração e retorna os claims.
	ValidateAccessToken(tokenString string) (*models.TokenClaims, error)
}

type authService struct {
	cfg config.AdminConfig
}

// NewAuthService cria o service de autenticação.
func NewAuthService(cfg config.AdminConfig) AuthService {
	return &authService{cfg: cfg}
}

// Login — comparação de username + bcrypt da senha.
//
// bcrypt.CompareHashAndPassword é deliberadamente lento (fator de custo do
// hash) — essa lentidão é a defesa contra força bruta offline; a online é o
// rate limit por IP no handler.
func (s *authService) Login(req *models.LoginRequest) (string, error) {
	if req.Username != s.cfg.Username {
		// Mesmo caminho de erro da senha errada: tempo parecido, mensagem igual.
		return "", fmt.Errorf("%w: usuário ou senha incorretos", pkg.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(req.Password)); err != nil {
		return "", fmt.Errorf("%w: usuário ou senha incorretos", pkg.ErrUnauthorized)
	}

	token, err := s.generateToken(req.Username)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	log.Printf("[auth] admin logged in: %s", req.Username)
	return token, nil
}

// generateToken emite o JWT com validade configurada (padrão 12h — cobre o
// culto mais longo com folga).
func (s *authService) generateToken(username string) (string, error) {
	now := time.Now()

	claims := models.TokenClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "avivanacoes-live",
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.TokenExpiry) * time.Minute)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ValidateAccessToken — usado pelo middleware de auth e pelo handler de ws.
func (s *authService) ValidateAccessToken(tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		// Confere o algoritmo — sem isso um token "alg: none" passaria.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: token inválido ou expirado", pkg.ErrUnauthorized)
	}

	return claims, nil
}
