// Package config gerencia toda a configuração da aplicação em um só lugar.
// Lê de environment variables, com suporte a arquivo .env para desenvolvimento.
//
// Em vez de espalhar os.Getenv() pelo código, montamos um único struct Config
// no startup e passamos as partes relevantes para cada camada no wire-up.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carrega todos os valores de configuração da aplicação.
// Cada sub-struct representa um concern separado.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Admin    AdminConfig
	Presence PresenceConfig
	Email    EmailConfig
	CORS     CORSConfig
}

// ServerConfig — ajustes do HTTP server.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig — ajustes do SQLite.
type DatabaseConfig struct {
	Path string // caminho do arquivo (ex.: ./data/aovivo.db)
}

// AdminConfig — credenciais do único administrador.
//
// O escopo do produto é um admin só (quem opera a transmissão), então as
// credenciais vêm do ambiente em vez de uma tabela de usuários:
// ADMIN_USERNAME + ADMIN_PASSWORD_HASH (hash bcrypt, nunca a senha em claro).
type AdminConfig struct {
	Username     string
	PasswordHash string // hash bcrypt da senha
	JWTSecret    string // chave de assinatura dos tokens — MANTER SECRETA
	TokenExpiry  int    // validade do access token, em minutos
}

// PresenceConfig — as janelas de tempo do sistema de presença.
//
// StaleWindow é O timeout do sistema: espectador sem heartbeat além dessa
// janela deixa de contar como ativo. 2 minutos contra heartbeats de 30s
// tolera ~3 heartbeats perdidos antes de considerar o espectador ausente —
// o equilíbrio entre detectar saída rápido e perdoar oscilação de rede.
// Por isso é configurável, nunca hardcoded nos services.
type PresenceConfig struct {
	StaleWindow   time.Duration // sessão sem heartbeat além disso não conta (padrão 2min)
	Retention     time.Duration // purge remove sessões inativas além disso (padrão 24h)
	PurgeInterval time.Duration // frequência do purge automático (padrão 1h)
}

// EmailConfig — ajustes do Resend para o aviso "estamos ao vivo".
// APIKey vazio desliga o envio (deploy de desenvolvimento não manda email).
type EmailConfig struct {
	ResendAPIKey string
	FromEmail    string
	SiteURL      string
}

// CORSConfig — origens permitidas (os sites da igreja e da escola).
type CORSConfig struct {
	AllowedOrigins []string
}

// Load monta o Config a partir das environment variables.
// Se existir um .env, carrega primeiro (conveniência de desenvolvimento;
// em produção as variáveis vêm do ambiente real).
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "9090"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	tokenExpiry, err := strconv.Atoi(getEnv("ADMIN_TOKEN_EXPIRY_MINUTES", "720"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_TOKEN_EXPIRY_MINUTES: %w", err)
	}

	staleSeconds, err := strconv.Atoi(getEnv("PRESENCE_STALE_SECONDS", "120"))
	if err != nil {
		return nil, fmt.Errorf("invalid PRESENCE_STALE_SECONDS: %w", err)
	}

	retentionHours, err := strconv.Atoi(getEnv("PRESENCE_RETENTION_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid PRESENCE_RETENTION_HOURS: %w", err)
	}

	purgeMinutes, err := strconv.Atoi(getEnv("PRESENCE_PURGE_INTERVAL_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid PRESENCE_PURGE_INTERVAL_MINUTES: %w", err)
	}

	jwtSecret := getEnv("ADMIN_JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("ADMIN_JWT_SECRET environment variable is required")
	}

	passwordHash := getEnv("ADMIN_PASSWORD_HASH", "")
	if passwordHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD_HASH environment variable is required")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/aovivo.db"),
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			PasswordHash: passwordHash,
			JWTSecret:    jwtSecret,
			TokenExpiry:  tokenExpiry,
		},
		Presence: PresenceConfig{
			StaleWindow:   time.Duration(staleSeconds) * time.Second,
			Retention:     time.Duration(retentionHours) * time.Hour,
			PurgeInterval: time.Duration(purgeMinutes) * time.Minute,
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			FromEmail:    getEnv("EMAIL_FROM", "avisos@avivanacoes.com.br"),
			SiteURL:      getEnv("SITE_URL", "https://avivanacoes.com.br"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				getEnv("SITE_ORIGIN", "https://avivanacoes.com.br"),
				getEnv("SCHOOL_ORIGIN", "https://escola.avivanacoes.com.br"),
				"http://localhost:4200", // Angular dev server
			},
		},
	}

	return cfg, nil
}

// Addr retorna o endereço de escuta do HTTP server (ex.: "0.0.0.0:9090").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv lê uma environment variable, ou retorna o fallback se não existir.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
