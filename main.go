// Package main é o ponto de entrada do serviço de transmissão ao vivo
// do site da Aviva Nações.
//
// A tarefa deste arquivo é o "wire-up" de Dependency Injection:
//  1. Carregar o config
//  2. Abrir o banco (migrations embutidas no binário)
//  3. Criar os repositories (conexão)
//  4. Subir o WebSocket Hub
//  5. Criar os services (repositories + hub)
//  6. Criar os handlers (services)
//  7. Ligar os callbacks do Hub aos services
//  8. Registrar as rotas e o CORS
//  9. Iniciar o janitor de limpeza
// 10. Subir o HTTP server
// 11. Graceful shutdown
//
// Nenhuma variável global — tudo nasce aqui e é ligado explicitamente.
package main

import (
	"context"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/config"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/database"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/services"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/ws"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] aovivo server starting...")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (addr=%s)", cfg.Server.Addr())

	// ─── 2. Database ───
	// As migrations vão embutidas no binário (go:embed) — o deploy é um
	// arquivo só, sem diretório de migrations do lado.
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("[main] failed to create data directory: %v", err)
	}

	migrationsFS, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		log.Fatalf("[main] failed to open embedded migrations: %v", err)
	}

	db, err := database.New(cfg.Database.Path, migrationsFS)
	if err != nil {
		log.Fatalf("[main] failed to initialize database: %v", err)
	}
	defer db.Close()

	// ─── 3. Repository Layer ───
	repos := initRepositories(db.Conn)

	// ─── 4. WebSocket Hub ───
	hub := ws.NewHub()
	go hub.Run()

	// ─── 5. Service Layer ───
	svcs := initServices(repos, hub, cfg)

	// ─── 6. Handler Layer ───
	h := initHandlers(svcs, hub)

	// ─── 7. Hub Callbacks ───
	registerHubCallbacks(hub, svcs.Chat)

	// ─── 8. Router + CORS ───
	mux := http.NewServeMux()
	initRoutes(mux, h, svcs.Auth)

	corsMw := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	// ─── 9. Janitor ───
	janitor := services.NewJanitor(svcs.Presence, repos.Message, cfg.Presence)
	janitor.Start()

	// ─── 10. HTTP Server ───
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      corsMw.Handler(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[main] listening on %s", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	// ─── 11. Graceful Shutdown ───
	// SIGINT (Ctrl+C) ou SIGTERM (systemd stop) → para de aceitar conexões,
	// espera as em andamento (até 10s), fecha ws, janitor e banco.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[main] shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[main] server shutdown error: %v", err)
	}

	hub.Shutdown()
	janitor.Stop()
	svcs.Notify.Close()
	h.Auth.Close()
	h.Presence.Close()

	log.Println("[main] bye")
}
