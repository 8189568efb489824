// Package database gerencia a conexão SQLite e o sistema de migrations.
//
// O database/sql da biblioteca padrão dá uma interface comum para qualquer
// banco; o driver concreto é registrado via blank import — o import existe
// só pelo efeito colateral de registro:
//
//	_ "modernc.org/sqlite"
//
// Usamos o driver modernc (Go puro): sem CGO, compila em qualquer plataforma.
package database

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

// DB embrulha a conexão com o banco.
// *sql.DB já é um connection pool thread-safe — várias goroutines podem
// usá-lo ao mesmo tempo (cada heartbeat de espectador é uma delas).
type DB struct {
	Conn *sql.DB
}

// New abre (ou cria) o banco SQLite e aplica as migrations pendentes.
//
// dbPath: caminho do arquivo (ex.: "./data/aovivo.db").
// migrationsFS: fs.FS com os arquivos .sql (embed.FS em produção,
// os.DirFS nos testes se necessário).
func New(dbPath string, migrationsFS fs.FS) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas:
	// foreign_keys(1) → constraints de FK ativas (SQLite vem desligado!)
	// journal_mode(WAL) → leituras concorrentes com escrita, essencial aqui:
	// o countActive roda a cada poll enquanto heartbeats escrevem.
	// busy_timeout(5000) → escritas concorrentes esperam em vez de falhar
	// com SQLITE_BUSY na hora.
	conn, err := sql.Open("sqlite",
		dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{Conn: conn}

	if err := db.runMigrations(migrationsFS); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("[database] connected and migrations applied")
	return db, nil
}

// Close fecha a conexão com o banco.
func (db *DB) Close() error {
	return db.Conn.Close()
}

// runMigrations aplica os arquivos .sql em ordem alfabética (001_, 002_, ...).
//
// A tabela schema_migrations registra o que já foi aplicado, então comandos
// não-idempotentes (ALTER TABLE etc.) nunca rodam duas vezes. Em cada
// startup, só as migrations novas executam.
func (db *DB) runMigrations(migrationsFS fs.FS) error {
	if _, err := db.Conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	entries, err := fs.ReadDir(migrationsFS, ".")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	applied := make(map[string]bool)
	rows, err := db.Conn.Query(`SELECT filename FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("failed to query schema_migrations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate migration rows: %w", err)
	}

	for _, file := range sqlFiles {
		if applied[file] {
			continue
		}

		content, err := fs.ReadFile(migrationsFS, file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		// Executa statement por statement — Exec aceita múltiplos comandos,
		// mas cada um seria autocommit independente; separando, um erro
		// aponta exatamente qual statement quebrou.
		if err := db.execStatements(file, string(content)); err != nil {
			return err
		}

		if _, err := db.Conn.Exec(
			`INSERT INTO schema_migrations (filename) VALUES (?)`, file,
		); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", file, err)
		}

		log.Printf("[database] migration applied: %s", file)
	}

	return nil
}

// execStatements roda o SQL de uma migration separado por ponto e vírgula,
// ignorando os ';' dentro de string literals e de comentários.
func (db *DB) execStatements(filename, content string) error {
	for i, stmt := range splitStatements(content) {
		if _, err := db.Conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute migration %s (statement %d): %w", filename, i+1, err)
		}
	}
	return nil
}

// splitStatements divide o texto SQL em statements.
//
// Separa por ';' fora de strings ('...'), de comentários de linha (-- até o
// fim da linha) e de comentários de bloco (/* ... */). Aspas escapadas ('')
// são tratadas. Os comentários ficam no texto do statement — o SQLite os
// aceita —, mas um trecho só de comentários não vira statement.
func splitStatements(sqlText string) []string {
	var statements []string
	var current strings.Builder
	inString := false
	hasSQL := false

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" && hasSQL {
			statements = append(statements, s)
		}
		current.Reset()
		hasSQL = false
	}

	for i := 0; i < len(sqlText); i++ {
		ch := sqlText[i]

		// Comentário de linha: copia até o '\n' sem interpretar nada dentro.
		if !inString && ch == '-' && i+1 < len(sqlText) && sqlText[i+1] == '-' {
			for i < len(sqlText) && sqlText[i] != '\n' {
				current.WriteByte(sqlText[i])
				i++
			}
			if i < len(sqlText) {
				current.WriteByte('\n')
			}
			continue
		}

		// Comentário de bloco: copia até o '*/' (ou o fim do texto).
		if !inString && ch == '/' && i+1 < len(sqlText) && sqlText[i+1] == '*' {
			current.WriteString("/*")
			i += 2
			for i < len(sqlText) {
				if sqlText[i] == '*' && i+1 < len(sqlText) && sqlText[i+1] == '/' {
					current.WriteString("*/")
					i++
					break
				}
				current.WriteByte(sqlText[i])
				i++
			}
			continue
		}

		if ch == '\'' {
			if inString && i+1 < len(sqlText) && sqlText[i+1] == '\'' {
				current.WriteByte(ch)
				current.WriteByte(sqlText[i+1])
				hasSQL = true
				i++
				continue
			}
			inString = !inString
		}

		if ch == ';' && !inString {
			flush()
			continue
		}

		if ch != ' ' && ch != '\t' && ch != '\n' && ch != '\r' {
			hasSQL = true
		}
		current.WriteByte(ch)
	}

	flush()
	return statements
}
