// Package database — embed das migrations no binário.
//
// O //go:embed grava os arquivos dentro do executável em tempo de compilação.
// O deploy é um binário único: não precisa carregar a pasta migrations junto.
package database

import "embed"

// EmbeddedMigrations contém os .sql de migrations/.
// Uso: fs.Sub(EmbeddedMigrations, "migrations") para acessar o subdiretório.
//
//go:embed migrations/*.sql
var EmbeddedMigrations embed.FS
