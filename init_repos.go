// Package main — inicialização da camada repository.
//
// initRepositories cria todas as implementações de repository.
// Cada repository recebe a conexão SQLite e retorna a interface.
// Vive em arquivo próprio para manter o wire-up do main.go enxuto.
package main

import (
	"database/sql"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/repository"
)

// Repositories é o container com todas as instâncias de repository.
//
// Por que um struct? Um parâmetro só nas funções de wire-up em vez de
// quatro, e adicionar um repository novo mexe em um lugar só.
type Repositories struct {
	Broadcast  repository.BroadcastRepository
	Viewer     repository.ViewerRepository
	Message    repository.MessageRepository
	Subscriber repository.SubscriberRepository
}

// initRepositories cria todos os repositories a partir da conexão.
// Todos compartilham o mesmo *sql.DB — o pool do database/sql é thread-safe.
func initRepositories(conn *sql.DB) *Repositories {
	return &Repositories{
		Broadcast:  repository.NewSQLiteBroadcastRepo(conn),
		Viewer:     repository.NewSQLiteViewerRepo(conn),
		Message:    repository.NewSQLiteMessageRepo(conn),
		Subscriber: repository.NewSQLiteSubscriberRepo(conn),
	}
}
