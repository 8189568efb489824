package client

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Identity é a identidade local do espectador: o nome escolhido (e o email,
// se informado). É o equivalente do localStorage do navegador — com ela o
// Controller reentra na transmissão sem perguntar o nome de novo.
//
// O session_id NÃO é persistido de propósito: cada visita registra uma
// sessão nova no servidor, e um id purgado nunca volta a existir.
type Identity struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
}

// IdentityStore guarda e recupera a identidade entre execuções.
type IdentityStore interface {
	// Load retorna a identidade salva, ou ok = false se não há nenhuma.
	Load() (Identity, bool, error)

	// Save persiste a identidade.
	Save(identity Identity) error

	// Clear apaga a identidade salva.
	Clear() error
}

// FileIdentityStore persiste a identidade em um arquivo JSON —
// o análogo direto do localStorage para um processo Go.
type FileIdentityStore struct {
	path string
	mu   sync.Mutex
}

// NewFileIdentityStore cria o store apontando para o arquivo dado
// (ex.: ~/.config/aovivo/identity.json).
func NewFileIdentityStore(path string) *FileIdentityStore {
	return &FileIdentityStore{path: path}
}

// Load lê o arquivo. Arquivo inexistente não é erro — é a primeira visita.
func (s *FileIdentityStore) Load() (Identity, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Identity{}, false, nil
	}
	if err != nil {
		return Identity{}, false, fmt.Errorf("failed to read identity file: %w", err)
	}

	var identity Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		// Arquivo corrompido → trata como ausente; o espectador informa o
		// nome de novo na próxima visita.
		return Identity{}, false, nil
	}
	if identity.DisplayName == "" {
		return Identity{}, false, nil
	}

	return identity, true, nil
}

// Save grava o arquivo com permissão restrita ao dono.
func (s *FileIdentityStore) Save(identity Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(identity, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode identity: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write identity file: %w", err)
	}
	return nil
}

// Clear remove o arquivo. Inexistente é no-op.
func (s *FileIdentityStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove identity file: %w", err)
	}
	return nil
}

// MemoryIdentityStore guarda a identidade só em memória — para testes e
// processos que não devem deixar rastro em disco.
type MemoryIdentityStore struct {
	mu       sync.Mutex
	identity Identity
	saved    bool
}

// NewMemoryIdentityStore cria o store em memória.
func NewMemoryIdentityStore() *MemoryIdentityStore {
	return &MemoryIdentityStore{}
}

func (s *MemoryIdentityStore) Load() (Identity, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity, s.saved, nil
}

func (s *MemoryIdentityStore) Save(identity Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = identity
	s.saved = true
	return nil
}

func (s *MemoryIdentityStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = Identity{}
	s.saved = false
	return nil
}
