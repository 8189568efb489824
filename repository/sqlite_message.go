package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/database"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
)

// sqliteMessageRepo — implementação SQLite de MessageRepository.
type sqliteMessageRepo struct {
	db database.TxQuerier
}

// NewSQLiteMessageRepo, constructor.
func NewSQLiteMessageRepo(db database.TxQuerier) MessageRepository {
	return &sqliteMessageRepo{db: db}
}

func (r *sqliteMessageRepo) Insert(ctx context.Context, msg *models.LiveMessage) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO live_messages (id, session_id, display_name, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.SessionID, msg.DisplayName, msg.Content, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert live message: %w", err)
	}
	return nil
}

// ListRecent busca as N mais novas (DESC + LIMIT) e inverte em memória —
// o subselect com reordenação custaria o mesmo e leria pior.
func (r *sqliteMessageRepo) ListRecent(ctx context.Context, limit int) ([]models.LiveMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, display_name, content, created_at
		FROM live_messages
		ORDER BY created_at DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list live messages: %w", err)
	}
	defer rows.Close()

	var messages []models.LiveMessage
	for rows.Next() {
		var msg models.LiveMessage
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.DisplayName, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan live message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate live messages: %w", err)
	}

	// inverte para ordem cronológica
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (r *sqliteMessageRepo) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM live_messages WHERE created_at < ?`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune live messages: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned messages: %w", err)
	}
	return deleted, nil
}
