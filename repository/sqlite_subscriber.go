package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/database"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
)

// sqliteSubscriberRepo — implementação SQLite de SubscriberRepository.
type sqliteSubscriberRepo struct {
	db database.TxQuerier
}

// NewSQLiteSubscriberRepo, constructor.
func NewSQLiteSubscriberRepo(db database.TxQuerier) SubscriberRepository {
	return &sqliteSubscriberRepo{db: db}
}

func (r *sqliteSubscriberRepo) Upsert(ctx context.Context, email string, now time.Time) error {
	// OR IGNORE: inscrição repetida mantém o created_at original
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO subscribers (email, created_at) VALUES (?, ?)`,
		email, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert subscriber: %w", err)
	}
	return nil
}

func (r *sqliteSubscriberRepo) ListAll(ctx context.Context) ([]models.Subscriber, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT email, created_at FROM subscribers ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []models.Subscriber
	for rows.Next() {
		var sub models.Subscriber
		if err := rows.Scan(&sub.Email, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		subscribers = append(subscribers, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscribers: %w", err)
	}

	return subscribers, nil
}

func (r *sqliteSubscriberRepo) Delete(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM subscribers WHERE email = ?`, email)
	if err != nil {
		return fmt.Errorf("failed to delete subscriber: %w", err)
	}
	return nil
}
