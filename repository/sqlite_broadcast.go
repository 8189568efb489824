package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/database"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
)

// sqliteBroadcastRepo — implementação SQLite de BroadcastRepository.
type sqliteBroadcastRepo struct {
	db database.TxQuerier
}

// NewSQLiteBroadcastRepo, constructor.
func NewSQLiteBroadcastRepo(db database.TxQuerier) BroadcastRepository {
	return &sqliteBroadcastRepo{db: db}
}

func (r *sqliteBroadcastRepo) Get(ctx context.Context) (*models.BroadcastState, error) {
	query := `
		SELECT is_live, stream_url, title, description, offline_message,
		       next_event_title, next_event_description, next_event_starts_at,
		       show_viewer_count, badge_color, updated_at
		FROM broadcast_state WHERE id = 1`

	var (
		state            models.BroadcastState
		streamURL        sql.NullString
		description      sql.NullString
		nextTitle        sql.NullString
		nextDescription  sql.NullString
		nextStartsAt     sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query).Scan(
		&state.IsLive, &streamURL, &state.Title, &description,
		&state.OfflineMessage, &nextTitle, &nextDescription, &nextStartsAt,
		&state.ShowViewerCount, &state.BadgeColor, &state.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get broadcast state: %w", err)
	}

	if streamURL.Valid {
		state.StreamURL = &streamURL.String
	}
	if description.Valid {
		state.Description = &description.String
	}
	// next_event só existe como um todo: título presente ⇒ evento presente
	if nextTitle.Valid {
		state.NextEvent = &models.NextEvent{
			Title:    nextTitle.String,
			StartsAt: nextStartsAt.Time,
		}
		if nextDescription.Valid {
			state.NextEvent.Description = nextDescription.String
		}
	}

	return &state, nil
}

func (r *sqliteBroadcastRepo) SetLive(ctx context.Context, streamURL, title string, description *string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE broadcast_state
		SET is_live = 1, stream_url = ?, title = ?, description = ?, updated_at = ?
		WHERE id = 1`,
		streamURL, title, description, now,
	)
	if err != nil {
		return fmt.Errorf("failed to set broadcast live: %w", err)
	}
	return nil
}

func (r *sqliteBroadcastRepo) SetOffline(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE broadcast_state SET is_live = 0, updated_at = ? WHERE id = 1`,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to set broadcast offline: %w", err)
	}
	return nil
}

// UpdateConfig monta o UPDATE dinamicamente: só os campos não-nil do request
// entram no SET. Um único statement — a linha nunca fica meio-atualizada.
func (r *sqliteBroadcastRepo) UpdateConfig(ctx context.Context, req *models.UpdateConfigRequest, now time.Time) error {
	var sets []string
	var args []any

	if req.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *req.Title)
	}
	if req.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *req.Description)
	}
	if req.OfflineMessage != nil {
		sets = append(sets, "offline_message = ?")
		args = append(args, *req.OfflineMessage)
	}
	if req.NextEvent != nil {
		sets = append(sets, "next_event_title = ?", "next_event_description = ?", "next_event_starts_at = ?")
		args = append(args, req.NextEvent.Title, req.NextEvent.Description, req.NextEvent.StartsAt)
	} else if req.ClearNextEvent {
		sets = append(sets, "next_event_title = NULL", "next_event_description = NULL", "next_event_starts_at = NULL")
	}
	if req.ShowViewerCount != nil {
		sets = append(sets, "show_viewer_count = ?")
		args = append(args, *req.ShowViewerCount)
	}
	if req.BadgeColor != nil {
		sets = append(sets, "badge_color = ?")
		args = append(args, *req.BadgeColor)
	}

	if len(sets) == 0 {
		return nil // PATCH vazio é um no-op
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, now)

	query := fmt.Sprintf("UPDATE broadcast_state SET %s WHERE id = 1", strings.Join(sets, ", "))

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update broadcast config: %w", err)
	}
	return nil
}
