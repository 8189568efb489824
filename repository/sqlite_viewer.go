package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/database"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg"
)

// sqliteViewerRepo — implementação SQLite de ViewerRepository.
type sqliteViewerRepo struct {
	db database.TxQuerier
}

// NewSQLiteViewerRepo, constructor.
func NewSQLiteViewerRepo(db database.TxQuerier) ViewerRepository {
	return &sqliteViewerRepo{db: db}
}

// Upsert usa ON CONFLICT do SQLite: insert-ou-update em um único statement
// atômico. No conflito (re-registro do mesmo id), joined_at NÃO entra no
// SET — o momento de entrada original é preservado.
func (r *sqliteViewerRepo) Upsert(ctx context.Context, session *models.ViewerSession) error {
	query := `
		INSERT INTO viewer_sessions (session_id, display_name, email, joined_at, last_activity_at, watching)
		VALUES (?, ?, ?, ?, ?, 1)
		ON CONFLICT(session_id) DO UPDATE SET
			display_name = excluded.display_name,
			email = excluded.email,
			last_activity_at = excluded.last_activity_at,
			watching = 1`

	_, err := r.db.ExecContext(ctx, query,
		session.SessionID,
		session.DisplayName,
		session.Email,
		session.JoinedAt,
		session.LastActivityAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert viewer session: %w", err)
	}
	return nil
}

func (r *sqliteViewerRepo) Get(ctx context.Context, sessionID string) (*models.ViewerSession, error) {
	query := `
		SELECT session_id, display_name, email, joined_at, last_activity_at, watching
		FROM viewer_sessions WHERE session_id = ?`

	session := &models.ViewerSession{}
	var email sql.NullString

	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&session.SessionID, &session.DisplayName, &email,
		&session.JoinedAt, &session.LastActivityAt, &session.Watching,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get viewer session: %w", err)
	}

	if email.Valid {
		session.Email = &email.String
	}
	return session, nil
}

// Touch é o heartbeat: um UPDATE que só mexe em last_activity_at.
// RowsAffected = 0 significa sessão desconhecida (provavelmente purgada) —
// o caller devolve NotFound e o client se re-registra.
func (r *sqliteViewerRepo) Touch(ctx context.Context, sessionID string, now time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE viewer_sessions SET last_activity_at = ? WHERE session_id = ?`,
		now, sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to touch viewer session: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check touch result: %w", err)
	}
	if affected == 0 {
		return pkg.ErrNotFound
	}
	return nil
}

// MarkLeft não retorna erro para sessão ausente: leave é advisory e
// idempotente — chamar duas vezes tem o mesmo efeito de chamar uma.
func (r *sqliteViewerRepo) MarkLeft(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE viewer_sessions SET watching = 0 WHERE session_id = ?`,
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark viewer session left: %w", err)
	}
	return nil
}

func (r *sqliteViewerRepo) CountActive(ctx context.Context, cutoff time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM viewer_sessions WHERE watching = 1 AND last_activity_at >= ?`,
		cutoff,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active viewers: %w", err)
	}
	return count, nil
}

func (r *sqliteViewerRepo) List(ctx context.Context, includeInactive bool, cutoff time.Time) ([]models.ViewerSessionInfo, error) {
	// O flag active sai calculado do próprio SQL, pela MESMA regra do
	// CountActive — as duas visões nunca divergem na regra, só no instante.
	query := `
		SELECT session_id, display_name, email, joined_at, last_activity_at, watching,
		       CASE WHEN watching = 1 AND last_activity_at >= ? THEN 1 ELSE 0 END AS active
		FROM viewer_sessions`
	if !includeInactive {
		query += ` WHERE watching = 1 AND last_activity_at >= ?`
	}
	query += ` ORDER BY joined_at DESC`

	args := []any{cutoff}
	if !includeInactive {
		args = append(args, cutoff)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list viewer sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.ViewerSessionInfo
	for rows.Next() {
		var info models.ViewerSessionInfo
		var email sql.NullString

		if err := rows.Scan(
			&info.SessionID, &info.DisplayName, &email,
			&info.JoinedAt, &info.LastActivityAt, &info.Watching, &info.Active,
		); err != nil {
			return nil, fmt.Errorf("failed to scan viewer session: %w", err)
		}
		if email.Valid {
			info.Email = &email.String
		}
		sessions = append(sessions, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate viewer sessions: %w", err)
	}

	return sessions, nil
}

func (r *sqliteViewerRepo) PurgeStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM viewer_sessions WHERE last_activity_at < ?`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge stale sessions: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged sessions: %w", err)
	}
	return deleted, nil
}
