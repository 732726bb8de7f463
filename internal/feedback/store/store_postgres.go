package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"matchday/internal/feedback/models"
	id "matchday/pkg/domain"
	txcontext "matchday/pkg/platform/tx"
)

// PostgresStore persists feedback requests in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) execer(ctx context.Context) txcontext.Execer {
	return txcontext.ExecerFor(ctx, s.db)
}

// CreateIfAbsent inserts r unless the (match, user) pair already has a request.
func (s *PostgresStore) CreateIfAbsent(ctx context.Context, r *models.Request) (bool, error) {
	query := `
		INSERT INTO feedback_requests (id, match_id, user_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (match_id, user_id) DO NOTHING
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(r.ID),
		uuid.UUID(r.MatchID),
		uuid.UUID(r.UserID),
		string(r.Status),
		r.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("create feedback request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create feedback request rows affected: %w", err)
	}
	return n == 1, nil
}

func (s *PostgresStore) ListByMatch(ctx context.Context, matchID id.MatchID) ([]*models.Request, error) {
	query := `
		SELECT id, match_id, user_id, status, created_at, completed_at
		FROM feedback_requests
		WHERE match_id = $1
		ORDER BY created_at, id
	`
	return s.list(ctx, query, uuid.UUID(matchID))
}

func (s *PostgresStore) ListPendingByUser(ctx context.Context, userID id.UserID) ([]*models.Request, error) {
	query := `
		SELECT id, match_id, user_id, status, created_at, completed_at
		FROM feedback_requests
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at, id
	`
	return s.list(ctx, query, uuid.UUID(userID), string(models.RequestPending))
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]*models.Request, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list feedback requests: %w", err)
	}
	defer rows.Close()

	var out []*models.Request
	for rows.Next() {
		var (
			r                    models.Request
			reqID, matchID, user uuid.UUID
			status               string
			completedAt          sql.NullTime
		)
		if err := rows.Scan(&reqID, &matchID, &user, &status, &r.CreatedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scan feedback request: %w", err)
		}
		r.ID = id.FeedbackID(reqID)
		r.MatchID = id.MatchID(matchID)
		r.UserID = id.UserID(user)
		r.Status = models.RequestStatus(status)
		if completedAt.Valid {
			t := completedAt.Time
			r.CompletedAt = &t
		}
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedback requests: %w", err)
	}
	return out, nil
}
