package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"matchday/internal/match/models"
	"matchday/internal/platform/postgres"
	id "matchday/pkg/domain"
	"matchday/pkg/platform/sentinel"
	txcontext "matchday/pkg/platform/tx"
)

const defaultTxTimeout = 5 * time.Second

// PostgresStore persists match aggregates in PostgreSQL.
// Every method joins the transaction carried by ctx when there is one.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) execer(ctx context.Context) txcontext.Execer {
	return txcontext.ExecerFor(ctx, s.db)
}

// RunInTx runs fn inside one database transaction with a bounded lifetime.
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTxTimeout)
		defer cancel()
	}
	return txcontext.Run(ctx, s.db, fn)
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// -----------------------------------------------------------------------------
// Matches
// -----------------------------------------------------------------------------

const matchColumns = `id, title, start_date, duration_minutes, status, verification_code, code_expiry_time, creator_id, created_at, updated_at`

func (s *PostgresStore) CreateMatch(ctx context.Context, m *models.Match) error {
	query := `
		INSERT INTO matches (` + matchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(m.ID),
		m.Title,
		m.StartDate,
		m.DurationMinutes,
		string(m.Status),
		m.VerificationCode,
		m.CodeExpiryTime,
		uuid.UUID(m.CreatorID),
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("create match: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindMatchByID(ctx context.Context, matchID id.MatchID) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	m, err := scanMatch(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(matchID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find match: %w", err)
	}
	return m, nil
}

func (s *PostgresStore) FindMatchesByIDs(ctx context.Context, matchIDs []id.MatchID) ([]*models.Match, error) {
	if len(matchIDs) == 0 {
		return nil, nil
	}
	ids := make([]string, len(matchIDs))
	for i, matchID := range matchIDs {
		ids[i] = matchID.String()
	}
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = ANY($1::uuid[]) ORDER BY start_date`
	rows, err := s.execer(ctx).QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("find matches by ids: %w", err)
	}
	return collectMatches(rows)
}

// UpdateMatchStatus is a compare-and-set on status so a concurrent transition
// is never overwritten.
func (s *PostgresStore) UpdateMatchStatus(ctx context.Context, matchID id.MatchID, from, to models.MatchStatus, at time.Time) error {
	query := `
		UPDATE matches SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(matchID), string(from), string(to), at)
	if err != nil {
		return fmt.Errorf("update match status: %w", err)
	}
	return s.requireSwapped(ctx, res, matchID, "update match status")
}

// UpdateMatchCode swaps the code only while the stored one is still previous
// ("" for none). Status is not written.
func (s *PostgresStore) UpdateMatchCode(ctx context.Context, matchID id.MatchID, previous, code string, expiry, at time.Time) error {
	query := `
		UPDATE matches SET verification_code = $3, code_expiry_time = $4, updated_at = $5
		WHERE id = $1 AND COALESCE(verification_code, '') = $2
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(matchID), previous, code, expiry, at)
	if err != nil {
		return fmt.Errorf("update match code: %w", err)
	}
	return s.requireSwapped(ctx, res, matchID, "update match code")
}

// requireSwapped tells a lost compare-and-set (ErrConflict) from a missing row.
func (s *PostgresStore) requireSwapped(ctx context.Context, res sql.Result, matchID id.MatchID, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n > 0 {
		return nil
	}
	var exists bool
	if err := s.execer(ctx).QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM matches WHERE id = $1)`, uuid.UUID(matchID)).Scan(&exists); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return sentinel.ErrConflict
}

func (s *PostgresStore) ListMatchesNeedingCodes(ctx context.Context, from, to, now time.Time) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE status = $1
		  AND start_date >= $2 AND start_date < $3
		  AND (verification_code IS NULL OR code_expiry_time IS NULL OR code_expiry_time < $4)
		ORDER BY start_date
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, string(models.MatchStatusOpen), from, to, now)
	if err != nil {
		return nil, fmt.Errorf("list matches needing codes: %w", err)
	}
	return collectMatches(rows)
}

func (s *PostgresStore) ListMatchesPastEnd(ctx context.Context, now time.Time) ([]*models.Match, error) {
	statuses := []string{string(models.MatchStatusOpen), string(models.MatchStatusInProgress)}
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE status = ANY($1::text[])
		  AND start_date + duration_minutes * INTERVAL '1 minute' <= $2
		ORDER BY start_date
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, pq.Array(statuses), now)
	if err != nil {
		return nil, fmt.Errorf("list matches past end: %w", err)
	}
	return collectMatches(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (*models.Match, error) {
	var (
		m         models.Match
		matchID   uuid.UUID
		creatorID uuid.UUID
		status    string
		code      sql.NullString
		expiry    sql.NullTime
	)
	if err := row.Scan(&matchID, &m.Title, &m.StartDate, &m.DurationMinutes, &status,
		&code, &expiry, &creatorID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.ID = id.MatchID(matchID)
	m.CreatorID = id.UserID(creatorID)
	m.Status = models.MatchStatus(status)
	if code.Valid {
		v := code.String
		m.VerificationCode = &v
	}
	if expiry.Valid {
		v := expiry.Time
		m.CodeExpiryTime = &v
	}
	return &m, nil
}

func collectMatches(rows *sql.Rows) ([]*models.Match, error) {
	defer rows.Close()
	var out []*models.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// Teams and participants
// -----------------------------------------------------------------------------

func (s *PostgresStore) AddTeam(ctx context.Context, t *models.Team) error {
	query := `
		INSERT INTO match_teams (id, match_id, team_number, name)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(t.ID), uuid.UUID(t.MatchID), t.TeamNumber, t.Name)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("add team: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindTeam(ctx context.Context, teamID id.TeamID) (*models.Team, error) {
	query := `SELECT id, match_id, team_number, name FROM match_teams WHERE id = $1`
	t, err := scanTeam(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(teamID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find team: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) ListTeams(ctx context.Context, matchID id.MatchID) ([]*models.Team, error) {
	query := `SELECT id, match_id, team_number, name FROM match_teams WHERE match_id = $1 ORDER BY team_number`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(matchID))
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()
	var out []*models.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teams: %w", err)
	}
	return out, nil
}

func scanTeam(row rowScanner) (*models.Team, error) {
	var (
		t       models.Team
		teamID  uuid.UUID
		matchID uuid.UUID
	)
	if err := row.Scan(&teamID, &matchID, &t.TeamNumber, &t.Name); err != nil {
		return nil, err
	}
	t.ID = id.TeamID(teamID)
	t.MatchID = id.MatchID(matchID)
	return &t, nil
}

func (s *PostgresStore) AddParticipant(ctx context.Context, p *models.Participant) error {
	query := `
		INSERT INTO match_participants (match_id, user_id, team_id, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (match_id, user_id) DO NOTHING
	`
	var teamID *uuid.UUID
	if p.TeamID != nil {
		v := uuid.UUID(*p.TeamID)
		teamID = &v
	}
	_, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(p.MatchID), uuid.UUID(p.UserID), teamID, p.JoinedAt)
	if err != nil {
		return fmt.Errorf("add participant: %w", err)
	}
	return nil
}

func (s *PostgresStore) IsParticipant(ctx context.Context, matchID id.MatchID, userID id.UserID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM match_participants WHERE match_id = $1 AND user_id = $2)`
	if err := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(matchID), uuid.UUID(userID)).Scan(&exists); err != nil {
		return false, fmt.Errorf("check participant: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) ListParticipants(ctx context.Context, matchID id.MatchID) ([]*models.Participant, error) {
	query := `SELECT match_id, user_id, team_id, joined_at FROM match_participants WHERE match_id = $1 ORDER BY joined_at`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(matchID))
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()
	var out []*models.Participant
	for rows.Next() {
		var (
			p      models.Participant
			mID    uuid.UUID
			userID uuid.UUID
			teamID *uuid.UUID
		)
		if err := rows.Scan(&mID, &userID, &teamID, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		p.MatchID = id.MatchID(mID)
		p.UserID = id.UserID(userID)
		if teamID != nil {
			t := id.TeamID(*teamID)
			p.TeamID = &t
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// Attendance
// -----------------------------------------------------------------------------

const attendanceColumns = `id, match_id, player_id, confirmation_time, confirmation_method, confirmed_by, status, created_at, updated_at`

// GetOrCreateAttendance relies on the (match_id, player_id) unique key so
// concurrent first confirmations still produce one row.
func (s *PostgresStore) GetOrCreateAttendance(ctx context.Context, matchID id.MatchID, playerID id.UserID, now time.Time) (*models.Attendance, error) {
	fresh := models.NewAttendance(matchID, playerID, now)
	query := `
		INSERT INTO match_attendance (id, match_id, player_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (match_id, player_id) DO UPDATE SET
			match_id = EXCLUDED.match_id
		RETURNING ` + attendanceColumns
	a, err := scanAttendance(s.execer(ctx).QueryRowContext(ctx, query,
		uuid.UUID(fresh.ID),
		uuid.UUID(matchID),
		uuid.UUID(playerID),
		string(fresh.Status),
		now,
	))
	if err != nil {
		return nil, fmt.Errorf("get or create attendance: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) UpdateAttendance(ctx context.Context, a *models.Attendance) error {
	query := `
		UPDATE match_attendance SET
			confirmation_time = $2,
			confirmation_method = $3,
			confirmed_by = $4,
			status = $5,
			updated_at = $6
		WHERE id = $1
	`
	var method *string
	if a.ConfirmationMethod != nil {
		v := string(*a.ConfirmationMethod)
		method = &v
	}
	var confirmedBy *uuid.UUID
	if a.ConfirmedBy != nil {
		v := uuid.UUID(*a.ConfirmedBy)
		confirmedBy = &v
	}
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(a.ID),
		a.ConfirmationTime,
		method,
		confirmedBy,
		string(a.Status),
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	return requireAffected(res, "update attendance")
}

func (s *PostgresStore) CountConfirmedAttendance(ctx context.Context, matchID id.MatchID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM match_attendance WHERE match_id = $1 AND status = $2`
	err := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(matchID), string(models.AttendanceConfirmed)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count attendance: %w", err)
	}
	return count, nil
}

func scanAttendance(row rowScanner) (*models.Attendance, error) {
	var (
		a           models.Attendance
		attID       uuid.UUID
		matchID     uuid.UUID
		playerID    uuid.UUID
		confirmedAt sql.NullTime
		method      sql.NullString
		confirmedBy *uuid.UUID
		status      string
	)
	if err := row.Scan(&attID, &matchID, &playerID, &confirmedAt, &method, &confirmedBy,
		&status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.ID = id.AttendanceID(attID)
	a.MatchID = id.MatchID(matchID)
	a.PlayerID = id.UserID(playerID)
	a.Status = models.AttendanceStatus(status)
	if confirmedAt.Valid {
		t := confirmedAt.Time
		a.ConfirmationTime = &t
	}
	if method.Valid {
		m := models.ConfirmationMethod(method.String)
		a.ConfirmationMethod = &m
	}
	if confirmedBy != nil {
		u := id.UserID(*confirmedBy)
		a.ConfirmedBy = &u
	}
	return &a, nil
}

// -----------------------------------------------------------------------------
// Results and submissions
// -----------------------------------------------------------------------------

const resultColumns = `id, match_id, status, team1_score, team2_score, winning_team_id, created_at, confirmed_at, updated_at`

func (s *PostgresStore) GetOrCreateResult(ctx context.Context, matchID id.MatchID, now time.Time) (*models.Result, error) {
	fresh := models.NewResult(matchID, now)
	query := `
		INSERT INTO match_results (id, match_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (match_id) DO UPDATE SET
			match_id = EXCLUDED.match_id
		RETURNING ` + resultColumns
	r, err := scanResult(s.execer(ctx).QueryRowContext(ctx, query,
		uuid.UUID(fresh.ID),
		uuid.UUID(matchID),
		string(fresh.Status),
		now,
	))
	if err != nil {
		return nil, fmt.Errorf("get or create result: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) FindResultByID(ctx context.Context, resultID id.ResultID) (*models.Result, error) {
	query := `SELECT ` + resultColumns + ` FROM match_results WHERE id = $1`
	r, err := scanResult(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(resultID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find result: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) FindResultByMatch(ctx context.Context, matchID id.MatchID) (*models.Result, error) {
	query := `SELECT ` + resultColumns + ` FROM match_results WHERE match_id = $1`
	r, err := scanResult(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(matchID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find result by match: %w", err)
	}
	return r, nil
}

// UpdateResult never touches a confirmed row, so a stale writer cannot
// overwrite a finalized result.
func (s *PostgresStore) UpdateResult(ctx context.Context, r *models.Result) error {
	query := `
		UPDATE match_results SET
			status = $2,
			team1_score = $3,
			team2_score = $4,
			winning_team_id = $5,
			confirmed_at = $6,
			updated_at = $7
		WHERE id = $1 AND status <> $8
	`
	var winner *uuid.UUID
	if r.WinningTeamID != nil {
		v := uuid.UUID(*r.WinningTeamID)
		winner = &v
	}
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(r.ID),
		string(r.Status),
		r.Team1Score,
		r.Team2Score,
		winner,
		r.ConfirmedAt,
		r.UpdatedAt,
		string(models.ResultConfirmed),
	)
	if err != nil {
		return fmt.Errorf("update result: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update result rows affected: %w", err)
	}
	if n == 0 {
		if _, err := s.FindResultByID(ctx, r.ID); err != nil {
			return err
		}
		return sentinel.ErrInvalidState
	}
	return nil
}

func (s *PostgresStore) ListUnsettledResults(ctx context.Context, endedBefore time.Time) ([]*models.Result, error) {
	statuses := []string{string(models.ResultPending), string(models.ResultTemporary)}
	query := `
		SELECT r.id, r.match_id, r.status, r.team1_score, r.team2_score, r.winning_team_id,
		       r.created_at, r.confirmed_at, r.updated_at
		FROM match_results r
		JOIN matches m ON m.id = r.match_id
		WHERE r.status = ANY($1::text[])
		  AND m.start_date + m.duration_minutes * INTERVAL '1 minute' <= $2
		ORDER BY r.created_at
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, pq.Array(statuses), endedBefore)
	if err != nil {
		return nil, fmt.Errorf("list unsettled results: %w", err)
	}
	defer rows.Close()
	var out []*models.Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}

func scanResult(row rowScanner) (*models.Result, error) {
	var (
		r           models.Result
		resultID    uuid.UUID
		matchID     uuid.UUID
		status      string
		winner      *uuid.UUID
		confirmedAt sql.NullTime
	)
	if err := row.Scan(&resultID, &matchID, &status, &r.Team1Score, &r.Team2Score, &winner,
		&r.CreatedAt, &confirmedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.ID = id.ResultID(resultID)
	r.MatchID = id.MatchID(matchID)
	r.Status = models.ResultStatus(status)
	if winner != nil {
		w := id.TeamID(*winner)
		r.WinningTeamID = &w
	}
	if confirmedAt.Valid {
		t := confirmedAt.Time
		r.ConfirmedAt = &t
	}
	return &r, nil
}

func (s *PostgresStore) CreateSubmission(ctx context.Context, sub *models.ScoreSubmission) error {
	query := `
		INSERT INTO match_score_submissions
			(id, match_id, submitter_id, team1_id, team2_id, team1_score, team2_score, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(sub.ID),
		uuid.UUID(sub.MatchID),
		uuid.UUID(sub.SubmitterID),
		uuid.UUID(sub.Team1ID),
		uuid.UUID(sub.Team2ID),
		sub.Team1Score,
		sub.Team2Score,
		string(sub.Status),
		sub.CreatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListSubmissions(ctx context.Context, matchID id.MatchID) ([]*models.ScoreSubmission, error) {
	query := `
		SELECT id, match_id, submitter_id, team1_id, team2_id, team1_score, team2_score, status, created_at
		FROM match_score_submissions
		WHERE match_id = $1
		ORDER BY created_at, id
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(matchID))
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()
	var out []*models.ScoreSubmission
	for rows.Next() {
		var (
			sub                                   models.ScoreSubmission
			subID, mID, submitterID, team1, team2 uuid.UUID
			status                                string
		)
		if err := rows.Scan(&subID, &mID, &submitterID, &team1, &team2,
			&sub.Team1Score, &sub.Team2Score, &status, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		sub.ID = id.SubmissionID(subID)
		sub.MatchID = id.MatchID(mID)
		sub.SubmitterID = id.UserID(submitterID)
		sub.Team1ID = id.TeamID(team1)
		sub.Team2ID = id.TeamID(team2)
		sub.Status = models.SubmissionStatus(status)
		out = append(out, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return out, nil
}

// UpdateSubmissionStatuses applies every status in one round trip via unnest.
func (s *PostgresStore) UpdateSubmissionStatuses(ctx context.Context, matchID id.MatchID, statuses map[id.SubmissionID]models.SubmissionStatus) error {
	if len(statuses) == 0 {
		return nil
	}
	ids := make([]string, 0, len(statuses))
	values := make([]string, 0, len(statuses))
	for subID, status := range statuses {
		ids = append(ids, subID.String())
		values = append(values, string(status))
	}
	query := `
		UPDATE match_score_submissions AS s
		SET status = u.status
		FROM unnest($2::uuid[], $3::text[]) AS u(id, status)
		WHERE s.id = u.id AND s.match_id = $1
	`
	_, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(matchID), pq.Array(ids), pq.Array(values))
	if err != nil {
		return fmt.Errorf("update submission statuses: %w", err)
	}
	return nil
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
