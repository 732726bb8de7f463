// Package attendance issues match verification codes and records check-ins.
package attendance

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"matchday/internal/match/metrics"
	"matchday/internal/match/models"
	"matchday/internal/notification"
	"matchday/internal/platform/tracing"
	id "matchday/pkg/domain"
	dErrors "matchday/pkg/domain-errors"
	"matchday/pkg/platform/sentinel"
	"matchday/pkg/platform/tx"
	"matchday/pkg/requestcontext"
)

const (
	tracerName = "matchday/match/attendance"

	DefaultCodeWindow   = 60 * time.Minute
	DefaultCodeValidity = 120 * time.Minute

	// writeAttempts bounds re-reads after another writer swapped the code first.
	writeAttempts = 3
)

type Store interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	FindMatchByID(ctx context.Context, matchID id.MatchID) (*models.Match, error)
	// UpdateMatchCode fails with sentinel.ErrConflict when the stored code is
	// no longer previous. It never writes status.
	UpdateMatchCode(ctx context.Context, matchID id.MatchID, previous, code string, expiry, at time.Time) error
	GetOrCreateAttendance(ctx context.Context, matchID id.MatchID, playerID id.UserID, now time.Time) (*models.Attendance, error)
	UpdateAttendance(ctx context.Context, a *models.Attendance) error
	CountConfirmedAttendance(ctx context.Context, matchID id.MatchID) (int, error)
}

// Service owns the single verification code of each match.
type Service struct {
	store    Store
	codes    CodeGenerator
	window   time.Duration
	validity time.Duration
	notifier notification.Notifier
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithNotifier(n notification.Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithCodeGenerator(g CodeGenerator) Option {
	return func(s *Service) {
		s.codes = g
	}
}

// WithCodeTiming sets how long before kickoff a code becomes available and
// how long after kickoff it stays valid.
func WithCodeTiming(window, validity time.Duration) Option {
	return func(s *Service) {
		if window > 0 {
			s.window = window
		}
		if validity > 0 {
			s.validity = validity
		}
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		codes:    NewRandomCodes(6),
		window:   DefaultCodeWindow,
		validity: DefaultCodeValidity,
		notifier: notification.Nop{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Window is how long before kickoff a code can first be issued.
func (s *Service) Window() time.Duration { return s.window }

// GetOrGenerateCode returns the match's unexpired code, issuing a new one
// when there is none.
func (s *Service) GetOrGenerateCode(ctx context.Context, matchID id.MatchID) (code string, expiry time.Time, err error) {
	ctx, span := tracing.Start(ctx, tracerName, "attendance.GetOrGenerateCode", tracing.MatchID(matchID.String()))
	defer func() { tracing.End(span, err) }()

	now := requestcontext.Now(ctx)
	issued := false
	err = tx.RetryOnConflict(writeAttempts, func() error {
		return s.store.RunInTx(ctx, func(txCtx context.Context) error {
			m, err := s.loadMatch(txCtx, matchID)
			if err != nil {
				return err
			}
			if m.HasValidCode(now) {
				code, expiry = m.CurrentCode(), *m.CodeExpiryTime
				return nil
			}
			if now.Before(m.StartDate.Add(-s.window)) {
				return dErrors.Newf(dErrors.CodeCodeNotYetAvailable,
					"attendance code is available from %d minutes before kickoff", int(s.window.Minutes()))
			}
			expiry = m.StartDate.Add(s.validity)
			if now.After(expiry) {
				return dErrors.New(dErrors.CodeAttendanceWindowClosed, "attendance window for this match has closed")
			}
			code = s.codes.Generate(m.CurrentCode())
			err = s.store.UpdateMatchCode(txCtx, matchID, m.CurrentCode(), code, expiry, now)
			switch {
			case err == nil:
				issued = true
				return nil
			case errors.Is(err, sentinel.ErrConflict):
				return err
			default:
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store attendance code")
			}
		})
	})
	if errors.Is(err, sentinel.ErrConflict) {
		err = dErrors.Wrap(err, dErrors.CodeConflict, "attendance code keeps changing, try again")
	}
	if err != nil {
		return "", time.Time{}, err
	}

	span.SetAttributes(attribute.Bool("attendance.code_issued", issued))
	if issued {
		s.metrics.IncrementCodesIssued()
		s.logger.InfoContext(ctx, "attendance code issued", "match_id", matchID, "expires_at", expiry)
		s.notifier.Notify(ctx, notification.NewEvent(ctx, notification.KindCodeIssued, matchID, map[string]string{
			"expires_at": expiry.UTC().Format(time.RFC3339),
		}))
	}
	return code, expiry, nil
}

// CodeForCreator is GetOrGenerateCode restricted to the match creator.
func (s *Service) CodeForCreator(ctx context.Context, matchID id.MatchID, requester id.UserID) (string, time.Time, error) {
	m, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return "", time.Time{}, err
	}
	if !m.IsCreator(requester) {
		return "", time.Time{}, dErrors.New(dErrors.CodeNotMatchCreator, "only the match creator can view the attendance code")
	}
	return s.GetOrGenerateCode(ctx, matchID)
}

// ConfirmViaCode checks a player in with the match code. A repeat code
// check-in returns the existing row; a manual confirmation is replaced by the
// code one.
func (s *Service) ConfirmViaCode(ctx context.Context, matchID id.MatchID, code string, playerID id.UserID) (att *models.Attendance, err error) {
	ctx, span := tracing.Start(ctx, tracerName, "attendance.ConfirmViaCode", tracing.MatchID(matchID.String()))
	defer func() { tracing.End(span, err) }()

	now := requestcontext.Now(ctx)
	confirmed := false
	err = s.store.RunInTx(ctx, func(txCtx context.Context) error {
		m, err := s.loadMatch(txCtx, matchID)
		if err != nil {
			return err
		}
		if !codeMatches(m, code, now) {
			return dErrors.New(dErrors.CodeInvalidCode, "verification code is invalid or expired")
		}
		a, err := s.store.GetOrCreateAttendance(txCtx, matchID, playerID, now)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load attendance")
		}
		att = a
		if a.ConfirmedVia(models.ConfirmationByCode) {
			return nil
		}
		a.ApplyCodeConfirmation(now)
		if err := s.store.UpdateAttendance(txCtx, a); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to confirm attendance")
		}
		confirmed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if confirmed {
		s.attendanceConfirmed(ctx, att)
	}
	return att, nil
}

// ConfirmManually lets the match creator vouch for a player.
func (s *Service) ConfirmManually(ctx context.Context, matchID id.MatchID, playerID, confirmerID id.UserID) (att *models.Attendance, err error) {
	ctx, span := tracing.Start(ctx, tracerName, "attendance.ConfirmManually", tracing.MatchID(matchID.String()))
	defer func() { tracing.End(span, err) }()

	now := requestcontext.Now(ctx)
	confirmed := false
	err = s.store.RunInTx(ctx, func(txCtx context.Context) error {
		m, err := s.loadMatch(txCtx, matchID)
		if err != nil {
			return err
		}
		if !m.IsCreator(confirmerID) {
			return dErrors.New(dErrors.CodeNotMatchCreator, "only the match creator can confirm attendance manually")
		}
		a, err := s.store.GetOrCreateAttendance(txCtx, matchID, playerID, now)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load attendance")
		}
		att = a
		if a.IsConfirmed() {
			return nil
		}
		a.ApplyManualConfirmation(confirmerID, now)
		if err := s.store.UpdateAttendance(txCtx, a); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to confirm attendance")
		}
		confirmed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if confirmed {
		s.attendanceConfirmed(ctx, att)
	}
	return att, nil
}

// AttendanceCount is the number of confirmed players.
func (s *Service) AttendanceCount(ctx context.Context, matchID id.MatchID) (int, error) {
	if _, err := s.loadMatch(ctx, matchID); err != nil {
		return 0, err
	}
	n, err := s.store.CountConfirmedAttendance(ctx, matchID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count attendance")
	}
	return n, nil
}

func (s *Service) attendanceConfirmed(ctx context.Context, a *models.Attendance) {
	method := string(*a.ConfirmationMethod)
	s.metrics.IncrementAttendance(method)
	s.logger.InfoContext(ctx, "attendance confirmed",
		"match_id", a.MatchID,
		"player_id", a.PlayerID,
		"method", method,
	)
	s.notifier.Notify(ctx, notification.NewEvent(ctx, notification.KindAttendanceConfirmed, a.MatchID, map[string]string{
		"method": method,
	}).ForUser(a.PlayerID))
}

func (s *Service) loadMatch(ctx context.Context, matchID id.MatchID) (*models.Match, error) {
	m, err := s.store.FindMatchByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeMatchNotFound, "match not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load match")
	}
	return m, nil
}

func codeMatches(m *models.Match, code string, now time.Time) bool {
	if !m.HasValidCode(now) {
		return false
	}
	code = strings.TrimSpace(code)
	return subtle.ConstantTimeCompare([]byte(code), []byte(m.CurrentCode())) == 1
}
