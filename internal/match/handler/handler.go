// Package handler exposes the match engine over HTTP.
//
// Authentication happens upstream: player routes expect the auth middleware
// to have put a user id in the context, admin routes expect the admin token
// middleware. Handlers decode and validate, call one service, and map the
// result or the coded error to JSON.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	feedbackmodels "matchday/internal/feedback/models"
	"matchday/internal/match/finalizer"
	"matchday/internal/match/models"
	"matchday/internal/match/result"
	id "matchday/pkg/domain"
	dErrors "matchday/pkg/domain-errors"
	"matchday/pkg/platform/httputil"
	"matchday/pkg/requestcontext"
)

type Lifecycle interface {
	ChangeStatus(ctx context.Context, matchID id.MatchID, target models.MatchStatus, actor *id.UserID) (*models.Match, error)
}

type Attendance interface {
	CodeForCreator(ctx context.Context, matchID id.MatchID, requester id.UserID) (string, time.Time, error)
	ConfirmViaCode(ctx context.Context, matchID id.MatchID, code string, playerID id.UserID) (*models.Attendance, error)
	ConfirmManually(ctx context.Context, matchID id.MatchID, playerID, confirmerID id.UserID) (*models.Attendance, error)
	AttendanceCount(ctx context.Context, matchID id.MatchID) (int, error)
}

type Results interface {
	Submit(ctx context.Context, cmd result.SubmitScore) (*models.ScoreSubmission, *models.Result, error)
	GetResult(ctx context.Context, matchID id.MatchID) (*result.View, error)
	ConfirmManually(ctx context.Context, o result.Override) (*models.Result, error)
}

type Feedback interface {
	PendingForUser(ctx context.Context, userID id.UserID) ([]*feedbackmodels.Request, error)
}

// Sweeper lets operators trigger a sweep instead of waiting for its tick.
type Sweeper interface {
	IssueCodes(ctx context.Context) (finalizer.SweepReport, error)
	AutoFinish(ctx context.Context) (finalizer.SweepReport, error)
	ConfirmResults(ctx context.Context) (finalizer.SweepReport, error)
}

// Services groups the collaborators a Handler calls. Sweeper and Feedback
// are optional; their routes answer 404 when nil.
type Services struct {
	Lifecycle  Lifecycle
	Attendance Attendance
	Results    Results
	Feedback   Feedback
	Sweeper    Sweeper
}

type Handler struct {
	svc    Services
	logger *slog.Logger
}

func New(svc Services, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the player routes. The router must already require auth.
func (h *Handler) Register(r chi.Router) {
	r.Route("/matches/{matchID}", func(r chi.Router) {
		r.Patch("/status", h.handleChangeStatus)
		r.Get("/attendance/code", h.handleGetCode)
		r.Post("/attendance/confirm", h.handleConfirmViaCode)
		r.Post("/attendance/{playerID}/confirm", h.handleConfirmManually)
		r.Get("/attendance/count", h.handleAttendanceCount)
		r.Post("/scores", h.handleSubmitScore)
		r.Get("/result", h.handleGetResult)
	})
	r.Get("/me/feedback", h.handlePendingFeedback)
}

// RegisterAdmin mounts the operator routes. The router must already require
// the admin token.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/results/{resultID}/confirm", h.handleOverrideResult)
	r.Post("/sweeps/{sweep}", h.handleRunSweep)
}

// fail logs at a level matching the error's category and writes it.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	attrs := []any{
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	}
	if dErrors.CodeOf(err).Category() == dErrors.CategoryInternal {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}

func (h *Handler) matchID(w http.ResponseWriter, r *http.Request) (id.MatchID, bool) {
	matchID, err := id.ParseMatchID(chi.URLParam(r, "matchID"))
	if err != nil {
		h.fail(r.Context(), w, "invalid match id", err)
		return id.MatchID{}, false
	}
	return matchID, true
}

// currentUser returns the authenticated player. A missing id means the auth
// middleware was not mounted, which is a wiring bug.
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	userID := requestcontext.UserID(r.Context())
	if userID.IsNil() {
		h.fail(r.Context(), w, "user id missing from context", dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.UserID{}, false
	}
	return userID, true
}
