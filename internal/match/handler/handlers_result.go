package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"matchday/internal/match/finalizer"
	"matchday/internal/match/result"
	id "matchday/pkg/domain"
	dErrors "matchday/pkg/domain-errors"
	"matchday/pkg/platform/httputil"
	"matchday/pkg/requestcontext"
)

func (h *Handler) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	matchID, ok := h.matchID(w, r)
	if !ok {
		return
	}
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[SubmitScoreRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	sub, res, err := h.svc.Results.Submit(ctx, result.SubmitScore{
		MatchID:     matchID,
		SubmitterID: userID,
		Team1ID:     req.team1,
		Team2ID:     req.team2,
		Team1Score:  *req.Team1Score,
		Team2Score:  *req.Team2Score,
	})
	if err != nil {
		h.fail(ctx, w, "score submission failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, SubmitScoreResponse{Submission: sub, Result: res})
}

func (h *Handler) handleGetResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	matchID, ok := h.matchID(w, r)
	if !ok {
		return
	}

	view, err := h.svc.Results.GetResult(ctx, matchID)
	if err != nil {
		h.fail(ctx, w, "failed to load result", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleOverrideResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resultID, err := id.ParseResultID(chi.URLParam(r, "resultID"))
	if err != nil {
		h.fail(ctx, w, "invalid result id", err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[OverrideResultRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	res, err := h.svc.Results.ConfirmManually(ctx, result.Override{
		ResultID:      resultID,
		WinningTeamID: req.winner,
		Team1Score:    req.Team1Score,
		Team2Score:    req.Team2Score,
	})
	if err != nil {
		h.fail(ctx, w, "result override failed", err)
		return
	}
	h.logger.InfoContext(ctx, "result overridden by admin",
		"result_id", resultID,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleRunSweep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.svc.Sweeper == nil {
		http.NotFound(w, r)
		return
	}

	var (
		report finalizer.SweepReport
		err    error
	)
	switch chi.URLParam(r, "sweep") {
	case finalizer.SweepIssueCodes:
		report, err = h.svc.Sweeper.IssueCodes(ctx)
	case finalizer.SweepAutoFinish:
		report, err = h.svc.Sweeper.AutoFinish(ctx)
	case finalizer.SweepConfirmResults:
		report, err = h.svc.Sweeper.ConfirmResults(ctx)
	default:
		h.fail(ctx, w, "unknown sweep", dErrors.New(dErrors.CodeNotFound, "unknown sweep"))
		return
	}
	if err != nil {
		h.fail(ctx, w, "sweep failed", dErrors.Wrap(err, dErrors.CodeInternal, "sweep failed"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"sweep":      report.Sweep,
		"candidates": report.Candidates,
		"processed":  report.Processed,
		"skipped":    report.Skipped,
		"failed":     report.Failed,
	})
}
