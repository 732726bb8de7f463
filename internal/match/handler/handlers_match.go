package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	id "matchday/pkg/domain"
	"matchday/pkg/platform/httputil"
	"matchday/pkg/requestcontext"
)

func (h *Handler) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	matchID, ok := h.matchID(w, r)
	if !ok {
		return
	}
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ChangeStatusRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	match, err := h.svc.Lifecycle.ChangeStatus(ctx, matchID, req.target, &userID)
	if err != nil {
		h.fail(ctx, w, "failed to change match status", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, match)
}

func (h *Handler) handleGetCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	matchID, ok := h.matchID(w, r)
	if !ok {
		return
	}
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	code, expiry, err := h.svc.Attendance.CodeForCreator(ctx, matchID, userID)
	if err != nil {
		h.fail(ctx, w, "failed to get attendance code", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CodeResponse{Code: code, ExpiresAt: expiry})
}

func (h *Handler) handleConfirmViaCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	matchID, ok := h.matchID(w, r)
	if !ok {
		return
	}
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ConfirmCodeRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	att, err := h.svc.Attendance.ConfirmViaCode(ctx, matchID, req.Code, userID)
	if err != nil {
		h.fail(ctx, w, "attendance code confirmation failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, att)
}

func (h *Handler) handleConfirmManually(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	matchID, ok := h.matchID(w, r)
	if !ok {
		return
	}
	playerID, err := id.ParseUserID(chi.URLParam(r, "playerID"))
	if err != nil {
		h.fail(ctx, w, "invalid player id", err)
		return
	}
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	att, err := h.svc.Attendance.ConfirmManually(ctx, matchID, playerID, userID)
	if err != nil {
		h.fail(ctx, w, "manual attendance confirmation failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, att)
}

func (h *Handler) handleAttendanceCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	matchID, ok := h.matchID(w, r)
	if !ok {
		return
	}

	count, err := h.svc.Attendance.AttendanceCount(ctx, matchID)
	if err != nil {
		h.fail(ctx, w, "failed to count attendance", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AttendanceCountResponse{MatchID: matchID.String(), Confirmed: count})
}

func (h *Handler) handlePendingFeedback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.svc.Feedback == nil {
		http.NotFound(w, r)
		return
	}
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	requests, err := h.svc.Feedback.PendingForUser(ctx, userID)
	if err != nil {
		h.fail(ctx, w, "failed to list feedback requests", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"requests": requests})
}
