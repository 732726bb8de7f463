package result

import (
	"context"
	"errors"

	"matchday/internal/match/models"
	"matchday/internal/notification"
	"matchday/internal/platform/tracing"
	id "matchday/pkg/domain"
	dErrors "matchday/pkg/domain-errors"
	"matchday/pkg/platform/sentinel"
	"matchday/pkg/requestcontext"
)

// Override is an administrative decision on a result. Scores are in team
// number order and optional; a nil WinningTeamID is a draw.
type Override struct {
	ResultID      id.ResultID
	WinningTeamID *id.TeamID
	Team1Score    *int
	Team2Score    *int
}

func (o Override) validate() error {
	if (o.Team1Score == nil) != (o.Team2Score == nil) {
		return dErrors.New(dErrors.CodeValidation, "provide both scores or neither")
	}
	if o.Team1Score != nil && (*o.Team1Score < 0 || *o.Team2Score < 0) {
		return dErrors.New(dErrors.CodeValidation, "scores cannot be negative")
	}
	return nil
}

// ConfirmManually confirms a result regardless of how many submissions it
// has. Explicit scores are recorded as an accepted system submission; without
// them the recorded scores stand and the winner must agree with them. The
// decision is final: a second override fails with result_already_confirmed.
func (s *Service) ConfirmManually(ctx context.Context, o Override) (res *models.Result, err error) {
	ctx, span := tracing.Start(ctx, tracerName, "result.ConfirmManually")
	defer func() { tracing.End(span, err) }()

	if err := o.validate(); err != nil {
		return nil, err
	}
	current, err := s.loadResult(ctx, o.ResultID)
	if err != nil {
		return nil, err
	}
	matchID := current.MatchID
	span.SetAttributes(tracing.MatchID(matchID.String()))

	pair, err := s.roster.TeamPair(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if o.WinningTeamID != nil && !pair.Contains(*o.WinningTeamID) {
		return nil, dErrors.New(dErrors.CodeTeamNotFound, "winning team does not play in this match")
	}
	if o.Team1Score != nil {
		score := models.Scoreline{First: *o.Team1Score, Second: *o.Team2Score}
		if !sameTeam(score.Winner(pair), o.WinningTeamID) {
			return nil, dErrors.New(dErrors.CodeValidation, "winning team does not match the scores")
		}
	}

	now := requestcontext.Now(ctx)
	err = s.withMatchLock(ctx, matchID, func(txCtx context.Context) error {
		r, err := s.loadResult(txCtx, o.ResultID)
		if err != nil {
			return err
		}
		if err := r.CanModify(); err != nil {
			return err
		}

		score := r.Scoreline()
		if o.Team1Score == nil && !sameTeam(score.Winner(pair), o.WinningTeamID) {
			return dErrors.New(dErrors.CodeValidation, "winning team does not match the recorded scores")
		}
		if o.Team1Score != nil {
			score = models.Scoreline{First: *o.Team1Score, Second: *o.Team2Score}
			system := &models.ScoreSubmission{
				ID:          id.NewSubmissionID(),
				MatchID:     matchID,
				SubmitterID: models.SystemSubmitter,
				Team1ID:     pair.First.ID,
				Team2ID:     pair.Second.ID,
				Team1Score:  score.First,
				Team2Score:  score.Second,
				Status:      models.SubmissionAccepted,
				CreatedAt:   now,
			}
			if err := s.store.CreateSubmission(txCtx, system); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record override submission")
			}
		}

		r.ApplyConfirmed(score, o.WinningTeamID, now)
		if err := s.updateResult(txCtx, r); err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementFinalized("override")
	s.logger.InfoContext(ctx, "result confirmed by override",
		"match_id", matchID,
		"result_id", res.ID,
		"score", scoreString(res.Scoreline()),
	)
	s.notifyResult(ctx, notification.KindResultConfirmed, res)
	return res, nil
}

func (s *Service) loadResult(ctx context.Context, resultID id.ResultID) (*models.Result, error) {
	r, err := s.store.FindResultByID(ctx, resultID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeResultNotFound, "result not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load result")
	}
	return r, nil
}

func sameTeam(a, b *id.TeamID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
