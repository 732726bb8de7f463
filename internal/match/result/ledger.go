package result

import (
	"context"
	"errors"
	"strconv"
	"time"

	"matchday/internal/match/models"
	"matchday/internal/notification"
	"matchday/internal/platform/tracing"
	id "matchday/pkg/domain"
	dErrors "matchday/pkg/domain-errors"
	"matchday/pkg/platform/sentinel"
	"matchday/pkg/requestcontext"
)

// SubmitScore is one participant's report of a final score.
type SubmitScore struct {
	MatchID     id.MatchID
	SubmitterID id.UserID
	Team1ID     id.TeamID
	Team2ID     id.TeamID
	Team1Score  int
	Team2Score  int
}

func (c SubmitScore) validate() error {
	if c.Team1ID == c.Team2ID {
		return dErrors.New(dErrors.CodeValidation, "team ids must differ")
	}
	if c.Team1Score < 0 || c.Team2Score < 0 {
		return dErrors.New(dErrors.CodeValidation, "scores cannot be negative")
	}
	return nil
}

// Submit records a participant's score and recomputes the temporary result
// from every submission so far.
func (s *Service) Submit(ctx context.Context, cmd SubmitScore) (sub *models.ScoreSubmission, res *models.Result, err error) {
	ctx, span := tracing.Start(ctx, tracerName, "result.Submit", tracing.MatchID(cmd.MatchID.String()))
	defer func() { tracing.End(span, err) }()

	if err := cmd.validate(); err != nil {
		return nil, nil, err
	}
	if _, err := s.loadMatch(ctx, cmd.MatchID); err != nil {
		return nil, nil, err
	}
	for _, teamID := range []id.TeamID{cmd.Team1ID, cmd.Team2ID} {
		if _, err := s.roster.Team(ctx, cmd.MatchID, teamID); err != nil {
			return nil, nil, err
		}
	}
	joined, err := s.roster.IsParticipant(ctx, cmd.MatchID, cmd.SubmitterID)
	if err != nil {
		return nil, nil, err
	}
	if !joined {
		return nil, nil, dErrors.New(dErrors.CodeNotParticipant, "only participants can submit a score")
	}
	pair, err := s.roster.TeamPair(ctx, cmd.MatchID)
	if err != nil {
		return nil, nil, err
	}

	now := requestcontext.Now(ctx)
	err = s.withMatchLock(ctx, cmd.MatchID, func(txCtx context.Context) error {
		r, err := s.store.GetOrCreateResult(txCtx, cmd.MatchID, now)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load result")
		}
		if err := r.CanModify(); err != nil {
			return err
		}

		sub = &models.ScoreSubmission{
			ID:          id.NewSubmissionID(),
			MatchID:     cmd.MatchID,
			SubmitterID: cmd.SubmitterID,
			Team1ID:     cmd.Team1ID,
			Team2ID:     cmd.Team2ID,
			Team1Score:  cmd.Team1Score,
			Team2Score:  cmd.Team2Score,
			Status:      models.SubmissionPending,
			CreatedAt:   now,
		}
		if err := s.store.CreateSubmission(txCtx, sub); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeDuplicateSubmission, "you have already submitted a score for this match")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store submission")
		}

		if err := s.recomputeTemporary(txCtx, r, pair, now); err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.metrics.IncrementSubmissions()
	s.logger.InfoContext(ctx, "score submitted",
		"match_id", cmd.MatchID,
		"submitter_id", cmd.SubmitterID,
		"temporary_score", scoreString(res.Scoreline()),
	)
	s.notifyResult(ctx, notification.KindResultUpdated, res)
	return sub, res, nil
}

// recomputeTemporary overwrites r with the rounded mean of all submissions.
func (s *Service) recomputeTemporary(ctx context.Context, r *models.Result, pair models.TeamPair, now time.Time) error {
	started := time.Now()
	defer func() { s.metrics.ObserveRecompute(time.Since(started)) }()

	subs, err := s.store.ListSubmissions(ctx, r.MatchID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load submissions")
	}
	if len(subs) == 0 {
		return nil
	}
	score := temporaryScoreline(subs, pair)
	r.ApplyTemporary(score, score.Winner(pair), now)
	return s.updateResult(ctx, r)
}

func scoreString(score models.Scoreline) string {
	return strconv.Itoa(score.First) + "-" + strconv.Itoa(score.Second)
}
