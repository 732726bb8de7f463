package result

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"matchday/internal/match/models"
	"matchday/internal/notification"
	"matchday/internal/platform/tracing"
	id "matchday/pkg/domain"
	dErrors "matchday/pkg/domain-errors"
	"matchday/pkg/platform/sentinel"
	"matchday/pkg/requestcontext"
)

// Outcome is what a finalization attempt did.
type Outcome string

const (
	OutcomeConfirmed Outcome = "confirmed"
	OutcomeDisputed  Outcome = "disputed"
	// OutcomeSkipped means the result was not eligible: already settled, or
	// the match ended less than the grace period ago.
	OutcomeSkipped Outcome = "skipped"
)

// Finalize settles the result of a match that ended at least the grace
// period ago. With fewer than the minimum submissions the result becomes
// Disputed; otherwise it is confirmed at the per-team median and each
// submission is accepted or rejected against it.
func (s *Service) Finalize(ctx context.Context, matchID id.MatchID) (outcome Outcome, err error) {
	ctx, span := tracing.Start(ctx, tracerName, "result.Finalize", tracing.MatchID(matchID.String()))
	defer func() {
		span.SetAttributes(attribute.String("result.outcome", string(outcome)))
		tracing.End(span, err)
	}()

	now := requestcontext.Now(ctx)
	m, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return "", err
	}
	if m.EndTime().Add(s.grace).After(now) {
		return OutcomeSkipped, nil
	}

	var settled *models.Result
	err = s.withMatchLock(ctx, matchID, func(txCtx context.Context) error {
		r, err := s.store.FindResultByMatch(txCtx, matchID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeResultNotFound, "no result has been submitted for this match")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load result")
		}
		if !r.Status.IsSettleable() {
			outcome = OutcomeSkipped
			return nil
		}

		subs, err := s.store.ListSubmissions(txCtx, matchID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load submissions")
		}
		if len(subs) < s.minSubmissions {
			r.ApplyDisputed(now)
			if err := s.updateResult(txCtx, r); err != nil {
				return err
			}
			outcome, settled = OutcomeDisputed, r
			return nil
		}

		pair, err := s.roster.TeamPair(txCtx, matchID)
		if err != nil {
			return err
		}
		final := finalScoreline(subs, pair)
		r.ApplyConfirmed(final, final.Winner(pair), now)
		if err := s.store.UpdateSubmissionStatuses(txCtx, matchID, verdicts(subs, pair, final)); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update submission statuses")
		}
		if err := s.updateResult(txCtx, r); err != nil {
			return err
		}
		outcome, settled = OutcomeConfirmed, r
		return nil
	})
	if err != nil {
		return "", err
	}
	if settled == nil {
		return outcome, nil
	}

	s.metrics.IncrementFinalized(string(outcome))
	switch outcome {
	case OutcomeConfirmed:
		s.logger.InfoContext(ctx, "result confirmed",
			"match_id", matchID,
			"score", scoreString(settled.Scoreline()),
		)
		s.notifyResult(ctx, notification.KindResultConfirmed, settled)
	case OutcomeDisputed:
		s.logger.WarnContext(ctx, "result disputed: not enough submissions",
			"match_id", matchID,
			"min_submissions", s.minSubmissions,
		)
		s.notifyResult(ctx, notification.KindResultDisputed, settled)
	}
	return outcome, nil
}
