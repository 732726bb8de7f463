// Package roster answers who plays in a match and on which side.
package roster

import (
	"context"
	"errors"

	"matchday/internal/match/models"
	id "matchday/pkg/domain"
	dErrors "matchday/pkg/domain-errors"
	"matchday/pkg/platform/sentinel"
)

// Store is the read side of match membership.
type Store interface {
	IsParticipant(ctx context.Context, matchID id.MatchID, userID id.UserID) (bool, error)
	FindTeam(ctx context.Context, teamID id.TeamID) (*models.Team, error)
	ListTeams(ctx context.Context, matchID id.MatchID) ([]*models.Team, error)
	ListParticipants(ctx context.Context, matchID id.MatchID) ([]*models.Participant, error)
}

type Provider struct {
	store Store
}

func New(store Store) *Provider {
	return &Provider{store: store}
}

func (p *Provider) IsParticipant(ctx context.Context, matchID id.MatchID, userID id.UserID) (bool, error) {
	ok, err := p.store.IsParticipant(ctx, matchID, userID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check participation")
	}
	return ok, nil
}

func (p *Provider) Teams(ctx context.Context, matchID id.MatchID) ([]*models.Team, error) {
	teams, err := p.store.ListTeams(ctx, matchID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load teams")
	}
	return teams, nil
}

// TeamPair returns the match's two teams in canonical order, or
// match_not_scoreable when it does not have exactly two.
func (p *Provider) TeamPair(ctx context.Context, matchID id.MatchID) (models.TeamPair, error) {
	teams, err := p.Teams(ctx, matchID)
	if err != nil {
		return models.TeamPair{}, err
	}
	return models.NewTeamPair(teams)
}

// Team loads one team and checks it belongs to matchID.
func (p *Provider) Team(ctx context.Context, matchID id.MatchID, teamID id.TeamID) (*models.Team, error) {
	team, err := p.store.FindTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeTeamNotFound, "team not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load team")
	}
	if team.MatchID != matchID {
		return nil, dErrors.New(dErrors.CodeTeamNotFound, "team does not belong to this match")
	}
	return team, nil
}

// Participants returns the user ids of everyone who joined the match.
func (p *Provider) Participants(ctx context.Context, matchID id.MatchID) ([]id.UserID, error) {
	participants, err := p.store.ListParticipants(ctx, matchID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load participants")
	}
	out := make([]id.UserID, len(participants))
	for i, participant := range participants {
		out[i] = participant.UserID
	}
	return out, nil
}
