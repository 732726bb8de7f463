package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"matchday/internal/match/models"
	id "matchday/pkg/domain"
)

// DemoCreatorID is stable so a locally minted JWT can act as the demo creator.
var DemoCreatorID = id.UserID(uuid.MustParse("00000000-0000-4000-8000-000000000001"))

// Seeder is the write side both stores share.
type Seeder interface {
	CreateMatch(ctx context.Context, m *models.Match) error
	AddTeam(ctx context.Context, t *models.Team) error
	AddParticipant(ctx context.Context, p *models.Participant) error
}

// SeedDemoMatch creates an open match starting soon with two teams and a few players.
func SeedDemoMatch(ctx context.Context, s Seeder, now time.Time) (*models.Match, error) {
	m, err := models.NewMatch(id.NewMatchID(), "Demo five-a-side", now.Add(30*time.Minute), 60, DemoCreatorID, now)
	if err != nil {
		return nil, err
	}
	m.ApplyStatus(models.MatchStatusOpen, now)
	if err := s.CreateMatch(ctx, m); err != nil {
		return nil, fmt.Errorf("seed match: %w", err)
	}

	teams := []*models.Team{
		{ID: id.NewTeamID(), MatchID: m.ID, TeamNumber: 1, Name: "Bibs"},
		{ID: id.NewTeamID(), MatchID: m.ID, TeamNumber: 2, Name: "Skins"},
	}
	for _, t := range teams {
		if err := s.AddTeam(ctx, t); err != nil {
			return nil, fmt.Errorf("seed team: %w", err)
		}
	}

	players := []id.UserID{DemoCreatorID, id.UserID(uuid.New()), id.UserID(uuid.New()), id.UserID(uuid.New())}
	for i, userID := range players {
		teamID := teams[i%2].ID
		p := &models.Participant{MatchID: m.ID, UserID: userID, TeamID: &teamID, JoinedAt: now}
		if err := s.AddParticipant(ctx, p); err != nil {
			return nil, fmt.Errorf("seed participant: %w", err)
		}
	}
	return m, nil
}
