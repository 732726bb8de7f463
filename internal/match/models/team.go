package models

import (
	"sort"

	id "matchday/pkg/domain"
	dErrors "matchday/pkg/domain-errors"
)

// Team is one side of a match.
type Team struct {
	ID         id.TeamID  `json:"id"`
	MatchID    id.MatchID `json:"match_id"`
	TeamNumber int        `json:"team_number"`
	Name       string     `json:"name"`
}

// TeamPair is the canonical ordering of a scoreable match's two teams:
// First has the lower team number. Results are always stored in this order.
type TeamPair struct {
	First  *Team
	Second *Team
}

// NewTeamPair requires exactly two teams.
func NewTeamPair(teams []*Team) (TeamPair, error) {
	if len(teams) != 2 {
		return TeamPair{}, dErrors.Newf(dErrors.CodeMatchNotScoreable,
			"match must have exactly two teams, has %d", len(teams))
	}
	sorted := []*Team{teams[0], teams[1]}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TeamNumber < sorted[j].TeamNumber })
	return TeamPair{First: sorted[0], Second: sorted[1]}, nil
}

// Contains reports whether teamID is one of the pair.
func (p TeamPair) Contains(teamID id.TeamID) bool {
	return p.First.ID == teamID || p.Second.ID == teamID
}
