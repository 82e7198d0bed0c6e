package memory

import (
	"os"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/tournament-admin/internal/domain/player"
	"github.com/riskibarqy/tournament-admin/internal/domain/team"
	"github.com/riskibarqy/tournament-admin/internal/platform/id"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Teams []seedTeam `yaml:"teams"`
}

type seedTeam struct {
	ID      string       `yaml:"id"`
	Name    string       `yaml:"name"`
	Group   string       `yaml:"group"`
	LogoURL string       `yaml:"logo_url"`
	Players []seedPlayer `yaml:"players"`
}

type seedPlayer struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Number   int    `yaml:"number"`
	Position string `yaml:"position"`
}

// LoadSeedFile reads a YAML roster. Missing ids are filled from ids.
func LoadSeedFile(path string, ids id.Generator) ([]team.Team, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, crerr.Wrapf(err, "read seed file %s", path)
	}
	return ParseSeed(raw, ids)
}

func ParseSeed(raw []byte, ids id.Generator) ([]team.Team, error) {
	var doc seedFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, crerr.Wrap(err, "decode seed yaml")
	}

	out := make([]team.Team, 0, len(doc.Teams))
	for i, row := range doc.Teams {
		teamID, err := seedID(row.ID, ids)
		if err != nil {
			return nil, err
		}
		item := team.Team{
			ID:      teamID,
			Name:    strings.TrimSpace(row.Name),
			Group:   team.NormalizeGroup(row.Group),
			LogoURL: strings.TrimSpace(row.LogoURL),
			Players: make([]player.Player, 0, len(row.Players)),
		}
		for j, p := range row.Players {
			playerID, err := seedID(p.ID, ids)
			if err != nil {
				return nil, err
			}
			member := player.Player{
				ID:       playerID,
				TeamID:   teamID,
				Name:     strings.TrimSpace(p.Name),
				Number:   p.Number,
				Position: player.NormalizePosition(p.Position),
			}
			if err := member.Validate(); err != nil {
				return nil, crerr.Wrapf(err, "seed team %d player %d", i, j)
			}
			item.Players = append(item.Players, member)
		}
		if err := item.Validate(); err != nil {
			return nil, crerr.Wrapf(err, "seed team %d", i)
		}
		out = append(out, item)
	}
	return out, nil
}

func seedID(value string, ids id.Generator) (string, error) {
	if value = strings.TrimSpace(value); value != "" {
		return value, nil
	}
	generated, err := ids.NewID()
	if err != nil {
		return "", crerr.Wrap(err, "generate seed id")
	}
	return generated, nil
}

// Seed loads teams and their rosters into the store, replacing rows with the same id.
func (s *Store) Seed(teams []team.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range teams {
		s.putTeamLocked(item)
	}
}

// DemoTeams is a small two-group roster used when no seed file is configured in dev.
func DemoTeams() []team.Team {
	return []team.Team{
		{ID: "idn-persija", Name: "Persija Jakarta", Group: "A", Players: []player.Player{
			{ID: "idn-persija-01", TeamID: "idn-persija", Name: "Andritany Ardhiyasa", Number: 1, Position: player.PositionGoalkeeper},
			{ID: "idn-persija-09", TeamID: "idn-persija", Name: "Gustavo Almeida", Number: 9, Position: player.PositionForward},
		}},
		{ID: "idn-persib", Name: "Persib Bandung", Group: "A", Players: []player.Player{
			{ID: "idn-persib-01", TeamID: "idn-persib", Name: "Teja Paku Alam", Number: 1, Position: player.PositionGoalkeeper},
			{ID: "idn-persib-10", TeamID: "idn-persib", Name: "Marc Klok", Number: 10, Position: player.PositionMidfielder},
		}},
		{ID: "idn-persebaya", Name: "Persebaya Surabaya", Group: "A", Players: []player.Player{
			{ID: "idn-persebaya-05", TeamID: "idn-persebaya", Name: "Dusan Stevanovic", Number: 5, Position: player.PositionDefender},
		}},
		{ID: "idn-baliutd", Name: "Bali United", Group: "A", Players: []player.Player{
			{ID: "idn-baliutd-08", TeamID: "idn-baliutd", Name: "Eber Bessa", Number: 8, Position: player.PositionMidfielder},
		}},
		{ID: "eng-ars", Name: "Arsenal", Group: "B"},
		{ID: "eng-liv", Name: "Liverpool", Group: "B"},
		{ID: "eng-mci", Name: "Manchester City", Group: "B"},
	}
}
