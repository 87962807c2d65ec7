// Package refdata loads tournaments and matches into the ledger's caches.
package refdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/kridavyuha/cricket-pools/db"
	"github.com/kridavyuha/cricket-pools/internals/ledger"
	"gorm.io/gorm"
)

// Source is a read-only provider of reference data.
type Source interface {
	Tournaments(ctx context.Context) ([]ledger.Tournament, error)
	Matches(ctx context.Context, tournamentID int) ([]ledger.Match, error)
}

// Target receives synced reference data.
type Target interface {
	SetTournaments(ctx context.Context, tournaments []ledger.Tournament) error
	SetMatches(ctx context.Context, matches []ledger.Match) error
}

type GormSource struct {
	DB *gorm.DB
}

func NewGormSource(gdb *gorm.DB) *GormSource {
	return &GormSource{DB: gdb}
}

func (g *GormSource) Tournaments(ctx context.Context) ([]ledger.Tournament, error) {
	var rows []db.TournamentRow
	err := g.DB.WithContext(ctx).Preload("Teams").Order("id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("error loading tournaments: %w", err)
	}

	out := make([]ledger.Tournament, 0, len(rows))
	for _, r := range rows {
		out = append(out, TournamentFromRow(r))
	}
	return out, nil
}

func (g *GormSource) Matches(ctx context.Context, tournamentID int) ([]ledger.Match, error) {
	var rows []db.MatchRow
	err := g.DB.WithContext(ctx).
		Preload("Team1").
		Preload("Team2").
		Where("tournament_id = ?", tournamentID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("error loading matches for tournament %d: %w", tournamentID, err)
	}

	out := make([]ledger.Match, 0, len(rows))
	for _, r := range rows {
		out = append(out, MatchFromRow(r))
	}
	return out, nil
}

func teamFromRow(r db.TeamRow) ledger.Team {
	return ledger.Team{ID: r.ID, Name: r.Name, Code: r.Code, Logo: r.Logo, Ranking: r.Ranking}
}

func TournamentFromRow(r db.TournamentRow) ledger.Tournament {
	t := ledger.Tournament{
		ID:        r.ID,
		Name:      r.Name,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Format:    ledger.Format(r.Format),
		Category:  r.Category,
		Location:  r.Location,
		Logo:      r.Logo,
	}
	for _, team := range r.Teams {
		t.Teams = append(t.Teams, teamFromRow(team))
	}
	return t
}

func MatchFromRow(r db.MatchRow) ledger.Match {
	m := ledger.Match{
		ID:           r.ID,
		TournamentID: r.TournamentID,
		Name:         r.Name,
		Status:       ledger.MatchStatus(r.Status),
		Date:         r.Date,
		Team1:        teamFromRow(r.Team1),
		Team2:        teamFromRow(r.Team2),
		Format:       ledger.Format(r.Format),
		Venue:        r.Venue,
	}
	if m.Status == ledger.MatchCompleted && r.Winner != nil {
		m.Result = &ledger.MatchResult{
			Winner:        *r.Winner,
			Team1Score:    r.Team1Score,
			Team2Score:    r.Team2Score,
			ManOfTheMatch: r.ManOfTheMatch,
			Highlights:    r.Highlights,
		}
	}
	return m
}

// FileSource serves reference data from a JSON document of the form
// {"tournaments": [...], "matches": [...]}.
type FileSource struct {
	tournaments []ledger.Tournament
	matches     []ledger.Match
}

func NewFileSource(path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading seed file: %w", err)
	}
	return ParseFileSource(data)
}

func ParseFileSource(data []byte) (*FileSource, error) {
	var doc struct {
		Tournaments []ledger.Tournament `json:"tournaments"`
		Matches     []ledger.Match      `json:"matches"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error decoding seed file: %w", err)
	}
	return &FileSource{tournaments: doc.Tournaments, matches: doc.Matches}, nil
}

func (f *FileSource) Tournaments(_ context.Context) ([]ledger.Tournament, error) {
	return append([]ledger.Tournament(nil), f.tournaments...), nil
}

func (f *FileSource) Matches(_ context.Context, tournamentID int) ([]ledger.Match, error) {
	out := make([]ledger.Match, 0)
	for _, m := range f.matches {
		if m.TournamentID == tournamentID {
			out = append(out, m)
		}
	}
	return out, nil
}

type Syncer struct {
	src    Source
	target Target
}

func NewSyncer(src Source, target Target) *Syncer {
	return &Syncer{src: src, target: target}
}

// Sync replaces the tournament cache and adds matches the ledger has not seen.
func (s *Syncer) Sync(ctx context.Context) error {
	tournaments, err := s.src.Tournaments(ctx)
	if err != nil {
		return err
	}

	var matches []ledger.Match
	for _, t := range tournaments {
		ms, err := s.src.Matches(ctx, t.ID)
		if err != nil {
			return err
		}
		matches = append(matches, ms...)
	}

	if err := s.target.SetTournaments(ctx, tournaments); err != nil {
		return err
	}
	if err := s.target.SetMatches(ctx, matches); err != nil {
		return err
	}

	log.Printf("[refdata] synced %d tournaments, %d matches", len(tournaments), len(matches))
	return nil
}

// Schedule starts a scheduler running Sync every interval. The caller shuts
// it down.
func (s *Syncer) Schedule(ctx context.Context, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := s.Sync(ctx); err != nil {
				log.Printf("[refdata] sync failed: %v", err)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	return sched, nil
}
