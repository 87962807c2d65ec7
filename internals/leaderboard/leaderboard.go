package leaderboard

import (
	"math"
	"sort"

	"github.com/kridavyuha/cricket-pools/internals/ledger"
)

// Source is the read side of the ledger the leaderboard is computed from.
type Source interface {
	Users() []ledger.User
	Pools() []ledger.Pool
}

type Leaderboard struct {
	src Source
}

func New(src Source) *Leaderboard {
	return &Leaderboard{src: src}
}

func (l *Leaderboard) GetLeaderboard() Board {
	return Build(l.src.Users(), l.src.Pools())
}

func (l *Leaderboard) GetGlobal() []Row {
	return Build(l.src.Users(), l.src.Pools()).Global
}

// GetPool returns the pool's ranking and false when the pool does not exist.
func (l *Leaderboard) GetPool(poolID string) ([]Row, bool) {
	for _, p := range l.src.Pools() {
		if p.ID == poolID {
			return FromMembers(p.Members, l.src.Users()), true
		}
	}
	return nil, false
}

func (l *Leaderboard) GetTournament(tournamentID int) []Row {
	rows := Build(l.src.Users(), l.src.Pools()).Tournament[tournamentID]
	if rows == nil {
		return []Row{}
	}
	return rows
}

// FromMembers converts pool members as the ledger ranked them. users, when
// given, supplies profile pictures.
func FromMembers(members []ledger.PoolMember, users []ledger.User) []Row {
	pictures := make(map[string]string, len(users))
	for _, u := range users {
		pictures[u.ID] = u.ProfilePicture
	}

	rows := make([]Row, 0, len(members))
	for i, m := range members {
		total := len(m.Bets)
		correct := 0
		for _, b := range m.Bets {
			if b.Points > 0 {
				correct++
			}
		}

		rank := m.Rank
		if rank == 0 {
			rank = i + 1
		}
		previous := m.PreviousRank
		if previous == 0 {
			previous = rank
		}

		rows = append(rows, Row{
			UserID:             m.UserID,
			UserName:           m.UserName,
			ProfilePicture:     pictures[m.UserID],
			Points:             m.Points,
			TotalPredictions:   total,
			CorrectPredictions: correct,
			Accuracy:           accuracy(correct, total),
			Rank:               rank,
			PreviousRank:       previous,
		})
	}
	return rows
}

func FromEntries(entries []Entry) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Row(e))
	}
	return rows
}

// Build derives the global, per tournament and per pool rankings. Global and
// tournament rows sum points over pools; their ranks are positional.
func Build(users []ledger.User, pools []ledger.Pool) Board {
	board := Board{
		Global:     make([]Row, 0, len(users)),
		Tournament: make(map[int][]Row),
		Pool:       make(map[string][]Row, len(pools)),
	}

	byID := make(map[string]ledger.User, len(users))
	globalPoints := make(map[string]int, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	type tally struct {
		row   Row
		order int
	}
	perTournament := make(map[int]map[string]*tally)

	for _, p := range pools {
		board.Pool[p.ID] = FromMembers(p.Members, users)

		tallies, ok := perTournament[p.TournamentID]
		if !ok {
			tallies = make(map[string]*tally)
			perTournament[p.TournamentID] = tallies
		}
		for _, m := range p.Members {
			globalPoints[m.UserID] += m.Points

			t, ok := tallies[m.UserID]
			if !ok {
				t = &tally{
					row: Row{
						UserID:         m.UserID,
						UserName:       m.UserName,
						ProfilePicture: byID[m.UserID].ProfilePicture,
					},
					order: len(tallies),
				}
				tallies[m.UserID] = t
			}
			t.row.Points += m.Points
			t.row.TotalPredictions += len(m.Bets)
			for _, b := range m.Bets {
				if b.Points > 0 {
					t.row.CorrectPredictions++
				}
			}
		}
	}

	for _, u := range users {
		board.Global = append(board.Global, Row{
			UserID:             u.ID,
			UserName:           u.Name,
			ProfilePicture:     u.ProfilePicture,
			Points:             globalPoints[u.ID],
			TotalPredictions:   u.TotalPredictions,
			CorrectPredictions: u.CorrectPredictions,
			Accuracy:           accuracy(u.CorrectPredictions, u.TotalPredictions),
		})
	}
	rankPositional(board.Global)

	for tid, tallies := range perTournament {
		ordered := make([]*tally, 0, len(tallies))
		for _, t := range tallies {
			ordered = append(ordered, t)
		}
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].order < ordered[j].order })

		rows := make([]Row, 0, len(ordered))
		for _, t := range ordered {
			t.row.Accuracy = accuracy(t.row.CorrectPredictions, t.row.TotalPredictions)
			rows = append(rows, t.row)
		}
		rankPositional(rows)
		board.Tournament[tid] = rows
	}

	return board
}

func rankPositional(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].UserName < rows[j].UserName
	})
	for i := range rows {
		rows[i].Rank = i + 1
		rows[i].PreviousRank = i + 1
	}
}

func accuracy(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
