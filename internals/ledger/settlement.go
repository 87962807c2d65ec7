package ledger

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/kridavyuha/cricket-pools/internals/notification"
)

// SetTournaments replaces the tournament cache.
func (l *Ledger) SetTournaments(ctx context.Context, tournaments []Tournament) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tournaments = make([]Tournament, len(tournaments))
	for i := range tournaments {
		l.tournaments[i] = cloneTournament(tournaments[i])
	}
	return l.persistLocked(ctx)
}

// SetMatches adds matches that are not cached yet. Cached entries win; results
// only change through UpdateMatchResults.
func (l *Ledger) SetMatches(ctx context.Context, matches []Match) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	known := make(map[int]struct{}, len(l.matches))
	for _, m := range l.matches {
		known[m.ID] = struct{}{}
	}

	added := 0
	for _, m := range matches {
		if _, ok := known[m.ID]; ok {
			continue
		}
		known[m.ID] = struct{}{}
		l.matches = append(l.matches, cloneMatch(m))
		added++
	}

	if added == 0 {
		return nil
	}
	return l.persistLocked(ctx)
}

// UpdateMatchResults replaces the cached match with the same id. When the
// match is completed with a result, every unsettled bet on it is settled and
// all pools are re-ranked. Matches that are not cached are ignored.
//
// Settlement is not restricted to pools of the match's tournament.
func (l *Ledger) UpdateMatchResults(ctx context.Context, updated Match) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.matchIndex(updated.ID)
	if idx == -1 {
		l.metrics.RecordMatchUpdate("unknown")
		return nil
	}
	l.matches[idx] = cloneMatch(updated)
	l.metrics.RecordMatchUpdate(string(updated.Status))

	if updated.Status == MatchCompleted && updated.Result != nil {
		for i := range l.pools {
			l.settlePoolLocked(&l.pools[i], updated)
			rankMembers(l.pools[i].Members)
		}
	}

	return l.persistLocked(ctx)
}

func (l *Ledger) settlePoolLocked(pool *Pool, match Match) {
	for mi := range pool.Members {
		member := &pool.Members[mi]
		for bi := range member.Bets {
			bet := &member.Bets[bi]
			if bet.MatchID != match.ID || bet.Settled {
				continue
			}

			correct := isCorrect(bet.Prediction, match)
			relatedID := strconv.Itoa(match.ID)
			if correct {
				bet.Points = pointsFor(bet.Confidence)
				l.notifyLocked(member.UserID,
					fmt.Sprintf("Your prediction for %s was correct! You earned %d points.", match.Name, bet.Points),
					notification.TypeBetResult, relatedID)

				if uIdx := l.userIndex(member.UserID); uIdx != -1 {
					l.users[uIdx].CorrectPredictions++
					l.awardBadgesLocked(&l.users[uIdx])
				}
			} else {
				bet.Points = 0
				l.notifyLocked(member.UserID,
					fmt.Sprintf("Your prediction for %s was incorrect.", match.Name),
					notification.TypeBetResult, relatedID)
			}
			bet.Settled = true
			l.metrics.RecordSettlement(correct)
		}

		total := 0
		for _, b := range member.Bets {
			total += b.Points
		}
		member.Points = total
	}
}

func isCorrect(p Prediction, m Match) bool {
	winner := m.Result.Winner
	switch p {
	case PredictTeam1:
		return winner == m.Team1.ID
	case PredictTeam2:
		return winner == m.Team2.ID
	case PredictDraw:
		return winner == DrawWinner
	}
	return false
}

func pointsFor(confidence int) int {
	if confidence == 0 {
		confidence = DefaultConfidence
	}
	return int(math.Round(float64(basePoints*confidence) / 100))
}

// rankMembers orders members by points, highest first. Equal points keep the
// member who joined earlier ahead, then the existing order. The prior rank is
// kept in PreviousRank.
func rankMembers(members []PoolMember) {
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].Points != members[j].Points {
			return members[i].Points > members[j].Points
		}
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})

	for i := range members {
		prev := members[i].Rank
		if prev == 0 {
			prev = i + 1
		}
		members[i].PreviousRank = prev
		members[i].Rank = i + 1
	}
}
