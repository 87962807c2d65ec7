package ledger

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/kridavyuha/cricket-pools/internals/notification"
)

// PlaceBet records actor's prediction for a match inside a pool. It silently
// does nothing when the pool or match is unknown, actor is not a member, or
// the match is no longer upcoming. A second bet on the same match replaces the
// first in place. confidence is not range checked; 0 means DefaultConfidence.
func (l *Ledger) PlaceBet(ctx context.Context, poolID string, matchID int, prediction Prediction, confidence int, actor *User) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if confidence == 0 {
		confidence = DefaultConfidence
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	pIdx := l.poolIndex(poolID)
	if pIdx == -1 {
		l.metrics.RecordBet("pool_not_found")
		return nil
	}
	pool := &l.pools[pIdx]

	mIdx := pool.memberIndex(actor.ID)
	if mIdx == -1 {
		l.metrics.RecordBet("not_member")
		return nil
	}

	matchIdx := l.matchIndex(matchID)
	if matchIdx == -1 {
		l.metrics.RecordBet("match_not_found")
		return nil
	}
	match := l.matches[matchIdx]
	if match.Status != MatchUpcoming {
		l.metrics.RecordBet("match_closed")
		return nil
	}

	bet := Bet{
		ID:         uuid.NewString(),
		MatchID:    matchID,
		UserID:     actor.ID,
		Prediction: prediction,
		Points:     0,
		CreatedAt:  l.now(),
		Settled:    false,
		Confidence: confidence,
	}

	member := &pool.Members[mIdx]
	if existing := member.betIndex(matchID); existing != -1 {
		member.Bets[existing] = bet
	} else {
		member.Bets = append(member.Bets, bet)
	}

	if uIdx := l.userIndex(actor.ID); uIdx != -1 {
		l.users[uIdx].TotalPredictions++
	}
	l.metrics.RecordBet("placed")

	l.notifyLocked(actor.ID, fmt.Sprintf("You placed a bet on %s", match.Name), notification.TypeBetResult, strconv.Itoa(match.ID))

	return l.persistLocked(ctx)
}
