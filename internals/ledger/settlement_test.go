package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/kridavyuha/cricket-pools/internals/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointsFor(t *testing.T) {
	tests := []struct {
		confidence int
		want       int
	}{
		{confidence: 0, want: 10},
		{confidence: 50, want: 5},
		{confidence: 55, want: 6},
		{confidence: 64, want: 6},
		{confidence: 75, want: 8},
		{confidence: 80, want: 8},
		{confidence: 94, want: 9},
		{confidence: 95, want: 10},
		{confidence: 100, want: 10},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, pointsFor(tc.confidence), "confidence %d", tc.confidence)
	}
}

// Alice creates a pool, Bob joins, both predict the same match and only Alice
// is right.
func TestUpdateMatchResults_SettlesAndRanks(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	pool, err := l.CreatePool(ctx, "Friends IPL", tournamentIPL, alice)
	require.NoError(t, err)
	l.clock.Add(time.Minute)
	ok, err := l.JoinPool(ctx, pool.InviteCode, bob)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, l.PlaceBet(ctx, pool.ID, matchUpcoming, PredictTeam1, 80, alice))
	require.NoError(t, l.PlaceBet(ctx, pool.ID, matchUpcoming, PredictTeam2, 100, bob))

	m, _ := l.GetMatchByID(matchUpcoming)
	require.NoError(t, l.UpdateMatchResults(ctx, completed(*m, teamCSK)))

	p, _ := l.GetPoolByID(pool.ID)
	require.Len(t, p.Members, 2)

	first, second := p.Members[0], p.Members[1]
	assert.Equal(t, alice.ID, first.UserID)
	assert.Equal(t, 8, first.Points)
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, 1, first.PreviousRank)
	assert.True(t, first.Bets[0].Settled)
	assert.Equal(t, 8, first.Bets[0].Points)

	assert.Equal(t, bob.ID, second.UserID)
	assert.Equal(t, 0, second.Points)
	assert.Equal(t, 2, second.Rank)
	assert.Equal(t, 2, second.PreviousRank)
	assert.True(t, second.Bets[0].Settled)

	aliceNotes := l.Notifications(alice.ID)
	assert.Equal(t, "You earned a new badge: First Call", aliceNotes[0].Message)
	assert.Equal(t, notification.TypeBadgeEarned, aliceNotes[0].Type)
	assert.Equal(t, "Your prediction for CSK vs MI #101 was correct! You earned 8 points.", aliceNotes[1].Message)
	assert.Equal(t, "101", aliceNotes[1].RelatedID)

	bobNotes := l.Notifications(bob.ID)
	assert.Equal(t, "Your prediction for CSK vs MI #101 was incorrect.", bobNotes[0].Message)

	u, _ := l.GetUser(alice.ID)
	assert.Equal(t, 1, u.CorrectPredictions)
	require.Len(t, u.Badges, 1)
	assert.Equal(t, "first-call", u.Badges[0].ID)

	u, _ = l.GetUser(bob.ID)
	assert.Equal(t, 0, u.CorrectPredictions)
	assert.Empty(t, u.Badges)

	stored, _ := l.GetMatchByID(matchUpcoming)
	assert.Equal(t, MatchCompleted, stored.Status)
	require.NotNil(t, stored.Result)
	assert.Equal(t, teamCSK, stored.Result.Winner)
}

func TestUpdateMatchResults_RankChange(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	pool, err := l.CreatePool(ctx, "Friends IPL", tournamentIPL, alice)
	require.NoError(t, err)
	l.clock.Add(time.Minute)
	_, err = l.JoinPool(ctx, pool.InviteCode, bob)
	require.NoError(t, err)

	require.NoError(t, l.PlaceBet(ctx, pool.ID, matchUpcoming, PredictTeam1, 100, alice))
	require.NoError(t, l.PlaceBet(ctx, pool.ID, matchUpcoming, PredictDraw, 100, bob))

	m, _ := l.GetMatchByID(matchUpcoming)
	require.NoError(t, l.UpdateMatchResults(ctx, completed(*m, DrawWinner)))

	p, _ := l.GetPoolByID(pool.ID)
	assert.Equal(t, bob.ID, p.Members[0].UserID)
	assert.Equal(t, 10, p.Members[0].Points)
	assert.Equal(t, 1, p.Members[0].Rank)
	assert.Equal(t, 2, p.Members[0].PreviousRank)

	assert.Equal(t, alice.ID, p.Members[1].UserID)
	assert.Equal(t, 2, p.Members[1].Rank)
	assert.Equal(t, 1, p.Members[1].PreviousRank)
}

func TestUpdateMatchResults_TiesKeepJoinOrder(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	pool, err := l.CreatePool(ctx, "Friends IPL", tournamentIPL, alice)
	require.NoError(t, err)
	l.clock.Add(time.Minute)
	_, err = l.JoinPool(ctx, pool.InviteCode, bob)
	require.NoError(t, err)
	l.clock.Add(time.Minute)
	_, err = l.JoinPool(ctx, pool.InviteCode, carol)
	require.NoError(t, err)

	require.NoError(t, l.PlaceBet(ctx, pool.ID, matchUpcoming, PredictTeam2, 50, alice))
	require.NoError(t, l.PlaceBet(ctx, pool.ID, matchUpcoming, PredictTeam1, 70, bob))
	require.NoError(t, l.PlaceBet(ctx, pool.ID, matchUpcoming, PredictTeam1, 70, carol))

	m, _ := l.GetMatchByID(matchUpcoming)
	require.NoError(t, l.UpdateMatchResults(ctx, completed(*m, teamCSK)))

	p, _ := l.GetPoolByID(pool.ID)
	got := []string{p.Members[0].UserID, p.Members[1].UserID, p.Members[2].UserID}
	assert.Equal(t, []string{bob.ID, carol.ID, alice.ID}, got)
	for i, member := range p.Members {
		assert.Equal(t, i+1, member.Rank)
	}
}

func TestUpdateMatchResults_SettlesEveryPool(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	ipl, err := l.CreatePool(ctx, "Friends IPL", tournamentIPL, alice)
	require.NoError(t, err)
	bbl, err := l.CreatePool(ctx, "Office BBL", tournamentBBL, alice)
	require.NoError(t, err)

	require.NoError(t, l.PlaceBet(ctx, ipl.ID, matchUpcoming, PredictTeam1, 100, alice))
	require.NoError(t, l.PlaceBet(ctx, bbl.ID, matchUpcoming, PredictTeam1, 60, alice))

	m, _ := l.GetMatchByID(matchUpcoming)
	require.NoError(t, l.UpdateMatchResults(ctx, completed(*m, teamCSK)))

	p, _ := l.GetPoolByID(ipl.ID)
	assert.Equal(t, 10, p.Members[0].Points)
	p, _ = l.GetPoolByID(bbl.ID)
	assert.Equal(t, 6, p.Members[0].Points, "pools of other tournaments are settled too")

	u, _ := l.GetUser(alice.ID)
	assert.Equal(t, 2, u.CorrectPredictions)
}

func TestUpdateMatchResults_NoSettlement(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown match", func(t *testing.T) {
		l := newTestLedger(t)
		pool, err := l.CreatePool(ctx, "Friends IPL", tournamentIPL, alice)
		require.NoError(t, err)
		require.NoError(t, l.PlaceBet(ctx, pool.ID, matchUpcoming, PredictTeam1, 100, alice))

		before := l.Snapshot()
		unknown := completed(newMatch(777, tournamentIPL, MatchCompleted), teamCSK)
		require.NoError(t, l.UpdateMatchResults(ctx, unknown))
		assert.Equal(t, before, l.Snapshot())

		_, found := l.GetMatchByID(777)
		assert.False(t, found)
	})

	t.Run("status change without result", func(t *testing.T) {
		l := newTestLedger(t)
		pool, err := l.CreatePool(ctx, "Friends IPL", tournamentIPL, alice)
		require.NoError(t, err)
		require.NoError(t, l.PlaceBet(ctx, pool.ID, matchUpcoming, PredictTeam1, 100, alice))

		live := newMatch(matchUpcoming, tournamentIPL, MatchLive)
		require.NoError(t, l.UpdateMatchResults(ctx, live))

		m, _ := l.GetMatchByID(matchUpcoming)
		assert.Equal(t, MatchLive, m.Status)
		p, _ := l.GetPoolByID(pool.ID)
		assert.False(t, p.Members[0].Bets[0].Settled)

		// betting closes once the match is live
		require.NoError(t, l.PlaceBet(ctx, pool.ID, matchUpcoming, PredictTeam2, 100, alice))
		p, _ = l.GetPoolByID(pool.ID)
		assert.Equal(t, PredictTeam1, p.Members[0].Bets[0].Prediction)
	})
}

func TestUpdateMatchResults_SettlesOnce(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	pool, err := l.CreatePool(ctx, "Friends IPL", tournamentIPL, alice)
	require.NoError(t, err)
	require.NoError(t, l.PlaceBet(ctx, pool.ID, matchUpcoming, PredictTeam1, 90, alice))

	m, _ := l.GetMatchByID(matchUpcoming)
	require.NoError(t, l.UpdateMatchResults(ctx, completed(*m, teamCSK)))
	notes := len(l.Notifications(alice.ID))

	// a corrected result does not re-settle bets already settled
	require.NoError(t, l.UpdateMatchResults(ctx, completed(*m, teamMI)))

	p, _ := l.GetPoolByID(pool.ID)
	assert.Equal(t, 9, p.Members[0].Points)
	assert.Equal(t, 9, p.Members[0].Bets[0].Points)
	assert.Len(t, l.Notifications(alice.ID), notes)

	u, _ := l.GetUser(alice.ID)
	assert.Equal(t, 1, u.CorrectPredictions)

	stored, _ := l.GetMatchByID(matchUpcoming)
	assert.Equal(t, teamMI, stored.Result.Winner)
}

func TestMemberPointsEqualSettledBets(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	require.NoError(t, l.SetMatches(ctx, []Match{
		newMatch(104, tournamentIPL, MatchUpcoming),
		newMatch(105, tournamentIPL, MatchUpcoming),
	}))

	pool, err := l.CreatePool(ctx, "Friends IPL", tournamentIPL, alice)
	require.NoError(t, err)
	for _, id := range []int{matchUpcoming, 104, 105} {
		require.NoError(t, l.PlaceBet(ctx, pool.ID, id, PredictTeam1, 70, alice))
	}

	for _, id := range []int{matchUpcoming, 104} {
		m, _ := l.GetMatchByID(id)
		require.NoError(t, l.UpdateMatchResults(ctx, completed(*m, teamCSK)))
	}

	p, _ := l.GetPoolByID(pool.ID)
	member := p.Members[0]
	sum := 0
	for _, b := range member.Bets {
		if !b.Settled {
			assert.Equal(t, 0, b.Points)
		}
		sum += b.Points
	}
	assert.Equal(t, 14, member.Points)
	assert.Equal(t, sum, member.Points)
}

func TestAwardBadges(t *testing.T) {
	l := newTestLedger(t)
	u := User{ID: "user-x", CorrectPredictions: 10}

	l.mu.Lock()
	l.awardBadgesLocked(&u)
	l.awardBadgesLocked(&u)
	l.mu.Unlock()

	require.Len(t, u.Badges, 2)
	assert.Equal(t, "first-call", u.Badges[0].ID)
	assert.Equal(t, "sharp-eye", u.Badges[1].ID)
	assert.Len(t, l.Notifications("user-x"), 2)

	u.CorrectPredictions = 50
	l.mu.Lock()
	l.awardBadgesLocked(&u)
	l.mu.Unlock()
	assert.Len(t, u.Badges, 4)
}
