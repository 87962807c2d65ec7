package profile

import (
	"testing"

	"github.com/kridavyuha/cricket-pools/internals/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	users map[string]ledger.User
	pools []ledger.Pool
}

func (f fakeSource) GetUser(id string) (*ledger.User, bool) {
	u, ok := f.users[id]
	if !ok {
		return nil, false
	}
	return &u, true
}

func (f fakeSource) GetUserPools(userID string) []ledger.Pool {
	var out []ledger.Pool
	for _, p := range f.pools {
		if p.HasMember(userID) {
			out = append(out, p)
		}
	}
	return out
}

func TestGetProfile(t *testing.T) {
	src := fakeSource{
		users: map[string]ledger.User{
			"a": {ID: "a", Name: "Alice", TotalPredictions: 3, CorrectPredictions: 2},
			"b": {ID: "b", Name: "Bob"},
		},
		pools: []ledger.Pool{
			{ID: "p1", Name: "Friends IPL", AdminID: "a", TournamentID: 1, Members: []ledger.PoolMember{
				{UserID: "a", Points: 18, Rank: 1},
				{UserID: "b", Points: 5, Rank: 2},
			}},
			{ID: "p2", Name: "Office", AdminID: "b", TournamentID: 2, Members: []ledger.PoolMember{
				{UserID: "b", Points: 10},
				{UserID: "a", Points: 2},
			}},
		},
	}
	ps := New(src)

	profile, err := ps.GetProfile("a")
	require.NoError(t, err)
	assert.Equal(t, "Alice", profile.User.Name)
	assert.Equal(t, 67, profile.Accuracy)
	assert.Equal(t, 20, profile.Points)
	assert.Equal(t, []PoolSummary{
		{PoolID: "p1", Name: "Friends IPL", TournamentID: 1, Points: 18, Rank: 1, Members: 2, IsAdmin: true},
		{PoolID: "p2", Name: "Office", TournamentID: 2, Points: 2, Rank: 2, Members: 2, IsAdmin: false},
	}, profile.Pools)

	profile, err = ps.GetProfile("b")
	require.NoError(t, err)
	assert.Equal(t, 0, profile.Accuracy)

	_, err = ps.GetProfile("nobody")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
