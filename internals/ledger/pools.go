package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kridavyuha/cricket-pools/internals/notification"
)

const maxInviteCodeAttempts = 32

// CreatePool allocates a pool for the tournament with actor as its only member
// and admin. The tournament does not have to be cached; when it is, its format
// is copied onto the pool.
func (l *Ledger) CreatePool(ctx context.Context, name string, tournamentID int, actor *User) (*Pool, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	code, err := l.uniqueInviteCodeLocked()
	if err != nil {
		return nil, err
	}

	now := l.now()
	pool := Pool{
		ID:           uuid.NewString(),
		Name:         name,
		AdminID:      actor.ID,
		TournamentID: tournamentID,
		CreatedAt:    now,
		InviteCode:   code,
		IsPublic:     false,
		Members: []PoolMember{{
			UserID:   actor.ID,
			UserName: actor.Name,
			Points:   0,
			Bets:     []Bet{},
			JoinedAt: now,
			Rank:     1,
		}},
	}
	if t := l.tournamentByID(tournamentID); t != nil {
		pool.Format = t.Format
	}

	l.pools = append(l.pools, pool)
	l.metrics.RecordPoolCreated()

	l.notifyLocked(actor.ID, fmt.Sprintf("You created a new pool: %s", name), notification.TypePoolInvite, pool.ID)

	out := clonePool(pool)
	if err := l.persistLocked(ctx); err != nil {
		return &out, err
	}
	return &out, nil
}

func (l *Ledger) uniqueInviteCodeLocked() (string, error) {
	for i := 0; i < maxInviteCodeAttempts; i++ {
		code := l.newInviteCode()
		if l.poolIndexByInviteCode(code) == -1 {
			return code, nil
		}
	}
	return "", ErrInviteCodeExhausted
}

// JoinPool adds actor to the pool holding inviteCode. It returns false when no
// pool has that code, and true without any change when actor is already a
// member.
func (l *Ledger) JoinPool(ctx context.Context, inviteCode string, actor *User) (bool, error) {
	if actor == nil {
		return false, ErrUnauthenticated
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.poolIndexByInviteCode(inviteCode)
	if idx == -1 {
		l.metrics.RecordJoin("not_found")
		return false, nil
	}

	pool := &l.pools[idx]
	if pool.HasMember(actor.ID) {
		l.metrics.RecordJoin("already_member")
		return true, nil
	}

	pool.Members = append(pool.Members, PoolMember{
		UserID:   actor.ID,
		UserName: actor.Name,
		Points:   0,
		Bets:     []Bet{},
		JoinedAt: l.now(),
		Rank:     len(pool.Members) + 1,
	})
	l.metrics.RecordJoin("joined")

	l.notifyLocked(actor.ID, fmt.Sprintf("You joined the pool: %s", pool.Name), notification.TypePoolInvite, pool.ID)
	l.notifyLocked(pool.AdminID, fmt.Sprintf("%s joined your pool: %s", actor.Name, pool.Name), notification.TypePoolInvite, pool.ID)

	if err := l.persistLocked(ctx); err != nil {
		return true, err
	}
	return true, nil
}

func (l *Ledger) poolIndexByInviteCode(code string) int {
	for i := range l.pools {
		if l.pools[i].InviteCode == code {
			return i
		}
	}
	return -1
}

func (l *Ledger) poolIndex(id string) int {
	for i := range l.pools {
		if l.pools[i].ID == id {
			return i
		}
	}
	return -1
}

// GetUserPools returns every pool the user is a member of.
func (l *Ledger) GetUserPools(userID string) []Pool {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Pool, 0)
	for i := range l.pools {
		if l.pools[i].HasMember(userID) {
			out = append(out, clonePool(l.pools[i]))
		}
	}
	return out
}

func (l *Ledger) GetPoolByID(id string) (*Pool, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.poolIndex(id)
	if idx == -1 {
		return nil, false
	}
	p := clonePool(l.pools[idx])
	return &p, true
}

func (l *Ledger) Pools() []Pool {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Pool, len(l.pools))
	for i := range l.pools {
		out[i] = clonePool(l.pools[i])
	}
	return out
}
