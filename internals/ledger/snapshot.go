package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/kridavyuha/cricket-pools/internals/notification"
)

// SnapshotVersion is written into every persisted document. Documents without
// a version predate versioning and load as version 1.
const SnapshotVersion = 1

type Snapshot struct {
	Version       int                         `json:"version"`
	Users         []User                      `json:"users"`
	Pools         []Pool                      `json:"pools"`
	Tournaments   []Tournament                `json:"tournaments"`
	Matches       []Match                     `json:"matches"`
	Notifications []notification.Notification `json:"notifications"`
}

func (s Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSnapshot accepts either a bare snapshot or the {"state": ..., "version": n}
// envelope written by the browser client's persisted store.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var envelope struct {
		State *Snapshot `json:"state"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Snapshot{}, fmt.Errorf("error decoding ledger snapshot: %w", err)
	}

	var snap Snapshot
	if envelope.State != nil {
		snap = *envelope.State
		// the envelope's own version number belongs to the client store
		snap.Version = 0
	} else if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("error decoding ledger snapshot: %w", err)
	}

	if snap.Version == 0 {
		snap.Version = SnapshotVersion
	}
	if snap.Version > SnapshotVersion {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrUnsupportedSnapshot, snap.Version)
	}
	return snap, nil
}

// Snapshot returns a deep copy of the whole ledger state.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.snapshotLocked()
}

// Restore replaces the whole ledger state with snap. It does not persist.
func (l *Ledger) Restore(snap Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.restoreLocked(snap)
}

func (l *Ledger) snapshotLocked() Snapshot {
	s := Snapshot{
		Version:       SnapshotVersion,
		Users:         make([]User, len(l.users)),
		Pools:         make([]Pool, len(l.pools)),
		Tournaments:   make([]Tournament, len(l.tournaments)),
		Matches:       make([]Match, len(l.matches)),
		Notifications: l.feed.All(),
	}
	for i := range l.users {
		s.Users[i] = cloneUser(l.users[i])
	}
	for i := range l.pools {
		s.Pools[i] = clonePool(l.pools[i])
	}
	for i := range l.tournaments {
		s.Tournaments[i] = cloneTournament(l.tournaments[i])
	}
	for i := range l.matches {
		s.Matches[i] = cloneMatch(l.matches[i])
	}
	if s.Notifications == nil {
		s.Notifications = []notification.Notification{}
	}
	return s
}

func (l *Ledger) restoreLocked(snap Snapshot) {
	l.users = make([]User, len(snap.Users))
	for i := range snap.Users {
		l.users[i] = cloneUser(snap.Users[i])
	}
	l.pools = make([]Pool, len(snap.Pools))
	for i := range snap.Pools {
		l.pools[i] = clonePool(snap.Pools[i])
	}
	l.tournaments = make([]Tournament, len(snap.Tournaments))
	for i := range snap.Tournaments {
		l.tournaments[i] = cloneTournament(snap.Tournaments[i])
	}
	l.matches = make([]Match, len(snap.Matches))
	for i := range snap.Matches {
		l.matches[i] = cloneMatch(snap.Matches[i])
	}
	l.feed = notification.NewFeed(l.clock, snap.Notifications)
	l.feed.SetSink(l.sink)
}

func cloneUser(u User) User {
	if u.Badges != nil {
		u.Badges = append([]Badge(nil), u.Badges...)
	}
	if u.LastActive != nil {
		t := *u.LastActive
		u.LastActive = &t
	}
	return u
}

func clonePool(p Pool) Pool {
	members := make([]PoolMember, len(p.Members))
	for i, m := range p.Members {
		bets := make([]Bet, len(m.Bets))
		copy(bets, m.Bets)
		m.Bets = bets
		members[i] = m
	}
	p.Members = members
	return p
}

func cloneTournament(t Tournament) Tournament {
	if t.Teams != nil {
		t.Teams = append([]Team(nil), t.Teams...)
	}
	return t
}

func cloneMatch(m Match) Match {
	if m.Result != nil {
		r := *m.Result
		m.Result = &r
	}
	return m
}
