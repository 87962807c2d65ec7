package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/kridavyuha/cricket-pools/internals/metrics"
	"github.com/kridavyuha/cricket-pools/internals/notification"
	"github.com/kridavyuha/cricket-pools/pkg/kvstore"
	"golang.org/x/exp/rand"
)

const DefaultSlot = "cricket-betting-storage"

// ActivityResolution is how stale LastActive must be before Touch rewrites it.
const ActivityResolution = time.Minute

var (
	ErrUnauthenticated     = errors.New("user not logged in")
	ErrUnsupportedSnapshot = errors.New("unsupported snapshot version")
	ErrInviteCodeExhausted = errors.New("could not generate a unique invite code")
)

// Ledger owns users, pools, the tournament and match caches and the
// notification feed. Every mutation runs to completion under one lock and then
// rewrites the whole snapshot to a single KV slot.
type Ledger struct {
	mu sync.Mutex

	kv            kvstore.KVStore
	slot          string
	clock         clock.Clock
	metrics       *metrics.LedgerMetrics
	newInviteCode func() string

	users       []User
	pools       []Pool
	tournaments []Tournament
	matches     []Match
	feed        *notification.Feed
	sink        notification.Sink
}

type Option func(*Ledger)

func WithSlot(slot string) Option {
	return func(l *Ledger) {
		if slot != "" {
			l.slot = slot
		}
	}
}

func WithMetrics(m *metrics.LedgerMetrics) Option {
	return func(l *Ledger) {
		l.metrics = m
	}
}

// WithInviteCodeGenerator replaces the random invite code source.
func WithInviteCodeGenerator(gen func() string) Option {
	return func(l *Ledger) {
		l.newInviteCode = gen
	}
}

// WithNotificationSink forwards every new notification to s.
func WithNotificationSink(s notification.Sink) Option {
	return func(l *Ledger) {
		l.sink = s
	}
}

// New builds a ledger and loads the snapshot stored in its slot, if any.
func New(ctx context.Context, kv kvstore.KVStore, clk clock.Clock, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		kv:    kv,
		slot:  DefaultSlot,
		clock: clk,
		feed:  notification.NewFeed(clk, nil),
	}
	l.newInviteCode = randomInviteCodes(uint64(clk.Now().UnixNano()))

	for _, opt := range opts {
		opt(l)
	}
	l.feed.SetSink(l.sink)

	data, err := kv.Get(ctx, l.slot)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return l, nil
		}
		return nil, fmt.Errorf("error loading ledger snapshot: %w", err)
	}

	snap, err := DecodeSnapshot([]byte(data))
	if err != nil {
		return nil, err
	}
	l.restoreLocked(snap)

	log.Printf("ledger: restored %d pools, %d users, %d matches from %q", len(l.pools), len(l.users), len(l.matches), l.slot)
	return l, nil
}

// persistLocked rewrites the whole snapshot. Callers hold l.mu.
func (l *Ledger) persistLocked(ctx context.Context) error {
	data, err := l.snapshotLocked().Encode()
	if err == nil {
		err = l.kv.Set(ctx, l.slot, data)
	}
	l.metrics.RecordSnapshotWrite(err)
	if err != nil {
		return fmt.Errorf("error persisting ledger snapshot: %w", err)
	}
	return nil
}

func (l *Ledger) notifyLocked(userID, message string, t notification.Type, relatedID string) {
	l.feed.Add(userID, message, t, relatedID)
	l.metrics.RecordNotification(string(t))
}

func (l *Ledger) now() time.Time {
	return l.clock.Now().UTC()
}

// RegisterUser inserts the user or refreshes its profile fields. Prediction
// counters and badges of an existing user are kept.
func (l *Ledger) RegisterUser(ctx context.Context, u User) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if idx := l.userIndex(u.ID); idx != -1 {
		existing := &l.users[idx]
		existing.Name = u.Name
		existing.Email = u.Email
		existing.IsAdmin = u.IsAdmin
		existing.ProfilePicture = u.ProfilePicture
	} else {
		l.users = append(l.users, cloneUser(u))
	}
	return l.persistLocked(ctx)
}

// Touch records the user's last activity time. Calls within
// ActivityResolution of the recorded time do not persist.
func (l *Ledger) Touch(ctx context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.userIndex(userID)
	if idx == -1 {
		return nil
	}
	now := l.now()
	if last := l.users[idx].LastActive; last != nil && now.Sub(*last) < ActivityResolution {
		return nil
	}
	l.users[idx].LastActive = &now
	return l.persistLocked(ctx)
}

func (l *Ledger) GetUser(id string) (*User, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.userIndex(id)
	if idx == -1 {
		return nil, false
	}
	u := cloneUser(l.users[idx])
	return &u, true
}

func (l *Ledger) Users() []User {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]User, len(l.users))
	for i := range l.users {
		out[i] = cloneUser(l.users[i])
	}
	return out
}

func (l *Ledger) userIndex(id string) int {
	for i := range l.users {
		if l.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) Tournaments() []Tournament {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Tournament, len(l.tournaments))
	for i := range l.tournaments {
		out[i] = cloneTournament(l.tournaments[i])
	}
	return out
}

func (l *Ledger) tournamentByID(id int) *Tournament {
	for i := range l.tournaments {
		if l.tournaments[i].ID == id {
			return &l.tournaments[i]
		}
	}
	return nil
}

// Matches returns the cached matches; tournamentID 0 returns all of them.
func (l *Ledger) Matches(tournamentID int) []Match {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Match, 0, len(l.matches))
	for i := range l.matches {
		if tournamentID != 0 && l.matches[i].TournamentID != tournamentID {
			continue
		}
		out = append(out, cloneMatch(l.matches[i]))
	}
	return out
}

func (l *Ledger) GetMatchByID(id int) (*Match, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.matchIndex(id)
	if idx == -1 {
		return nil, false
	}
	m := cloneMatch(l.matches[idx])
	return &m, true
}

func (l *Ledger) matchIndex(id int) int {
	for i := range l.matches {
		if l.matches[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) Notifications(userID string) []notification.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.feed.ForUser(userID)
}

func (l *Ledger) UnreadNotifications(userID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.feed.UnreadCount(userID)
}

// MarkNotificationAsRead flips one notification to read. Unknown ids are a
// no-op.
func (l *Ledger) MarkNotificationAsRead(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.feed.MarkRead(id) {
		return nil
	}
	return l.persistLocked(ctx)
}

func (l *Ledger) MarkAllNotificationsAsRead(ctx context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.feed.MarkAllRead(userID) == 0 {
		return nil
	}
	return l.persistLocked(ctx)
}

const inviteCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func randomInviteCodes(seed uint64) func() string {
	r := rand.New(rand.NewSource(seed))
	return func() string {
		b := make([]byte, 6)
		for i := range b {
			b[i] = inviteCharset[r.Intn(len(inviteCharset))]
		}
		return string(b)
	}
}
