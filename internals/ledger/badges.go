package ledger

import (
	"fmt"

	"github.com/kridavyuha/cricket-pools/internals/notification"
)

type badgeTrigger struct {
	ID          string
	Name        string
	Description string
	Icon        string
	// CorrectPredictions needed to unlock the badge.
	Threshold int
}

var badgeTriggers = []badgeTrigger{
	{ID: "first-call", Name: "First Call", Description: "Made your first correct prediction", Icon: "target", Threshold: 1},
	{ID: "sharp-eye", Name: "Sharp Eye", Description: "10 correct predictions", Icon: "eye", Threshold: 10},
	{ID: "oracle", Name: "Oracle", Description: "25 correct predictions", Icon: "crystal-ball", Threshold: 25},
	{ID: "hall-of-fame", Name: "Hall of Fame", Description: "50 correct predictions", Icon: "trophy", Threshold: 50},
}

func hasBadge(u *User, id string) bool {
	for _, b := range u.Badges {
		if b.ID == id {
			return true
		}
	}
	return false
}

// awardBadgesLocked unlocks every badge whose threshold the user has reached
// and does not hold yet.
func (l *Ledger) awardBadgesLocked(u *User) {
	for _, trigger := range badgeTriggers {
		if u.CorrectPredictions < trigger.Threshold || hasBadge(u, trigger.ID) {
			continue
		}
		u.Badges = append(u.Badges, Badge{
			ID:          trigger.ID,
			Name:        trigger.Name,
			Description: trigger.Description,
			Icon:        trigger.Icon,
			UnlockedAt:  l.now(),
		})
		l.notifyLocked(u.ID, fmt.Sprintf("You earned a new badge: %s", trigger.Name), notification.TypeBadgeEarned, trigger.ID)
	}
}
