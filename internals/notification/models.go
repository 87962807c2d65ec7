package notification

import "time"

type Type string

const (
	TypePoolInvite  Type = "pool_invite"
	TypeMatchResult Type = "match_result"
	TypeBetResult   Type = "bet_result"
	TypeBadgeEarned Type = "badge_earned"
)

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	Type      Type      `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
	// Pool ID, Match ID, etc.
	RelatedID string `json:"relatedId,omitempty"`
}
