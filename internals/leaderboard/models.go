package leaderboard

// Row is the single ranking shape handed to display code, whatever it was
// built from.
type Row struct {
	UserID             string `json:"userId"`
	UserName           string `json:"userName"`
	ProfilePicture     string `json:"profilePicture,omitempty"`
	Points             int    `json:"points"`
	TotalPredictions   int    `json:"totalPredictions"`
	CorrectPredictions int    `json:"correctPredictions"`
	Accuracy           int    `json:"accuracy"`
	Rank               int    `json:"rank"`
	PreviousRank       int    `json:"previousRank"`
}

// Movement is the rank change since the previous ranking.
type Movement string

const (
	MovementUp   Movement = "up"
	MovementDown Movement = "down"
	MovementSame Movement = "same"
)

func (r Row) Movement() Movement {
	switch {
	case r.Rank < r.PreviousRank:
		return MovementUp
	case r.Rank > r.PreviousRank:
		return MovementDown
	}
	return MovementSame
}

// Entry is a precomputed leaderboard row as stored by an external board.
type Entry struct {
	UserID             string `json:"userId"`
	UserName           string `json:"userName"`
	ProfilePicture     string `json:"profilePicture,omitempty"`
	Points             int    `json:"points"`
	TotalPredictions   int    `json:"totalPredictions"`
	CorrectPredictions int    `json:"correctPredictions"`
	Accuracy           int    `json:"accuracy"`
	Rank               int    `json:"rank"`
	PreviousRank       int    `json:"previousRank"`
}

// Board holds every ranking derived from the ledger at one point in time.
type Board struct {
	Global     []Row            `json:"global"`
	Tournament map[int][]Row    `json:"tournament"`
	Pool       map[string][]Row `json:"pool"`
}
