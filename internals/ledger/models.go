package ledger

import "time"

type Format string

const (
	FormatODI       Format = "ODI"
	FormatT10       Format = "T10"
	FormatT20       Format = "T20"
	FormatTest      Format = "Test"
	FormatBilateral Format = "Bilateral"
)

type MatchStatus string

const (
	MatchUpcoming  MatchStatus = "upcoming"
	MatchLive      MatchStatus = "live"
	MatchCompleted MatchStatus = "completed"
)

type Prediction string

const (
	PredictTeam1 Prediction = "team1"
	PredictTeam2 Prediction = "team2"
	PredictDraw  Prediction = "draw"
)

func (p Prediction) Valid() bool {
	return p == PredictTeam1 || p == PredictTeam2 || p == PredictDraw
}

const (
	// DrawWinner is the MatchResult.Winner value meaning the match was drawn.
	DrawWinner = 0

	DefaultConfidence = 100
	basePoints        = 10
)

type User struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	IsAdmin            bool       `json:"isAdmin"`
	ProfilePicture     string     `json:"profilePicture,omitempty"`
	TotalPredictions   int        `json:"totalPredictions"`
	CorrectPredictions int        `json:"correctPredictions"`
	Badges             []Badge    `json:"badges,omitempty"`
	LastActive         *time.Time `json:"lastActive,omitempty"`
}

type Badge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	UnlockedAt  time.Time `json:"unlockedAt"`
}

type Team struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	Logo    string `json:"logo,omitempty"`
	Ranking int    `json:"ranking,omitempty"`
}

// Tournament is reference data; the ledger caches it but never mutates it.
type Tournament struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Format    Format `json:"format,omitempty"`
	Category  string `json:"category,omitempty"`
	Location  string `json:"location,omitempty"`
	Logo      string `json:"logo,omitempty"`
	Teams     []Team `json:"teams,omitempty"`
}

type MatchResult struct {
	// Winning team id, or DrawWinner.
	Winner        int    `json:"winner"`
	Team1Score    string `json:"team1Score,omitempty"`
	Team2Score    string `json:"team2Score,omitempty"`
	ManOfTheMatch string `json:"manOfTheMatch,omitempty"`
	Highlights    string `json:"highlights,omitempty"`
}

type Match struct {
	ID           int          `json:"id"`
	TournamentID int          `json:"tournamentId"`
	Name         string       `json:"name"`
	Status       MatchStatus  `json:"status"`
	Date         string       `json:"date"`
	Team1        Team         `json:"team1"`
	Team2        Team         `json:"team2"`
	Result       *MatchResult `json:"result,omitempty"`
	Format       Format       `json:"format,omitempty"`
	Venue        string       `json:"venue,omitempty"`
}

type Pool struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	AdminID      string       `json:"adminId"`
	TournamentID int          `json:"tournamentId"`
	CreatedAt    time.Time    `json:"createdAt"`
	InviteCode   string       `json:"inviteCode"`
	Members      []PoolMember `json:"members"`
	Format       Format       `json:"format,omitempty"`
	IsPublic     bool         `json:"isPublic"`
}

func (p *Pool) memberIndex(userID string) int {
	for i := range p.Members {
		if p.Members[i].UserID == userID {
			return i
		}
	}
	return -1
}

// HasMember reports whether the user belongs to the pool.
func (p *Pool) HasMember(userID string) bool {
	return p.memberIndex(userID) != -1
}

type PoolMember struct {
	UserID       string    `json:"userId"`
	UserName     string    `json:"userName"`
	Points       int       `json:"points"`
	Bets         []Bet     `json:"bets"`
	JoinedAt     time.Time `json:"joinedAt"`
	Rank         int       `json:"rank,omitempty"`
	PreviousRank int       `json:"previousRank,omitempty"`
}

func (m *PoolMember) betIndex(matchID int) int {
	for i := range m.Bets {
		if m.Bets[i].MatchID == matchID {
			return i
		}
	}
	return -1
}

type Bet struct {
	ID         string     `json:"id"`
	MatchID    int        `json:"matchId"`
	UserID     string     `json:"userId"`
	Prediction Prediction `json:"prediction"`
	Points     int        `json:"points"`
	CreatedAt  time.Time  `json:"createdAt"`
	Settled    bool       `json:"settled"`
	Confidence int        `json:"confidence,omitempty"`
}
