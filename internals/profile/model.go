package profile

import "github.com/kridavyuha/cricket-pools/internals/ledger"

type PoolSummary struct {
	PoolID       string `json:"poolId"`
	Name         string `json:"name"`
	TournamentID int    `json:"tournamentId"`
	Points       int    `json:"points"`
	Rank         int    `json:"rank"`
	Members      int    `json:"members"`
	IsAdmin      bool   `json:"isAdmin"`
}

type CompleteProfile struct {
	User     ledger.User   `json:"user"`
	Accuracy int           `json:"accuracy"`
	Points   int           `json:"points"`
	Pools    []PoolSummary `json:"pools"`
}
