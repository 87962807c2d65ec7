package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (app *App) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	sendResponse(w, httpResp{Status: http.StatusOK, Data: app.Leaderboard.GetGlobal()})
}

func (app *App) GetPoolLeaderboard(w http.ResponseWriter, r *http.Request) {
	poolID := chi.URLParam(r, "poolID")
	pool, ok := app.Ledger.GetPoolByID(poolID)
	if !ok {
		sendError(w, http.StatusNotFound, "pool not found")
		return
	}
	if !pool.HasMember(currentUser(r).ID) {
		sendError(w, http.StatusForbidden, "not a member of this pool")
		return
	}

	rows, ok := app.Leaderboard.GetPool(poolID)
	if !ok {
		sendError(w, http.StatusNotFound, "pool not found")
		return
	}
	sendResponse(w, httpResp{Status: http.StatusOK, Data: rows})
}

func (app *App) GetTournamentLeaderboard(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := intParam(r, "tournamentID")
	if err != nil {
		sendError(w, http.StatusBadRequest, "tournament id must be a number")
		return
	}
	sendResponse(w, httpResp{Status: http.StatusOK, Data: app.Leaderboard.GetTournament(tournamentID)})
}
