package main

import (
	"net/http"
	"strconv"

	"github.com/kridavyuha/cricket-pools/internals/ledger"
	"github.com/kridavyuha/cricket-pools/internals/results"
)

func (app *App) GetTournaments(w http.ResponseWriter, r *http.Request) {
	sendResponse(w, httpResp{Status: http.StatusOK, Data: app.Ledger.Tournaments()})
}

func (app *App) GetMatches(w http.ResponseWriter, r *http.Request) {
	tournamentID := 0
	if raw := r.URL.Query().Get("tournament_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			sendError(w, http.StatusBadRequest, "tournament_id must be a number")
			return
		}
		tournamentID = id
	}

	sendResponse(w, httpResp{Status: http.StatusOK, Data: app.Ledger.Matches(tournamentID)})
}

// RecordMatchResult applies the status and result in the body to the cached
// match. Team and tournament ids, when sent, must agree with the cache.
func (app *App) RecordMatchResult(w http.ResponseWriter, r *http.Request) {
	matchID, err := intParam(r, "matchID")
	if err != nil {
		sendError(w, http.StatusBadRequest, "match id must be a number")
		return
	}

	var event ledger.Match
	if err := getBody(r, &event); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	event.ID = matchID

	cached, ok := app.Ledger.GetMatchByID(matchID)
	if !ok {
		sendError(w, http.StatusNotFound, "match not found")
		return
	}
	if !app.canRecordResult(r, cached) {
		sendError(w, http.StatusForbidden, "admin only")
		return
	}

	match, err := results.Apply(*cached, event)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := app.Ledger.UpdateMatchResults(r.Context(), match); err != nil {
		sendLedgerError(w, err)
		return
	}

	sendResponse(w, httpResp{Status: http.StatusOK, Data: map[string]interface{}{"message": "Match result recorded"}})
}
