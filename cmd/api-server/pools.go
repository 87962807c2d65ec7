package main

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kridavyuha/cricket-pools/internals/ledger"
)

const (
	minConfidence = 50
	maxConfidence = 100
)

type CreatePoolRequestBody struct {
	Name         string `json:"name"`
	TournamentID int    `json:"tournament_id"`
}

type JoinPoolRequestBody struct {
	InviteCode string `json:"invite_code"`
}

type PlaceBetRequestBody struct {
	MatchID    int               `json:"match_id"`
	Prediction ledger.Prediction `json:"prediction"`
	// 0 means the default confidence.
	Confidence int `json:"confidence"`
}

// sendLedgerError answers for a failed ledger mutation. A persist failure
// leaves the in-memory change in place.
func sendLedgerError(w http.ResponseWriter, err error) {
	if errors.Is(err, ledger.ErrUnauthenticated) {
		sendError(w, http.StatusUnauthorized, err.Error())
		return
	}
	log.Printf("Ledger error: %v", err)
	sendError(w, http.StatusInternalServerError, err.Error())
}

func (app *App) CreatePool(w http.ResponseWriter, r *http.Request) {
	var body CreatePoolRequestBody
	if err := getBody(r, &body); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		sendError(w, http.StatusBadRequest, "name is required")
		return
	}

	pool, err := app.Ledger.CreatePool(r.Context(), body.Name, body.TournamentID, currentUser(r))
	if err != nil {
		sendLedgerError(w, err)
		return
	}

	sendResponse(w, httpResp{Status: http.StatusCreated, Data: pool})
}

func (app *App) JoinPool(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if !app.joinLimiter.Allow(user.ID) {
		sendError(w, http.StatusTooManyRequests, "too many join attempts")
		return
	}

	var body JoinPoolRequestBody
	if err := getBody(r, &body); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	code := strings.ToUpper(strings.TrimSpace(body.InviteCode))
	if code == "" {
		sendError(w, http.StatusBadRequest, "invite_code is required")
		return
	}

	ok, err := app.Ledger.JoinPool(r.Context(), code, user)
	if err != nil {
		sendLedgerError(w, err)
		return
	}
	if !ok {
		sendError(w, http.StatusNotFound, "invalid invite code")
		return
	}

	sendResponse(w, httpResp{Status: http.StatusOK, Data: map[string]interface{}{"message": "Joined pool successfully"}})
}

func (app *App) GetPools(w http.ResponseWriter, r *http.Request) {
	sendResponse(w, httpResp{Status: http.StatusOK, Data: app.Ledger.GetUserPools(currentUser(r).ID)})
}

func (app *App) GetPool(w http.ResponseWriter, r *http.Request) {
	pool, ok := app.Ledger.GetPoolByID(chi.URLParam(r, "poolID"))
	if !ok {
		sendError(w, http.StatusNotFound, "pool not found")
		return
	}
	if !pool.HasMember(currentUser(r).ID) {
		sendError(w, http.StatusForbidden, "not a member of this pool")
		return
	}

	sendResponse(w, httpResp{Status: http.StatusOK, Data: pool})
}

// PlaceBet checks what the ledger would silently ignore so the caller learns
// why a bet was not recorded.
func (app *App) PlaceBet(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var body PlaceBetRequestBody
	if err := getBody(r, &body); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !body.Prediction.Valid() {
		sendError(w, http.StatusBadRequest, "prediction must be one of team1, team2, draw")
		return
	}
	if body.Confidence != 0 && (body.Confidence < minConfidence || body.Confidence > maxConfidence) {
		sendError(w, http.StatusBadRequest, "confidence must be between 50 and 100")
		return
	}

	poolID := chi.URLParam(r, "poolID")
	pool, ok := app.Ledger.GetPoolByID(poolID)
	if !ok {
		sendError(w, http.StatusNotFound, "pool not found")
		return
	}
	if !pool.HasMember(user.ID) {
		sendError(w, http.StatusForbidden, "not a member of this pool")
		return
	}
	match, ok := app.Ledger.GetMatchByID(body.MatchID)
	if !ok {
		sendError(w, http.StatusNotFound, "match not found")
		return
	}
	if match.Status != ledger.MatchUpcoming {
		sendError(w, http.StatusConflict, "betting is closed for this match")
		return
	}

	if err := app.Ledger.PlaceBet(r.Context(), poolID, body.MatchID, body.Prediction, body.Confidence, user); err != nil {
		sendLedgerError(w, err)
		return
	}

	sendResponse(w, httpResp{Status: http.StatusCreated, Data: map[string]interface{}{"message": "Bet placed successfully"}})
}
