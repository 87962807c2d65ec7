package main

import (
	"errors"
	"net/http"

	"github.com/kridavyuha/cricket-pools/internals/profile"
)

func (app *App) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := app.Profile.GetProfile(currentUser(r).ID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			sendError(w, http.StatusNotFound, err.Error())
			return
		}
		sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sendResponse(w, httpResp{Status: http.StatusOK, Data: p})
}
