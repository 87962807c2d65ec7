package main

import (
	"net/http"
	"strconv"

	"github.com/kridavyuha/cricket-pools/internals/pricing"
)

func (app *App) GetPricing(w http.ResponseWriter, r *http.Request) {
	entries, err := strconv.Atoi(r.URL.Query().Get("entries"))
	if err != nil {
		sendError(w, http.StatusBadRequest, "entries must be a number")
		return
	}

	quote, err := pricing.Calculate(entries)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	sendResponse(w, httpResp{Status: http.StatusOK, Data: quote})
}
