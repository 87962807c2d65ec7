package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (app *App) HandleGetNotifications(w http.ResponseWriter, r *http.Request) {
	userID := currentUser(r).ID

	sendResponse(w, httpResp{Status: http.StatusOK, Data: map[string]interface{}{
		"notifications": app.Ledger.Notifications(userID),
		"unread":        app.Ledger.UnreadNotifications(userID),
	}})
}

// HandleMarkNotificationRead only touches notifications owned by the caller.
func (app *App) HandleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "notificationID")

	owned := false
	for _, n := range app.Ledger.Notifications(currentUser(r).ID) {
		if n.ID == id {
			owned = true
			break
		}
	}
	if !owned {
		sendError(w, http.StatusNotFound, "notification not found")
		return
	}

	if err := app.Ledger.MarkNotificationAsRead(r.Context(), id); err != nil {
		sendLedgerError(w, err)
		return
	}
	sendResponse(w, httpResp{Status: http.StatusOK, Data: map[string]interface{}{"message": "Notification marked as read"}})
}

func (app *App) HandleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if err := app.Ledger.MarkAllNotificationsAsRead(r.Context(), currentUser(r).ID); err != nil {
		sendLedgerError(w, err)
		return
	}
	sendResponse(w, httpResp{Status: http.StatusOK, Data: map[string]interface{}{"message": "Notification status of this user updated successfully"}})
}
