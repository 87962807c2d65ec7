package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *App) initHandlers() {
	app.R.Get("/ws", app.handleWebSocket)

	app.R.Post("/auth/login", app.Login)
	app.R.Post("/auth/signup", app.SignUp)
	app.R.Post("/auth/logout", app.Middleware(http.HandlerFunc(app.Logout)))

	app.R.Post("/pools", app.Middleware(http.HandlerFunc(app.CreatePool)))
	app.R.Post("/pools/join", app.Middleware(http.HandlerFunc(app.JoinPool)))
	app.R.Get("/pools", app.Middleware(http.HandlerFunc(app.GetPools)))
	app.R.Get("/pools/{poolID}", app.Middleware(http.HandlerFunc(app.GetPool)))
	app.R.Post("/pools/{poolID}/bets", app.Middleware(http.HandlerFunc(app.PlaceBet)))

	app.R.Get("/tournaments", app.GetTournaments)
	app.R.Get("/matches", app.GetMatches)
	app.R.Post("/matches/{matchID}/result", app.Middleware(http.HandlerFunc(app.RecordMatchResult)))

	app.R.Get("/leaderboard", app.Middleware(http.HandlerFunc(app.GetLeaderboard)))
	app.R.Get("/leaderboard/pools/{poolID}", app.Middleware(http.HandlerFunc(app.GetPoolLeaderboard)))
	app.R.Get("/leaderboard/tournaments/{tournamentID}", app.Middleware(http.HandlerFunc(app.GetTournamentLeaderboard)))

	app.R.Get("/notifications", app.Middleware(http.HandlerFunc(app.HandleGetNotifications)))
	app.R.Post("/notifications/read", app.Middleware(http.HandlerFunc(app.HandleMarkAllNotificationsRead)))
	app.R.Post("/notifications/{notificationID}/read", app.Middleware(http.HandlerFunc(app.HandleMarkNotificationRead)))

	app.R.Get("/profile", app.Middleware(http.HandlerFunc(app.GetProfile)))
	app.R.Get("/pricing", app.GetPricing)

	app.R.Handle("/metrics", promhttp.HandlerFor(app.Metrics.Registry(), promhttp.HandlerOpts{}))
	app.R.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("I am Healthy"))
	})
}
