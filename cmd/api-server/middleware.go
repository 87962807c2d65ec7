package main

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/kridavyuha/cricket-pools/internals/ledger"
	"golang.org/x/time/rate"
)

type ctxKey string

const (
	userKey  ctxKey = "user"
	tokenKey ctxKey = "token"
)

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	return ""
}

// Middleware function
func (app *App) Middleware(next http.Handler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			sendError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		// Validates the token and checks the whitelist
		userID, err := app.Auth.Authenticate(r.Context(), token)
		if err != nil {
			sendError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user, ok := app.Ledger.GetUser(userID)
		if !ok {
			sendError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if err := app.Ledger.Touch(r.Context(), userID); err != nil {
			log.Printf("Error recording activity for %s: %v", userID, err)
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		ctx = context.WithValue(ctx, tokenKey, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// canRecordResult lets site admins record any result. The admin of a pool on
// the match's tournament may settle it once it is live.
func (app *App) canRecordResult(r *http.Request, match *ledger.Match) bool {
	user := currentUser(r)
	if user.IsAdmin {
		return true
	}
	if match.Status != ledger.MatchLive {
		return false
	}
	for _, pool := range app.Ledger.GetUserPools(user.ID) {
		if pool.AdminID == user.ID && pool.TournamentID == match.TournamentID {
			return true
		}
	}
	return false
}

func currentUser(r *http.Request) *ledger.User {
	return r.Context().Value(userKey).(*ledger.User)
}

func currentToken(r *http.Request) string {
	return r.Context().Value(tokenKey).(string)
}

// userLimiter hands out one token bucket per user.
type userLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

func newUserLimiter(perMinute int) *userLimiter {
	if perMinute <= 0 {
		return &userLimiter{limit: rate.Inf, limiters: make(map[string]*rate.Limiter)}
	}
	return &userLimiter{
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (u *userLimiter) Allow(userID string) bool {
	u.mu.Lock()
	l, ok := u.limiters[userID]
	if !ok {
		l = rate.NewLimiter(u.limit, u.burst)
		u.limiters[userID] = l
	}
	u.mu.Unlock()
	return l.Allow()
}
