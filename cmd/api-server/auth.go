package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/kridavyuha/cricket-pools/internals/auth"
)

func (app *App) Login(w http.ResponseWriter, r *http.Request) {
	var loginDetails auth.LoginRequestBody
	if err := getBody(r, &loginDetails); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, user, err := app.Auth.Login(r.Context(), loginDetails)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			sendError(w, http.StatusUnauthorized, err.Error())
			return
		}
		log.Printf("Login failed: %v", err)
		sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sendResponse(w, httpResp{Status: http.StatusOK, Data: map[string]interface{}{"token": token, "user": user, "message": "Logged in successfully"}})
}

func (app *App) SignUp(w http.ResponseWriter, r *http.Request) {
	var signupDetails auth.SignUpRequestBody
	if err := getBody(r, &signupDetails); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := app.Auth.SignUp(r.Context(), signupDetails)
	switch {
	case errors.Is(err, auth.ErrUserExists):
		sendError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, auth.ErrInvalidSignUp):
		sendError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Printf("Sign up failed: %v", err)
		sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sendResponse(w, httpResp{Status: http.StatusCreated, Data: map[string]interface{}{"user": user, "message": "User created successfully"}})
}

func (app *App) Logout(w http.ResponseWriter, r *http.Request) {
	if err := app.Auth.Logout(r.Context(), currentUser(r).ID, currentToken(r)); err != nil {
		sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sendResponse(w, httpResp{Status: http.StatusOK, Data: map[string]interface{}{"message": "Logged out successfully"}})
}
