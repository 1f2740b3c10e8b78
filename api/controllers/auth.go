package controllers

import (
	"net/http"

	"github.com/pokehub/pokedex-backend/api/middleware"
	"github.com/pokehub/pokedex-backend/api/responses"
	"github.com/pokehub/pokedex-backend/api/validators"
	"github.com/pokehub/pokedex-backend/internal/auth"
	pkgerrors "github.com/pokehub/pokedex-backend/pkg/errors"
	"github.com/pokehub/pokedex-backend/pkg/logger"
)

// maxNameLength caps free-text identity fields before they reach storage.
const maxNameLength = 120

// Register creates a new account from the submitted credentials.
func Register(svc auth.RegisterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "register service unavailable"))
			return
		}

		var req auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		req.Name = validators.SanitizeString(req.Name, maxNameLength)
		req.Nickname = validators.SanitizeString(req.Nickname, maxNameLength)

		if err := svc.Register(ctx, req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteMessage(w, http.StatusCreated, "User registered successfully!")
	}
}

// Login verifies credentials and issues an access token.
func Login(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var req auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		resp, err := svc.Login(ctx, req)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, resp)
	}
}

// Logout revokes the session tied to the presented token.
func Logout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		if err := svc.Logout(ctx, middleware.JTIFromContext(ctx)); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteMessage(w, http.StatusOK, "Logged out successfully!")
	}
}
