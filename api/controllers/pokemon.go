package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pokehub/pokedex-backend/api/responses"
	"github.com/pokehub/pokedex-backend/internal/pokedex"
	pkgerrors "github.com/pokehub/pokedex-backend/pkg/errors"
	"github.com/pokehub/pokedex-backend/pkg/logger"
)

// PokemonFilter lists species summaries matching the generation and type
// query parameters.
func PokemonFilter(svc pokedex.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pokedex service unavailable"))
			return
		}

		params := pokedex.FilterParams{
			Generation: strings.TrimSpace(r.URL.Query().Get("generation")),
			Type:       strings.TrimSpace(r.URL.Query().Get("type")),
		}

		result, err := svc.Filter(ctx, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// PokemonSearch returns the full detail for a species name or numeric id.
func PokemonSearch(svc pokedex.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pokedex service unavailable"))
			return
		}

		identifier := strings.TrimSpace(chi.URLParam(r, "name_or_id"))
		detail, err := svc.Detail(ctx, identifier)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}
