package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pokehub/pokedex-backend/api/controllers"
	"github.com/pokehub/pokedex-backend/api/middleware"
	"github.com/pokehub/pokedex-backend/internal/auth"
	"github.com/pokehub/pokedex-backend/internal/collections"
	"github.com/pokehub/pokedex-backend/internal/pokedex"
	"github.com/pokehub/pokedex-backend/internal/users"
	"github.com/pokehub/pokedex-backend/pkg/auth/session"
	"github.com/pokehub/pokedex-backend/pkg/config"
	dbpkg "github.com/pokehub/pokedex-backend/pkg/db"
	"github.com/pokehub/pokedex-backend/pkg/logger"
	redisclient "github.com/pokehub/pokedex-backend/pkg/redis"
)

// NewRouter assembles the HTTP surface: public auth and pokedex lookups plus
// the token-guarded profile, collection, and admin routes.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database *dbpkg.Client,
	redisClient *redisclient.Client,
	sessions session.Checker,
	authService auth.Service,
	registerService auth.RegisterService,
	usersService users.Service,
	pokedexService pokedex.Service,
	collectionsService collections.Service,
	registry *prometheus.Registry,
) http.Handler {
	var dbPing, cachePing controllers.Pinger
	if database != nil {
		dbPing = database
	}
	var limiter middleware.RateLimiterStore
	if redisClient != nil {
		cachePing = redisClient
		limiter = redisClient
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Get("/health", controllers.Health())
	r.Get("/health/live", controllers.Health())
	r.Get("/health/ready", controllers.HealthReady(dbPing, cachePing, logg))

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.With(middleware.AuthRateLimit(registerPolicy, limiter, logg)).
		Post("/register", controllers.Register(registerService, logg))
	r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).
		Post("/login", controllers.Login(authService, logg))

	r.Route("/pokemon", func(r chi.Router) {
		r.Get("/filter", controllers.PokemonFilter(pokedexService, logg))
		r.Get("/search/{name_or_id}", controllers.PokemonSearch(pokedexService, logg))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Post("/logout", controllers.Logout(authService, logg))

		r.Route("/api", func(r chi.Router) {
			r.Route("/profile", func(r chi.Router) {
				r.Get("/", controllers.ProfileGet(usersService, logg))
				r.Put("/", controllers.ProfileUpdate(usersService, logg))
			})

			r.With(middleware.RequireAdmin(logg)).
				Get("/users", controllers.UsersList(usersService, logg))

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", controllers.CollectionList(collectionsService, collections.KindFavorites, logg))
				r.Post("/", controllers.CollectionAdd(collectionsService, collections.KindFavorites, logg))
				r.Delete("/{pokemon_id}", controllers.CollectionRemove(collectionsService, collections.KindFavorites, logg))
			})

			r.Route("/equipe", func(r chi.Router) {
				r.Get("/", controllers.CollectionList(collectionsService, collections.KindTeam, logg))
				r.Post("/", controllers.CollectionAdd(collectionsService, collections.KindTeam, logg))
				r.Delete("/{pokemon_id}", controllers.CollectionRemove(collectionsService, collections.KindTeam, logg))
			})
		})
	})

	return r
}
