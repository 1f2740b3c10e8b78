package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/pokehub/pokedex-backend/pkg/config"
	pkgerrors "github.com/pokehub/pokedex-backend/pkg/errors"
	"github.com/pokehub/pokedex-backend/pkg/logger"
	"github.com/pokehub/pokedex-backend/pkg/metrics"
)

var errLoggerRequired = errors.New("pokeapi logger is required")

const (
	endpointGeneration = "generation"
	endpointType       = "type"
	endpointPokemon    = "pokemon_detail"
)

// Client talks to the public species API with centralized timeout handling,
// logging, metrics, and error mapping. Failed calls are never retried.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logger.Logger
	metrics    *metrics.UpstreamMetrics
}

// NewClient initializes the upstream wrapper and validates the configuration.
func NewClient(cfg config.PokeAPIConfig, logg *logger.Logger, m *metrics.UpstreamMetrics) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("pokeapi base url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logg,
		metrics:    m,
	}, nil
}

// FetchGeneration lists the species introduced in the given generation.
func (c *Client) FetchGeneration(ctx context.Context, generation string) ([]Ref, error) {
	var payload generationPayload
	url := fmt.Sprintf("%s/generation/%s", c.baseURL, strings.ToLower(strings.TrimSpace(generation)))
	if err := c.get(ctx, endpointGeneration, url, &payload); err != nil {
		return nil, err
	}
	refs := make([]Ref, 0, len(payload.PokemonSpecies))
	for _, species := range payload.PokemonSpecies {
		refs = append(refs, Ref{Name: species.Name})
	}
	return refs, nil
}

// FetchType lists the species belonging to the given elemental type.
func (c *Client) FetchType(ctx context.Context, typeName string) ([]Ref, error) {
	var payload typePayload
	url := fmt.Sprintf("%s/type/%s", c.baseURL, strings.ToLower(strings.TrimSpace(typeName)))
	if err := c.get(ctx, endpointType, url, &payload); err != nil {
		return nil, err
	}
	refs := make([]Ref, 0, len(payload.Pokemon))
	for _, entry := range payload.Pokemon {
		refs = append(refs, Ref{Name: entry.Pokemon.Name})
	}
	return refs, nil
}

// FetchDetail loads and normalizes a single species by name or numeric id.
func (c *Client) FetchDetail(ctx context.Context, nameOrID string) (*Detail, error) {
	var payload pokemonPayload
	url := fmt.Sprintf("%s/pokemon/%s", c.baseURL, strings.ToLower(strings.TrimSpace(nameOrID)))
	if err := c.get(ctx, endpointPokemon, url, &payload); err != nil {
		return nil, err
	}
	return normalizeDetail(payload), nil
}

func normalizeDetail(payload pokemonPayload) *Detail {
	types := make([]string, 0, len(payload.Types))
	for _, t := range payload.Types {
		types = append(types, capitalize(t.Type.Name))
	}
	abilities := make([]Ability, 0, len(payload.Abilities))
	for _, a := range payload.Abilities {
		abilities = append(abilities, Ability{Name: a.Ability.Name, IsHidden: a.IsHidden})
	}
	stats := make(map[string]int, len(payload.Stats))
	for _, s := range payload.Stats {
		stats[s.Stat.Name] = s.BaseStat
	}
	return &Detail{
		ID:        payload.ID,
		Name:      capitalize(payload.Name),
		Types:     types,
		Height:    float64(payload.Height) / 10,
		Weight:    float64(payload.Weight) / 10,
		SpriteURL: payload.Sprites.FrontDefault,
		Abilities: abilities,
		Stats:     stats,
	}
}

func (c *Client) get(ctx context.Context, endpoint, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building upstream request")
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveDuration(endpoint, time.Since(started))
	if err != nil {
		c.metrics.IncFailure(endpoint, failureReason(err))
		c.logger.Warn(c.logger.WithFields(ctx, map[string]any{
			"endpoint": endpoint,
			"error":    err.Error(),
		}), "upstream request failed")
		return pkgerrors.Wrap(pkgerrors.CodeUpstreamUnavailable, err, "species service unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		c.metrics.IncFailure(endpoint, "not_found")
		return pkgerrors.New(pkgerrors.CodeUpstreamNotFound, "species not found")
	default:
		c.metrics.IncFailure(endpoint, fmt.Sprintf("status_%d", resp.StatusCode))
		c.logger.Warn(c.logger.WithFields(ctx, map[string]any{
			"endpoint": endpoint,
			"status":   resp.StatusCode,
		}), "upstream returned unexpected status")
		return pkgerrors.New(pkgerrors.CodeUpstreamUnavailable, "species service returned an error")
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.IncFailure(endpoint, "decode")
		return pkgerrors.Wrap(pkgerrors.CodeUpstreamUnavailable, err, "decoding species payload")
	}
	return nil
}

func failureReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	return "network"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
