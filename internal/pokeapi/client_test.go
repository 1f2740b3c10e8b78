package pokeapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pokehub/pokedex-backend/pkg/config"
	pkgerrors "github.com/pokehub/pokedex-backend/pkg/errors"
	"github.com/pokehub/pokedex-backend/pkg/logger"
)

func newTestClient(t *testing.T, handler http.Handler, timeout time.Duration) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.PokeAPIConfig{
		BaseURL: server.URL,
		Timeout: timeout,
	}, logger.New(logger.Options{Output: io.Discard}), nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, server
}

const pikachuPayload = `{
	"id": 25,
	"name": "pikachu",
	"height": 4,
	"weight": 60,
	"sprites": {"front_default": "https://img.example/pikachu.png"},
	"types": [{"type": {"name": "electric"}}],
	"abilities": [
		{"is_hidden": false, "ability": {"name": "static"}},
		{"is_hidden": true, "ability": {"name": "lightning-rod"}}
	],
	"stats": [
		{"base_stat": 35, "stat": {"name": "hp"}},
		{"base_stat": 90, "stat": {"name": "speed"}}
	]
}`

func TestFetchDetailNormalizes(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pokemon/pikachu" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(pikachuPayload))
	}), time.Second)

	detail, err := client.FetchDetail(context.Background(), "Pikachu")
	if err != nil {
		t.Fatalf("fetch detail: %v", err)
	}

	if detail.ID != 25 {
		t.Fatalf("expected id 25, got %d", detail.ID)
	}
	if detail.Name != "Pikachu" {
		t.Fatalf("expected capitalized name, got %q", detail.Name)
	}
	if len(detail.Types) != 1 || detail.Types[0] != "Electric" {
		t.Fatalf("expected capitalized types, got %v", detail.Types)
	}
	if detail.Height != 0.4 {
		t.Fatalf("expected height in meters, got %f", detail.Height)
	}
	if detail.Weight != 6.0 {
		t.Fatalf("expected weight in kilograms, got %f", detail.Weight)
	}
	if detail.SpriteURL != "https://img.example/pikachu.png" {
		t.Fatalf("unexpected sprite %q", detail.SpriteURL)
	}
	if len(detail.Abilities) != 2 || !detail.Abilities[1].IsHidden {
		t.Fatalf("unexpected abilities %v", detail.Abilities)
	}
	if detail.Stats["speed"] != 90 {
		t.Fatalf("unexpected stats %v", detail.Stats)
	}
}

func TestFetchDetailNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}), time.Second)

	_, err := client.FetchDetail(context.Background(), "missingno")
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUpstreamNotFound {
		t.Fatalf("expected upstream not found, got %v", err)
	}
}

func TestFetchDetailServerError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}), time.Second)

	_, err := client.FetchDetail(context.Background(), "pikachu")
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUpstreamUnavailable {
		t.Fatalf("expected upstream unavailable, got %v", err)
	}
}

func TestFetchDetailTimeout(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(pikachuPayload))
	}), 20*time.Millisecond)

	_, err := client.FetchDetail(context.Background(), "pikachu")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUpstreamUnavailable {
		t.Fatalf("expected upstream unavailable, got %v", err)
	}
}

func TestFetchGeneration(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generation/1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"pokemon_species": [
			{"name": "bulbasaur", "url": "https://api.example/pokemon-species/1/"},
			{"name": "charmander", "url": "https://api.example/pokemon-species/4/"}
		]}`))
	}), time.Second)

	refs, err := client.FetchGeneration(context.Background(), "1")
	if err != nil {
		t.Fatalf("fetch generation: %v", err)
	}
	if len(refs) != 2 || refs[0].Name != "bulbasaur" || refs[1].Name != "charmander" {
		t.Fatalf("unexpected refs %v", refs)
	}
}

func TestFetchType(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/type/fire" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"pokemon": [
			{"pokemon": {"name": "charmander", "url": "https://api.example/pokemon/4/"}}
		]}`))
	}), time.Second)

	refs, err := client.FetchType(context.Background(), "Fire")
	if err != nil {
		t.Fatalf("fetch type: %v", err)
	}
	if len(refs) != 1 || refs[0].Name != "charmander" {
		t.Fatalf("unexpected refs %v", refs)
	}
}
