package pokedex

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pokehub/pokedex-backend/internal/pokeapi"
	pkgerrors "github.com/pokehub/pokedex-backend/pkg/errors"
)

type stubFetcher struct {
	mu           sync.Mutex
	generations  map[string][]pokeapi.Ref
	types        map[string][]pokeapi.Ref
	details      map[string]*pokeapi.Detail
	detailErrs   map[string]error
	listErr      error
	inFlight     int64
	maxInFlight  int64
	detailCalled []string
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		generations: map[string][]pokeapi.Ref{},
		types:       map[string][]pokeapi.Ref{},
		details:     map[string]*pokeapi.Detail{},
		detailErrs:  map[string]error{},
	}
}

func (f *stubFetcher) FetchGeneration(ctx context.Context, generation string) ([]pokeapi.Ref, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.generations[generation], nil
}

func (f *stubFetcher) FetchType(ctx context.Context, typeName string) ([]pokeapi.Ref, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.types[typeName], nil
}

func (f *stubFetcher) FetchDetail(ctx context.Context, nameOrID string) (*pokeapi.Detail, error) {
	current := atomic.AddInt64(&f.inFlight, 1)
	defer atomic.AddInt64(&f.inFlight, -1)
	for {
		max := atomic.LoadInt64(&f.maxInFlight)
		if current <= max || atomic.CompareAndSwapInt64(&f.maxInFlight, max, current) {
			break
		}
	}

	f.mu.Lock()
	f.detailCalled = append(f.detailCalled, nameOrID)
	f.mu.Unlock()

	if err, ok := f.detailErrs[nameOrID]; ok {
		return nil, err
	}
	detail, ok := f.details[nameOrID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUpstreamNotFound, "species not found")
	}
	return detail, nil
}

func addSpecies(f *stubFetcher, id int, name string, types ...string) {
	f.details[name] = &pokeapi.Detail{
		ID:        id,
		Name:      name,
		Types:     types,
		SpriteURL: "https://img.example/" + name + ".png",
	}
}

func newTestService(t *testing.T, fetcher Fetcher, concurrency int) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Fetcher: fetcher, Concurrency: concurrency})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestFilterRequiresSelector(t *testing.T) {
	svc := newTestService(t, newStubFetcher(), 0)

	_, err := svc.Filter(context.Background(), FilterParams{})
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFilterByGenerationSortsByID(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.generations["1"] = []pokeapi.Ref{{Name: "charmander"}, {Name: "bulbasaur"}, {Name: "squirtle"}}
	addSpecies(fetcher, 4, "Charmander", "Fire")
	fetcher.details["charmander"] = fetcher.details["Charmander"]
	addSpecies(fetcher, 1, "Bulbasaur", "Grass", "Poison")
	fetcher.details["bulbasaur"] = fetcher.details["Bulbasaur"]
	addSpecies(fetcher, 7, "Squirtle", "Water")
	fetcher.details["squirtle"] = fetcher.details["Squirtle"]

	svc := newTestService(t, fetcher, 0)
	result, err := svc.Filter(context.Background(), FilterParams{Generation: "1"})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if result.Count != 3 {
		t.Fatalf("expected 3 results, got %d", result.Count)
	}
	ids := []int{result.Results[0].ID, result.Results[1].ID, result.Results[2].ID}
	if ids[0] != 1 || ids[1] != 4 || ids[2] != 7 {
		t.Fatalf("expected ascending ids, got %v", ids)
	}
}

func TestFilterByGenerationAndTypeIntersects(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.generations["1"] = []pokeapi.Ref{{Name: "bulbasaur"}, {Name: "charmander"}}
	fetcher.types["fire"] = []pokeapi.Ref{{Name: "charmander"}, {Name: "cyndaquil"}}
	addSpecies(fetcher, 4, "Charmander", "Fire")
	fetcher.details["charmander"] = fetcher.details["Charmander"]
	addSpecies(fetcher, 155, "Cyndaquil", "Fire")
	fetcher.details["cyndaquil"] = fetcher.details["Cyndaquil"]

	svc := newTestService(t, fetcher, 0)
	result, err := svc.Filter(context.Background(), FilterParams{Generation: "1", Type: "fire"})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if result.Count != 1 {
		t.Fatalf("expected intersection of 1, got %d", result.Count)
	}
	if result.Results[0].Name != "Charmander" {
		t.Fatalf("unexpected result %v", result.Results)
	}
}

func TestFilterDropsFailedDetailFetches(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.types["fire"] = []pokeapi.Ref{{Name: "charmander"}, {Name: "vulpix"}, {Name: "growlithe"}}
	addSpecies(fetcher, 4, "Charmander", "Fire")
	fetcher.details["charmander"] = fetcher.details["Charmander"]
	addSpecies(fetcher, 58, "Growlithe", "Fire")
	fetcher.details["growlithe"] = fetcher.details["Growlithe"]
	fetcher.detailErrs["vulpix"] = pkgerrors.New(pkgerrors.CodeUpstreamUnavailable, "species service unreachable")

	svc := newTestService(t, fetcher, 0)
	result, err := svc.Filter(context.Background(), FilterParams{Type: "fire"})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if result.Count != 2 {
		t.Fatalf("expected 2 surviving results, got %d", result.Count)
	}
	for _, summary := range result.Results {
		if summary.Name == "Vulpix" {
			t.Fatal("failed candidate should have been dropped")
		}
	}
}

func TestFilterPropagatesListingError(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.listErr = pkgerrors.New(pkgerrors.CodeUpstreamUnavailable, "species service unreachable")

	svc := newTestService(t, fetcher, 0)
	_, err := svc.Filter(context.Background(), FilterParams{Generation: "1"})
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUpstreamUnavailable {
		t.Fatalf("expected upstream unavailable, got %v", err)
	}
}

func TestFilterBoundsDetailConcurrency(t *testing.T) {
	fetcher := newStubFetcher()
	var refs []pokeapi.Ref
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		refs = append(refs, pokeapi.Ref{Name: name})
		addSpecies(fetcher, len(refs), name)
	}
	fetcher.types["normal"] = refs

	svc := newTestService(t, fetcher, 2)
	if _, err := svc.Filter(context.Background(), FilterParams{Type: "normal"}); err != nil {
		t.Fatalf("filter: %v", err)
	}
	if max := atomic.LoadInt64(&fetcher.maxInFlight); max > 2 {
		t.Fatalf("expected at most 2 concurrent detail fetches, saw %d", max)
	}
}

func TestDetailRequiresIdentifier(t *testing.T) {
	svc := newTestService(t, newStubFetcher(), 0)
	_, err := svc.Detail(context.Background(), "  ")
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDetailPassesThrough(t *testing.T) {
	fetcher := newStubFetcher()
	addSpecies(fetcher, 25, "Pikachu", "Electric")
	fetcher.details["pikachu"] = fetcher.details["Pikachu"]

	svc := newTestService(t, fetcher, 0)
	detail, err := svc.Detail(context.Background(), "pikachu")
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.ID != 25 || detail.Name != "Pikachu" {
		t.Fatalf("unexpected detail %+v", detail)
	}
}
