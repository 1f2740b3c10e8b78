package pokedex

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pokehub/pokedex-backend/internal/pokeapi"
	pkgerrors "github.com/pokehub/pokedex-backend/pkg/errors"
	"github.com/pokehub/pokedex-backend/pkg/logger"
)

const defaultFetchConcurrency = 10

// Fetcher is the upstream surface the browsing service depends on.
type Fetcher interface {
	FetchGeneration(ctx context.Context, generation string) ([]pokeapi.Ref, error)
	FetchType(ctx context.Context, typeName string) ([]pokeapi.Ref, error)
	FetchDetail(ctx context.Context, nameOrID string) (*pokeapi.Detail, error)
}

// FilterParams carries the optional selectors. At least one must be set.
type FilterParams struct {
	Generation string
	Type       string
}

// FilterResultDTO is the filter response shape.
type FilterResultDTO struct {
	Results []pokeapi.Summary `json:"results"`
	Count   int               `json:"count"`
}

// ServiceParams groups dependencies for the browsing service.
type ServiceParams struct {
	Fetcher     Fetcher
	Logger      *logger.Logger
	Concurrency int
}

// Service exposes species browsing over the external data source.
type Service interface {
	Filter(ctx context.Context, params FilterParams) (FilterResultDTO, error)
	Detail(ctx context.Context, nameOrID string) (*pokeapi.Detail, error)
}

type service struct {
	fetcher     Fetcher
	logger      *logger.Logger
	concurrency int
}

// NewService builds a browsing service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Fetcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fetcher is required")
	}
	concurrency := params.Concurrency
	if concurrency <= 0 {
		concurrency = defaultFetchConcurrency
	}
	return &service{
		fetcher:     params.Fetcher,
		logger:      params.Logger,
		concurrency: concurrency,
	}, nil
}

// Filter resolves the candidate species for the given selectors, loads their
// details concurrently, and returns card summaries sorted by id. Candidates
// whose detail fetch fails are dropped from the result rather than failing
// the whole request.
func (s *service) Filter(ctx context.Context, params FilterParams) (FilterResultDTO, error) {
	generation := strings.TrimSpace(params.Generation)
	typeName := strings.TrimSpace(params.Type)
	if generation == "" && typeName == "" {
		return FilterResultDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "generation or type filter is required")
	}

	candidates, err := s.resolveCandidates(ctx, generation, typeName)
	if err != nil {
		return FilterResultDTO{}, err
	}

	summaries, err := s.loadSummaries(ctx, candidates)
	if err != nil {
		return FilterResultDTO{}, err
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return FilterResultDTO{Results: summaries, Count: len(summaries)}, nil
}

// Detail loads the full normalized view of a single species.
func (s *service) Detail(ctx context.Context, nameOrID string) (*pokeapi.Detail, error) {
	nameOrID = strings.TrimSpace(nameOrID)
	if nameOrID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pokemon name or id is required")
	}
	return s.fetcher.FetchDetail(ctx, nameOrID)
}

func (s *service) resolveCandidates(ctx context.Context, generation, typeName string) ([]pokeapi.Ref, error) {
	switch {
	case generation != "" && typeName == "":
		return s.fetcher.FetchGeneration(ctx, generation)
	case typeName != "" && generation == "":
		return s.fetcher.FetchType(ctx, typeName)
	}

	genRefs, err := s.fetcher.FetchGeneration(ctx, generation)
	if err != nil {
		return nil, err
	}
	typeRefs, err := s.fetcher.FetchType(ctx, typeName)
	if err != nil {
		return nil, err
	}

	inGeneration := make(map[string]struct{}, len(genRefs))
	for _, ref := range genRefs {
		inGeneration[ref.Name] = struct{}{}
	}
	intersection := make([]pokeapi.Ref, 0, len(typeRefs))
	for _, ref := range typeRefs {
		if _, ok := inGeneration[ref.Name]; ok {
			intersection = append(intersection, ref)
		}
	}
	return intersection, nil
}

func (s *service) loadSummaries(ctx context.Context, candidates []pokeapi.Ref) ([]pokeapi.Summary, error) {
	slots := make([]*pokeapi.Summary, len(candidates))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.concurrency)
	for i, candidate := range candidates {
		i, candidate := i, candidate
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			detail, err := s.fetcher.FetchDetail(groupCtx, candidate.Name)
			if err != nil {
				// Skip candidates whose detail lookup fails so one bad
				// species does not empty the whole page.
				if s.logger != nil {
					s.logger.Warn(s.logger.WithField(groupCtx, "pokemon", candidate.Name), "dropping candidate after failed detail fetch")
				}
				return nil
			}
			summary := detail.Summary()
			slots[i] = &summary
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	summaries := make([]pokeapi.Summary, 0, len(candidates))
	for _, slot := range slots {
		if slot != nil {
			summaries = append(summaries, *slot)
		}
	}
	return summaries, nil
}
