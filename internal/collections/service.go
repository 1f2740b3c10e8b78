package collections

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pokehub/pokedex-backend/internal/users"
	pkgerrors "github.com/pokehub/pokedex-backend/pkg/errors"
)

// ServiceParams groups dependencies for the collections service.
type ServiceParams struct {
	Repo     *Repository
	UserRepo *users.Repository
}

// Service exposes business rules for the per-user collections.
type Service interface {
	List(ctx context.Context, kind Kind, userID uuid.UUID) ([]EntryDTO, error)
	Add(ctx context.Context, kind Kind, userID uuid.UUID, dto AddEntryDTO) (string, error)
	Remove(ctx context.Context, kind Kind, userID uuid.UUID, pokemonID int) (string, error)
}

type service struct {
	repo     *Repository
	userRepo *users.Repository
}

// NewService builds a collections service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "collections repo is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	return &service{repo: params.Repo, userRepo: params.UserRepo}, nil
}

// List returns the user's saved entries in insertion order.
func (s *service) List(ctx context.Context, kind Kind, userID uuid.UUID) ([]EntryDTO, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	records, err := s.repo.List(ctx, kind, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing collection entries")
	}
	entries := make([]EntryDTO, 0, len(records))
	for _, record := range records {
		entries = append(entries, record.toDTO())
	}
	return entries, nil
}

// Add stores the submitted snapshot, rejecting duplicates and, for the team,
// additions past the roster cap.
func (s *service) Add(ctx context.Context, kind Kind, userID uuid.UUID, dto AddEntryDTO) (string, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return "", err
	}

	entry := dto.normalized()
	if entry.PokemonID <= 0 || entry.Name == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "pokemon name and id are required")
	}
	if err := validateJSONPayloads(entry); err != nil {
		return "", err
	}

	result, err := s.repo.Add(ctx, kind, userID, entryRecord{
		PokemonID: entry.PokemonID,
		Name:      entry.Name,
		Image:     entry.SpriteURL,
		Height:    entry.Height,
		Weight:    entry.Weight,
		Abilities: string(entry.Abilities),
		Stats:     string(entry.Stats),
		Types:     string(entry.Types),
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving collection entry")
	}

	switch result {
	case AddDuplicate:
		return "", pkgerrors.New(pkgerrors.CodeDuplicate, fmt.Sprintf("%s is already in your %s", entry.Name, kind.Label()))
	case AddCapacityReached:
		return "", pkgerrors.New(pkgerrors.CodeCapacity, fmt.Sprintf("your %s already has %d pokemon", kind.Label(), kind.Capacity()))
	}
	return fmt.Sprintf("%s added to your %s!", entry.Name, kind.Label()), nil
}

// Remove drops the user's entry for the species if present.
func (s *service) Remove(ctx context.Context, kind Kind, userID uuid.UUID, pokemonID int) (string, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return "", err
	}
	if pokemonID <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "pokemon id is required")
	}

	removed, err := s.repo.Remove(ctx, kind, userID, pokemonID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing collection entry")
	}
	if !removed {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("pokemon not found in your %s", kind.Label()))
	}
	return fmt.Sprintf("Pokemon removed from your %s!", kind.Label()), nil
}

func (s *service) ensureUser(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	return nil
}

func validateJSONPayloads(entry AddEntryDTO) error {
	for name, payload := range map[string]json.RawMessage{
		"abilities": entry.Abilities,
		"stats":     entry.Stats,
		"types":     entry.Types,
	} {
		if !json.Valid(payload) {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s payload is not valid JSON", name))
		}
	}
	return nil
}

func (r entryRecord) toDTO() EntryDTO {
	return EntryDTO{
		ID:        r.PokemonID,
		Name:      r.Name,
		SpriteURL: r.Image,
		Height:    r.Height,
		Weight:    r.Weight,
		Abilities: rawOrDefault(r.Abilities, "[]"),
		Stats:     rawOrDefault(r.Stats, "{}"),
		Types:     rawOrDefault(r.Types, "[]"),
	}
}

func rawOrDefault(stored, fallback string) json.RawMessage {
	if stored == "" {
		return json.RawMessage(fallback)
	}
	return json.RawMessage(stored)
}
