package collections

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pokehub/pokedex-backend/pkg/db"
)

// Repository encapsulates collection persistence for both kinds.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a collections repository bound to the provided gorm DB.
func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

type entryRecord struct {
	PokemonID int     `gorm:"column:pokemon_id"`
	Name      string  `gorm:"column:name"`
	Image     string  `gorm:"column:image"`
	Height    float64 `gorm:"column:height"`
	Weight    float64 `gorm:"column:weight"`
	Abilities string  `gorm:"column:abilities"`
	Stats     string  `gorm:"column:stats"`
	Types     string  `gorm:"column:types"`
}

// AddResult reports what the conditional insert did.
type AddResult int

const (
	// AddOK means the entry was inserted.
	AddOK AddResult = iota
	// AddDuplicate means the user already holds the species.
	AddDuplicate
	// AddCapacityReached means the kind's entry cap is already met.
	AddCapacityReached
)

// List returns the user's entries for the kind ordered by insertion time.
func (r *Repository) List(ctx context.Context, kind Kind, userID uuid.UUID) ([]entryRecord, error) {
	var records []entryRecord
	err := r.db.WithContext(ctx).
		Table(kind.table()).
		Select("pokemon_id", "name", "image", "height", "weight", "abilities", "stats", "types").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Count returns how many entries the user holds in the kind.
func (r *Repository) Count(ctx context.Context, kind Kind, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table(kind.table()).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// Add inserts the entry. The unique index on (user_id, pokemon_id) rejects
// duplicates; capped kinds additionally run a count-guarded insert inside a
// transaction that first takes a per-owner advisory lock on Postgres, since
// under READ COMMITTED two racing inserts would otherwise both observe the
// same pre-insert count and overfill the collection.
func (r *Repository) Add(ctx context.Context, kind Kind, userID uuid.UUID, entry entryRecord) (AddResult, error) {
	table := kind.table()
	args := []any{
		uuid.New(), userID, entry.PokemonID, entry.Name, entry.Image,
		entry.Height, entry.Weight, entry.Abilities, entry.Stats, entry.Types,
		time.Now().UTC(),
	}

	limit := kind.Capacity()
	if limit == 0 {
		query := fmt.Sprintf(`INSERT INTO %s (id, user_id, pokemon_id, name, image, height, weight, abilities, stats, types, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, table)
		result := r.db.WithContext(ctx).Exec(query, args...)
		if result.Error != nil {
			if db.IsUniqueViolation(result.Error) {
				return AddDuplicate, nil
			}
			return 0, result.Error
		}
		return AddOK, nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, user_id, pokemon_id, name, image, height, weight, abilities, stats, types, created_at)
SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
WHERE (SELECT COUNT(*) FROM %s WHERE user_id = ?) < ?`, table, table)
	args = append(args, userID, limit)

	outcome := AddOK
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The lock is released at commit/rollback and only serializes adds
		// for the same owner and table. SQLite needs no lock: its writers
		// are serialized by the engine.
		if tx.Dialector.Name() == "postgres" {
			lockErr := tx.Exec(
				"SELECT pg_advisory_xact_lock(hashtext(?), hashtext(?))",
				userID.String(), table,
			).Error
			if lockErr != nil {
				return lockErr
			}
		}

		result := tx.Exec(query, args...)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			outcome = AddCapacityReached
		}
		return nil
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return AddDuplicate, nil
		}
		return 0, err
	}
	return outcome, nil
}

// Remove deletes the user's entry for the species and reports whether a row
// existed.
func (r *Repository) Remove(ctx context.Context, kind Kind, userID uuid.UUID, pokemonID int) (bool, error) {
	result := r.db.WithContext(ctx).
		Exec(fmt.Sprintf("DELETE FROM %s WHERE user_id = ? AND pokemon_id = ?", kind.table()), userID, pokemonID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
