package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FavoriteEntry links a user to a saved species. The ability, stat, and type
// payloads are stored as JSON text snapshots taken at save time. Entries are
// dropped with their owner through the cascading foreign key.
type FavoriteEntry struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:favorite_entries_user_id_idx;uniqueIndex:favorite_entries_user_pokemon_key"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	PokemonID int       `gorm:"column:pokemon_id;not null;uniqueIndex:favorite_entries_user_pokemon_key"`
	Name      string    `gorm:"column:name;not null"`
	Image     string    `gorm:"column:image;not null"`
	Height    float64   `gorm:"column:height;not null"`
	Weight    float64   `gorm:"column:weight;not null"`
	Abilities string    `gorm:"column:abilities;type:text;not null"`
	Stats     string    `gorm:"column:stats;type:text;not null"`
	Types     string    `gorm:"column:types;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (e *FavoriteEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
