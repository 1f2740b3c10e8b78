package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamEntry links a user to a roster slot. The table holds at most six rows
// per user; the repository enforces the cap with a conditional insert. Entries
// are dropped with their owner through the cascading foreign key.
type TeamEntry struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:team_entries_user_id_idx;uniqueIndex:team_entries_user_pokemon_key"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	PokemonID int       `gorm:"column:pokemon_id;not null;uniqueIndex:team_entries_user_pokemon_key"`
	Name      string    `gorm:"column:name;not null"`
	Image     string    `gorm:"column:image;not null"`
	Height    float64   `gorm:"column:height;not null"`
	Weight    float64   `gorm:"column:weight;not null"`
	Abilities string    `gorm:"column:abilities;type:text;not null"`
	Stats     string    `gorm:"column:stats;type:text;not null"`
	Types     string    `gorm:"column:types;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (e *TeamEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
