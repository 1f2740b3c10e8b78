package collections

import "encoding/json"

// TeamCapacity is the fixed roster limit per user.
const TeamCapacity = 6

// Kind selects one of the per-user collections.
type Kind string

const (
	// KindFavorites is the unbounded saved-species collection.
	KindFavorites Kind = "favorites"
	// KindTeam is the roster collection capped at TeamCapacity entries.
	KindTeam Kind = "team"
)

func (k Kind) table() string {
	if k == KindTeam {
		return "team_entries"
	}
	return "favorite_entries"
}

// Capacity returns the entry limit for the kind, zero meaning unbounded.
func (k Kind) Capacity() int {
	if k == KindTeam {
		return TeamCapacity
	}
	return 0
}

// Label is the user-facing collection name used in messages.
func (k Kind) Label() string {
	if k == KindTeam {
		return "team"
	}
	return "favorites"
}

// EntryDTO is the list response shape. The ability, stat, and type payloads
// are stored as JSON text and passed through verbatim.
type EntryDTO struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	SpriteURL string          `json:"sprite_url"`
	Height    float64         `json:"height"`
	Weight    float64         `json:"weight"`
	Abilities json.RawMessage `json:"abilities"`
	Stats     json.RawMessage `json:"stats"`
	Types     json.RawMessage `json:"types"`
}

// AddEntryDTO carries the snapshot a client submits when saving a species.
// PokemonID/Name accept the alternate key spellings older clients send.
type AddEntryDTO struct {
	PokemonID    int             `json:"pokemon_id"`
	AltID        int             `json:"id"`
	Name         string          `json:"pokemon_name"`
	AltName      string          `json:"name"`
	SpriteURL    string          `json:"sprite_url"`
	AltSpriteURL string          `json:"pokemon_image"`
	Height       float64         `json:"height"`
	Weight       float64         `json:"weight"`
	Abilities    json.RawMessage `json:"abilities"`
	Stats        json.RawMessage `json:"stats"`
	Types        json.RawMessage `json:"types"`
}

// normalized collapses the alternate key spellings and defaults the JSON
// payloads so the stored text is always valid JSON.
func (d AddEntryDTO) normalized() AddEntryDTO {
	out := d
	if out.PokemonID == 0 {
		out.PokemonID = out.AltID
	}
	if out.Name == "" {
		out.Name = out.AltName
	}
	if out.SpriteURL == "" {
		out.SpriteURL = out.AltSpriteURL
	}
	if len(out.Abilities) == 0 {
		out.Abilities = json.RawMessage("[]")
	}
	if len(out.Stats) == 0 {
		out.Stats = json.RawMessage("{}")
	}
	if len(out.Types) == 0 {
		out.Types = json.RawMessage("[]")
	}
	return out
}
