package pokeapi

// Ref identifies a species candidate returned by the generation and type
// listings. Candidates carry only the name; details come from a follow-up
// fetch.
type Ref struct {
	Name string
}

// Summary is the card-sized projection used by filter results.
type Summary struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Types     []string `json:"types"`
	SpriteURL string   `json:"sprite_url"`
}

// Ability names a species ability and whether it is hidden.
type Ability struct {
	Name     string `json:"name"`
	IsHidden bool   `json:"is_hidden"`
}

// Detail is the full normalized view of a species. Height and weight are in
// meters and kilograms; the upstream reports decimeters and hectograms.
type Detail struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Types     []string       `json:"types"`
	Height    float64        `json:"height"`
	Weight    float64        `json:"weight"`
	SpriteURL string         `json:"sprite_url"`
	Abilities []Ability      `json:"abilities"`
	Stats     map[string]int `json:"stats"`
}

// Summary projects the card fields out of a detail.
func (d *Detail) Summary() Summary {
	return Summary{
		ID:        d.ID,
		Name:      d.Name,
		Types:     d.Types,
		SpriteURL: d.SpriteURL,
	}
}

type namedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type generationPayload struct {
	PokemonSpecies []namedResource `json:"pokemon_species"`
}

type typePayload struct {
	Pokemon []struct {
		Pokemon namedResource `json:"pokemon"`
	} `json:"pokemon"`
}

type pokemonPayload struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Height  int    `json:"height"`
	Weight  int    `json:"weight"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
	} `json:"sprites"`
	Types []struct {
		Type namedResource `json:"type"`
	} `json:"types"`
	Abilities []struct {
		IsHidden bool          `json:"is_hidden"`
		Ability  namedResource `json:"ability"`
	} `json:"abilities"`
	Stats []struct {
		BaseStat int           `json:"base_stat"`
		Stat     namedResource `json:"stat"`
	} `json:"stats"`
}
