package model

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/leca/dt-pokeapi/internal/client"
)

// NamedAPIResource is a single entry of a PokeAPI listing.
type NamedAPIResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Listing is the paginated envelope returned by PokeAPI collection endpoints.
type Listing struct {
	Count    int                `json:"count"`
	Next     *string            `json:"next"`
	Previous *string            `json:"previous"`
	Results  []NamedAPIResource `json:"results"`
}

// Pokemon is the detail document served at /pokemon/{id or name}.
type Pokemon struct {
	ID             int              `json:"id"`
	Name           string           `json:"name"`
	BaseExperience int              `json:"base_experience"`
	Height         int              `json:"height"`
	Weight         int              `json:"weight"`
	Order          int              `json:"order"`
	IsDefault      bool             `json:"is_default"`
	Abilities      []PokemonAbility `json:"abilities"`
	Moves          []PokemonMove    `json:"moves"`
	Stats          []PokemonStat    `json:"stats"`
	Types          []PokemonType    `json:"types"`
	Sprites        Sprites          `json:"sprites"`
}

// PokemonAbility links a pokemon to one of its abilities.
type PokemonAbility struct {
	IsHidden bool             `json:"is_hidden"`
	Slot     int              `json:"slot"`
	Ability  NamedAPIResource `json:"ability"`
}

// PokemonMove links a pokemon to a move it can learn.
type PokemonMove struct {
	Move NamedAPIResource `json:"move"`
}

// PokemonStat is one base stat of a pokemon.
type PokemonStat struct {
	BaseStat int              `json:"base_stat"`
	Effort   int              `json:"effort"`
	Stat     NamedAPIResource `json:"stat"`
}

// PokemonType is one of the (at most two) elemental types of a pokemon.
type PokemonType struct {
	Slot int              `json:"slot"`
	Type NamedAPIResource `json:"type"`
}

// Sprites holds the image URLs of a pokemon.
type Sprites struct {
	FrontDefault *string `json:"front_default"`
}

// Resource is a generic named catalog entry (ability, move, item).
type Resource struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Kind   string `json:"-"`
	Effect string `json:"effect,omitempty"`
}

// ListItem is a listing entry that can lazily load its detail lists.
// Detail loading never fails the caller on a non-200 response; the lists
// simply stay empty.
type ListItem struct {
	NamedAPIResource
	Abilities []any
	Moves     []any
	Stats     []any
}

// NewListItem wraps a listing entry with empty detail lists.
func NewListItem(r NamedAPIResource) *ListItem {
	return &ListItem{
		NamedAPIResource: r,
		Abilities:        []any{},
		Moves:            []any{},
		Stats:            []any{},
	}
}

// LoadDetails fetches the detail resource at the item URL and fills the
// ability, move and stat lists. Missing lists default to empty. The request
// goes through c and is bounded by its timeout.
func (li *ListItem) LoadDetails(ctx context.Context, c *client.Client) error {
	if li.URL == "" {
		return nil
	}
	resp, err := c.Get(ctx, li.URL, nil)
	if err != nil {
		return fmt.Errorf("fetch detail %s: %w", li.URL, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil
	}
	doc := resp.Doc()
	if doc == nil {
		return fmt.Errorf("decode detail %s: body is not a JSON object", li.URL)
	}
	li.Abilities = listOrEmpty(doc["abilities"])
	li.Moves = listOrEmpty(doc["moves"])
	li.Stats = listOrEmpty(doc["stats"])
	return nil
}

// Validate reports whether the item carries the minimal expected structure:
// a non-empty name, an http(s) URL and list-typed detail fields.
func (li *ListItem) Validate() error {
	if strings.TrimSpace(li.Name) == "" {
		return fmt.Errorf("name is empty")
	}
	if strings.TrimSpace(li.URL) == "" {
		return fmt.Errorf("url is empty")
	}
	if !strings.HasPrefix(li.URL, "http://") && !strings.HasPrefix(li.URL, "https://") {
		return fmt.Errorf("url %q is not http(s)", li.URL)
	}
	if li.Abilities == nil || li.Moves == nil || li.Stats == nil {
		return fmt.Errorf("detail lists must not be nil")
	}
	return nil
}

func listOrEmpty(v any) []any {
	if l, ok := v.([]any); ok {
		return l
	}
	return []any{}
}
