package database

import (
	"errors"

	"github.com/leca/dt-pokeapi/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Resource kinds stored in the generic resources table.
const (
	KindAbility = "ability"
	KindMove    = "move"
	KindItem    = "item"
)

// Database defines the persistence interface of the catalog.
type Database interface {
	// Pokemon
	CreatePokemon(p *model.Pokemon) error
	GetPokemon(id int) (*model.Pokemon, error)
	GetPokemonByName(name string) (*model.Pokemon, error)
	ListPokemon(limit, offset int) ([]*model.Resource, int, error)
	CountPokemon() (int, error)

	// Abilities, moves and items
	CreateResource(r *model.Resource) error
	GetResource(kind string, id int) (*model.Resource, error)
	GetResourceByName(kind, name string) (*model.Resource, error)
	ListResources(kind string, limit, offset int) ([]*model.Resource, int, error)

	Close() error
}
