package database

import (
	"fmt"

	"github.com/leca/dt-pokeapi/internal/model"
)

// Seed sizes for the secondary catalogs.
const (
	SeedAbilities = 120
	SeedMoves     = 200
	SeedItems     = 150
)

var pokemonNames = []string{
	"bulbasaur", "ivysaur", "venusaur", "charmander", "charmeleon", "charizard",
	"squirtle", "wartortle", "blastoise", "caterpie", "metapod", "butterfree",
	"weedle", "kakuna", "beedrill", "pidgey", "pidgeotto", "pidgeot", "rattata",
	"raticate", "spearow", "fearow", "ekans", "arbok", "pikachu", "raichu",
	"sandshrew", "sandslash", "nidoran-f", "nidorina", "nidoqueen", "nidoran-m",
	"nidorino", "nidoking", "clefairy", "clefable", "vulpix", "ninetales",
	"jigglypuff", "wigglytuff",
}

var abilityNames = []string{
	"stench", "drizzle", "speed-boost", "battle-armor", "sturdy", "damp",
	"limber", "sand-veil", "static", "volt-absorb", "water-absorb", "oblivious",
	"cloud-nine", "compound-eyes", "insomnia", "color-change", "immunity",
	"flash-fire", "shield-dust", "own-tempo", "suction-cups", "intimidate",
	"shadow-tag", "rough-skin", "wonder-guard", "levitate", "effect-spore",
	"synchronize", "clear-body", "natural-cure", "lightning-rod", "serene-grace",
	"swift-swim", "chlorophyll", "illuminate", "trace", "huge-power",
	"poison-point", "inner-focus", "magma-armor", "water-veil", "magnet-pull",
	"soundproof", "rain-dish", "sand-stream", "pressure", "thick-fat",
	"early-bird", "flame-body", "run-away", "keen-eye", "hyper-cutter",
	"pickup", "truant", "hustle", "cute-charm", "plus", "minus", "forecast",
	"sticky-hold", "shed-skin", "guts", "marvel-scale", "liquid-ooze",
	"overgrow", "blaze", "torrent", "swarm",
}

var moveNames = []string{
	"pound", "karate-chop", "double-slap", "comet-punch", "mega-punch",
	"pay-day", "fire-punch", "ice-punch", "thunder-punch", "scratch",
	"vice-grip", "guillotine", "razor-wind", "swords-dance", "cut", "gust",
	"wing-attack", "whirlwind", "fly", "bind", "slam", "vine-whip", "stomp",
	"double-kick", "mega-kick", "jump-kick", "rolling-kick", "sand-attack",
	"headbutt", "horn-attack", "fury-attack", "horn-drill", "tackle",
	"body-slam", "wrap", "take-down", "thrash", "double-edge", "tail-whip",
	"poison-sting", "twineedle", "pin-missile", "leer", "bite", "growl",
	"roar", "sing", "supersonic", "sonic-boom", "disable", "acid", "ember",
	"flamethrower", "mist", "water-gun", "hydro-pump", "surf", "ice-beam",
	"blizzard", "psybeam", "bubble-beam", "aurora-beam", "hyper-beam", "peck",
	"drill-peck", "submission", "low-kick", "counter", "seismic-toss",
	"strength", "absorb", "mega-drain", "leech-seed", "growth", "razor-leaf",
	"solar-beam", "poison-powder", "stun-spore", "sleep-powder",
	"petal-dance", "string-shot", "dragon-rage", "fire-spin",
	"thunder-shock", "thunderbolt", "thunder-wave", "thunder",
}

var itemNames = []string{
	"master-ball", "ultra-ball", "great-ball", "poke-ball", "safari-ball",
	"net-ball", "dive-ball", "nest-ball", "repeat-ball", "timer-ball",
	"luxury-ball", "premier-ball", "dusk-ball", "heal-ball", "quick-ball",
	"cherish-ball", "potion", "antidote", "burn-heal", "ice-heal", "awakening",
	"paralyze-heal", "full-restore", "max-potion", "hyper-potion",
	"super-potion", "full-heal", "revive", "max-revive", "fresh-water",
	"soda-pop", "lemonade", "moomoo-milk", "energy-powder", "energy-root",
	"heal-powder", "revival-herb", "ether", "max-ether", "elixir", "max-elixir",
}

var statNames = []string{"hp", "attack", "defense", "special-attack", "special-defense", "speed"}

var typeNames = []string{
	"normal", "fighting", "flying", "poison", "ground", "rock", "bug", "ghost",
	"steel", "fire", "water", "grass", "electric", "psychic", "ice", "dragon",
	"dark", "fairy",
}

// catalogName returns the i-th (1-based) name of a catalog, falling back to
// a generated "<kind>-<i>" past the end of the known names.
func catalogName(names []string, kind string, i int) string {
	if i <= len(names) {
		return names[i-1]
	}
	return fmt.Sprintf("%s-%d", kind, i)
}

// ResourcePath is the path of a catalog entry relative to the API root,
// in the trailing-slash form PokeAPI uses.
func ResourcePath(kind string, id int) string {
	return fmt.Sprintf("%s/%d/", kind, id)
}

// Seed fills an empty catalog with a deterministic data set of n pokemon.
// It is a no-op when pokemon are already present.
func Seed(db Database, n int) error {
	count, err := db.CountPokemon()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, c := range []struct {
		kind  string
		names []string
		n     int
	}{
		{KindAbility, abilityNames, SeedAbilities},
		{KindMove, moveNames, SeedMoves},
		{KindItem, itemNames, SeedItems},
	} {
		for i := 1; i <= c.n; i++ {
			r := &model.Resource{
				Kind:   c.kind,
				ID:     i,
				Name:   catalogName(c.names, c.kind, i),
				Effect: fmt.Sprintf("Effect of %s %d.", c.kind, i),
			}
			if err := db.CreateResource(r); err != nil {
				return fmt.Errorf("seed %s %d: %w", c.kind, i, err)
			}
		}
	}

	for i := 1; i <= n; i++ {
		if err := db.CreatePokemon(seedPokemon(i)); err != nil {
			return fmt.Errorf("seed pokemon %d: %w", i, err)
		}
	}
	return nil
}

func seedPokemon(id int) *model.Pokemon {
	p := &model.Pokemon{
		ID:             id,
		Name:           catalogName(pokemonNames, "pokemon", id),
		BaseExperience: 40 + id%220,
		Height:         3 + id%20,
		Weight:         20 + (id*37)%900,
		Order:          id,
		IsDefault:      true,
	}

	for slot := 1; slot <= 2; slot++ {
		aid := (id*3+slot*7)%SeedAbilities + 1
		p.Abilities = append(p.Abilities, model.PokemonAbility{
			IsHidden: slot == 2,
			Slot:     slot,
			Ability:  named(KindAbility, abilityNames, aid),
		})
	}

	for j := 0; j < 4; j++ {
		mid := (id*5+j*11)%SeedMoves + 1
		p.Moves = append(p.Moves, model.PokemonMove{Move: named(KindMove, moveNames, mid)})
	}

	for j, stat := range statNames {
		p.Stats = append(p.Stats, model.PokemonStat{
			BaseStat: 20 + (id*7+j*13)%130,
			Effort:   (id + j) % 3,
			Stat:     model.NamedAPIResource{Name: stat, URL: ResourcePath("stat", j+1)},
		})
	}

	t := id % len(typeNames)
	p.Types = append(p.Types, model.PokemonType{
		Slot: 1,
		Type: model.NamedAPIResource{Name: typeNames[t], URL: ResourcePath("type", t+1)},
	})
	return p
}

func named(kind string, names []string, id int) model.NamedAPIResource {
	return model.NamedAPIResource{Name: catalogName(names, kind, id), URL: ResourcePath(kind, id)}
}
