package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/leca/dt-pokeapi/internal/model"
	_ "modernc.org/sqlite"
)

// SQLiteDB implements Database backed by SQLite.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (or creates) an SQLite database at dsn and runs migrations.
// For in-memory use pass "file::memory:?cache=shared".
func NewSQLiteDB(dsn string) (*SQLiteDB, error) {
	if !strings.Contains(dsn, "?") {
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	} else if !strings.Contains(dsn, "_journal_mode") {
		dsn += "&_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// ---------------------------------------------------------------------------
// Pokemon
// ---------------------------------------------------------------------------

const pokemonColumns = `id, name, base_experience, height, weight, sort_order, is_default,
	abilities, moves, stats, types`

func (s *SQLiteDB) CreatePokemon(p *model.Pokemon) error {
	lists := make([]string, 0, 4)
	for _, v := range []any{p.Abilities, p.Moves, p.Stats, p.Types} {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal pokemon %s: %w", p.Name, err)
		}
		lists = append(lists, string(data))
	}

	_, err := s.db.Exec(`
		INSERT INTO pokemon (`+pokemonColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.BaseExperience, p.Height, p.Weight, p.Order, boolToInt(p.IsDefault),
		lists[0], lists[1], lists[2], lists[3],
	)
	if err != nil {
		return fmt.Errorf("insert pokemon: %w", err)
	}
	return nil
}

func (s *SQLiteDB) GetPokemon(id int) (*model.Pokemon, error) {
	row := s.db.QueryRow(`SELECT `+pokemonColumns+` FROM pokemon WHERE id = ?`, id)
	return scanPokemon(row)
}

func (s *SQLiteDB) GetPokemonByName(name string) (*model.Pokemon, error) {
	row := s.db.QueryRow(`SELECT `+pokemonColumns+` FROM pokemon WHERE name = ?`, name)
	return scanPokemon(row)
}

func (s *SQLiteDB) ListPokemon(limit, offset int) ([]*model.Resource, int, error) {
	total, err := s.CountPokemon()
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(`
		SELECT id, name FROM pokemon
		ORDER BY id ASC
		LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list pokemon: %w", err)
	}
	defer rows.Close()

	var out []*model.Resource
	for rows.Next() {
		r := &model.Resource{Kind: "pokemon"}
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, 0, fmt.Errorf("scan pokemon: %w", err)
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}

func (s *SQLiteDB) CountPokemon() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM pokemon`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count pokemon: %w", err)
	}
	return count, nil
}

// ---------------------------------------------------------------------------
// Resources
// ---------------------------------------------------------------------------

func (s *SQLiteDB) CreateResource(r *model.Resource) error {
	_, err := s.db.Exec(`
		INSERT INTO resources (kind, id, name, effect)
		VALUES (?, ?, ?, ?)`,
		r.Kind, r.ID, r.Name, r.Effect,
	)
	if err != nil {
		return fmt.Errorf("insert %s: %w", r.Kind, err)
	}
	return nil
}

func (s *SQLiteDB) GetResource(kind string, id int) (*model.Resource, error) {
	row := s.db.QueryRow(`SELECT kind, id, name, effect FROM resources WHERE kind = ? AND id = ?`, kind, id)
	return scanResource(row)
}

func (s *SQLiteDB) GetResourceByName(kind, name string) (*model.Resource, error) {
	row := s.db.QueryRow(`SELECT kind, id, name, effect FROM resources WHERE kind = ? AND name = ?`, kind, name)
	return scanResource(row)
}

func (s *SQLiteDB) ListResources(kind string, limit, offset int) ([]*model.Resource, int, error) {
	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM resources WHERE kind = ?`, kind).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", kind, err)
	}

	rows, err := s.db.Query(`
		SELECT kind, id, name, effect FROM resources
		WHERE kind = ?
		ORDER BY id ASC
		LIMIT ? OFFSET ?`,
		kind, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	var out []*model.Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type scannable interface {
	Scan(dest ...any) error
}

func scanPokemon(row scannable) (*model.Pokemon, error) {
	p := &model.Pokemon{}
	var (
		isDefault                        int
		abilities, moves, stats, typesJS string
	)
	err := row.Scan(&p.ID, &p.Name, &p.BaseExperience, &p.Height, &p.Weight, &p.Order, &isDefault,
		&abilities, &moves, &stats, &typesJS)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan pokemon: %w", err)
	}
	p.IsDefault = isDefault != 0

	for _, f := range []struct {
		raw string
		dst any
	}{
		{abilities, &p.Abilities},
		{moves, &p.Moves},
		{stats, &p.Stats},
		{typesJS, &p.Types},
	} {
		if err := json.Unmarshal([]byte(f.raw), f.dst); err != nil {
			return nil, fmt.Errorf("unmarshal pokemon %d: %w", p.ID, err)
		}
	}
	if p.Abilities == nil {
		p.Abilities = []model.PokemonAbility{}
	}
	if p.Moves == nil {
		p.Moves = []model.PokemonMove{}
	}
	if p.Stats == nil {
		p.Stats = []model.PokemonStat{}
	}
	if p.Types == nil {
		p.Types = []model.PokemonType{}
	}
	return p, nil
}

func scanResource(row scannable) (*model.Resource, error) {
	r := &model.Resource{}
	if err := row.Scan(&r.Kind, &r.ID, &r.Name, &r.Effect); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan resource: %w", err)
	}
	return r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
