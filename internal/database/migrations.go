package database

const schema = `
CREATE TABLE IF NOT EXISTS pokemon (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    base_experience INTEGER NOT NULL DEFAULT 0,
    height INTEGER NOT NULL DEFAULT 0,
    weight INTEGER NOT NULL DEFAULT 0,
    sort_order INTEGER NOT NULL DEFAULT 0,
    is_default INTEGER NOT NULL DEFAULT 1,
    abilities TEXT NOT NULL DEFAULT '[]',
    moves TEXT NOT NULL DEFAULT '[]',
    stats TEXT NOT NULL DEFAULT '[]',
    types TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS resources (
    kind TEXT NOT NULL,
    id INTEGER NOT NULL,
    name TEXT NOT NULL,
    effect TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (kind, id)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_resources_name ON resources (kind, name);
`
