package postgres

import "embed"

// Migrations holds the schema for golang-migrate, rooted at MigrationsDir.
//
//go:embed migrations/*.sql
var Migrations embed.FS

const MigrationsDir = "migrations"
