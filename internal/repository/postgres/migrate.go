package postgres

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrateUp applies every pending migration for the given table prefix.
func MigrateUp(databaseURL string, tables *TableNames, logger *slog.Logger) error {
	m, err := newMigrate(databaseURL, tables)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d", version)
	}
	logger.Info("database schema up to date", "version", version, "prefix", tables.Prefix)
	return nil
}

// MigrateDown reverts every migration for the given table prefix, dropping
// the workspace tables.
func MigrateDown(databaseURL string, tables *TableNames, logger *slog.Logger) error {
	m, err := newMigrate(databaseURL, tables)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}
	logger.Info("database schema dropped", "prefix", tables.Prefix)
	return nil
}

func newMigrate(databaseURL string, tables *TableNames) (*migrate.Migrate, error) {
	src, err := iofs.New(prefixedFS{fsys: migrationFiles, prefix: tables.Prefix}, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migration files: %w", err)
	}

	dbURL, err := migrateURL(databaseURL, tables)
	if err != nil {
		src.Close()
		return nil, err
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}

// migrateURL points the pgx/v5 driver at the database and keeps a separate
// version table per prefix.
func migrateURL(databaseURL string, tables *TableNames) (string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}
	switch u.Scheme {
	case "postgres", "postgresql", "pgx5":
	default:
		return "", fmt.Errorf("unsupported database url scheme %q", u.Scheme)
	}
	u.Scheme = "pgx5"
	q := u.Query()
	q.Set("x-migrations-table", tables.Prefix+"schema_migrations")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// prefixedFS serves the embedded migrations with {{prefix}} expanded to the
// configured table prefix.
type prefixedFS struct {
	fsys   embed.FS
	prefix string
}

func (p prefixedFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return p.fsys.ReadDir(name)
}

func (p prefixedFS) Open(name string) (fs.File, error) {
	f, err := p.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		return f, nil
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	body := strings.ReplaceAll(string(data), "{{prefix}}", p.prefix)
	return &expandedFile{Reader: strings.NewReader(body), info: info}, nil
}

type expandedFile struct {
	*strings.Reader
	info fs.FileInfo
}

func (f *expandedFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *expandedFile) Close() error               { return nil }
