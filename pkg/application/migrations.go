package application

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
	"github.com/sirupsen/logrus"
)

type schema struct {
	module string
	fsys   fs.FS
}

type migrationManager struct {
	pool    *pgxpool.Pool
	logger  *logrus.Logger
	schemas []schema
}

func NewMigrationManager(pool *pgxpool.Pool, logger *logrus.Logger) MigrationManager {
	return &migrationManager{pool: pool, logger: logger}
}

func (m *migrationManager) RegisterSchema(module string, fsys fs.FS) {
	m.schemas = append(m.schemas, schema{module: module, fsys: fsys})
}

// Run applies every registered schema in registration order. Each module keeps its own version table.
func (m *migrationManager) Run(ctx context.Context) error {
	if m.pool == nil {
		return fmt.Errorf("migrations: no database pool")
	}
	db := stdlib.OpenDBFromPool(m.pool)
	defer func() { _ = db.Close() }()

	for _, s := range m.schemas {
		store, err := database.NewStore(database.DialectPostgres, fmt.Sprintf("goose_%s_version", s.module))
		if err != nil {
			return fmt.Errorf("migrations %s: %w", s.module, err)
		}
		provider, err := goose.NewProvider("", db, s.fsys, goose.WithStore(store))
		if err != nil {
			return fmt.Errorf("migrations %s: %w", s.module, err)
		}
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("migrations %s: %w", s.module, err)
		}
		if m.logger != nil {
			for _, r := range results {
				m.logger.WithFields(logrus.Fields{
					"module":   s.module,
					"version":  r.Source.Version,
					"duration": r.Duration,
				}).Info("migration applied")
			}
		}
	}
	return nil
}
