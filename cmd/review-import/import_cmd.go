package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/review-sdk/modules"
	"github.com/iota-uz/review-sdk/modules/person/domain/aggregates/person"
	personservices "github.com/iota-uz/review-sdk/modules/person/services"
	"github.com/iota-uz/review-sdk/modules/review/infrastructure/memory"
	"github.com/iota-uz/review-sdk/modules/review/services"
	"github.com/iota-uz/review-sdk/pkg/application"
	"github.com/iota-uz/review-sdk/pkg/composables"
	"github.com/iota-uz/review-sdk/pkg/configuration"
	"github.com/iota-uz/review-sdk/pkg/crypto"
	"github.com/iota-uz/review-sdk/pkg/eventbus"
)

const (
	storeMemory   = "memory"
	storePostgres = "postgres"
)

type importOptions struct {
	file    string
	store   string
	migrate bool
}

func newImportCmd(root *rootOptions) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import one review workbook synchronously and print its summary as a JSON line",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := root.newLogger()
			if err != nil {
				return err
			}
			conf, err := loadSettings()
			if err != nil {
				return err
			}
			return runImport(cmd.Context(), opts, conf, logger, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "Workbook to import (required)")
	cmd.Flags().StringVar(&opts.store, "store", storePostgres, "Target store (postgres|memory); memory is a dry run")
	cmd.Flags().BoolVar(&opts.migrate, "migrate", false, "Apply pending migrations before importing (postgres only)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runImport(ctx context.Context, opts importOptions, conf settings, logger *logrus.Logger, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	data, err := os.ReadFile(opts.file)
	if err != nil {
		return withCode(exitUsage, fmt.Errorf("read --file: %w", err))
	}

	var importer *services.ImportService
	switch opts.store {
	case storeMemory:
		importer, err = memoryImporter(conf, logger)
		if err != nil {
			return err
		}
	case storePostgres:
		var pool *pgxpool.Pool
		pool, importer, err = postgresImporter(ctx, opts, conf, logger)
		if err != nil {
			return err
		}
		defer pool.Close()
		ctx = composables.WithPool(ctx, pool)
	default:
		return withCode(exitUsage, fmt.Errorf("invalid --store %q: want %s or %s", opts.store, storePostgres, storeMemory))
	}

	summary, runErr := importer.Run(ctx, data, filepath.Base(opts.file))
	if err := writeJSONLine(out, summary); err != nil {
		return err
	}
	switch {
	case runErr == nil:
	case errors.Is(runErr, person.ErrProfileIncomplete), errors.Is(runErr, services.ErrUnreadableWorkbook):
		return withCode(exitValidation, runErr)
	default:
		return withCode(exitDB, runErr)
	}
	if failed := summary.SelfReviews.Failed + summary.PeerReviews.Failed + summary.References.Failed; failed > 0 {
		return withCode(exitPartial, fmt.Errorf("%d record(s) failed, see log for reasons", failed))
	}
	return nil
}

func memoryImporter(conf settings, logger *logrus.Logger) (*services.ImportService, error) {
	cipher, err := crypto.NewCipher(conf.Review.EncryptionSecret)
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	store := memory.NewStore()
	persons := personservices.NewPersonService(store.PersonRepository(), crypto.NewBcryptHasher())
	resolver := services.NewResolver(persons, store.CycleRepository(), store.ProjectRepository(), conf.Review.DefaultCycleYear)
	writer := services.NewGraphWriter(
		store, store.ReviewRepository(), store.CriterionRepository(), store.ReferenceRepository(), cipher, logger,
	)
	return services.NewImportService(resolver, writer, eventbus.NewEventPublisher(logger), logger), nil
}

func postgresImporter(
	ctx context.Context,
	opts importOptions,
	conf settings,
	logger *logrus.Logger,
) (*pgxpool.Pool, *services.ImportService, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(connectCtx, conf.Database.Opts)
	if err != nil {
		return nil, nil, withCode(exitDB, fmt.Errorf("connect db: %w", err))
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, nil, withCode(exitDB, fmt.Errorf("ping db: %w", err))
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	full := &configuration.Configuration{Review: conf.Review}
	if err := modules.Load(app, modules.BuiltInModules(full, nil)...); err != nil {
		pool.Close()
		return nil, nil, withCode(exitUsage, fmt.Errorf("load modules: %w", err))
	}
	if opts.migrate {
		if err := app.Migrations().Run(ctx); err != nil {
			pool.Close()
			return nil, nil, withCode(exitDB, fmt.Errorf("migrate: %w", err))
		}
	}
	return pool, app.Service(services.ImportService{}).(*services.ImportService), nil
}
