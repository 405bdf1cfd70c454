package review

import (
	"embed"
	"io/fs"

	"github.com/prometheus/client_golang/prometheus"

	personpersistence "github.com/iota-uz/review-sdk/modules/person/infrastructure/persistence"
	personservices "github.com/iota-uz/review-sdk/modules/person/services"
	"github.com/iota-uz/review-sdk/modules/review/infrastructure/persistence"
	"github.com/iota-uz/review-sdk/modules/review/presentation/controllers"
	"github.com/iota-uz/review-sdk/modules/review/services"
	"github.com/iota-uz/review-sdk/pkg/application"
	"github.com/iota-uz/review-sdk/pkg/composables"
	"github.com/iota-uz/review-sdk/pkg/crypto"
	"github.com/iota-uz/review-sdk/pkg/metrics"
	"github.com/iota-uz/review-sdk/pkg/repo"
)

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

type ModuleOptions struct {
	EncryptionSecret string
	DefaultCycleYear int
	MaxUploadSize    int64
	// Registerer receives the import metrics. Nil disables them.
	Registerer prometheus.Registerer
}

func NewModule(opts *ModuleOptions) application.Module {
	return &Module{options: opts}
}

type Module struct {
	options *ModuleOptions
}

func (m *Module) Register(app application.Application) error {
	schema, err := fs.Sub(migrationFiles, "infrastructure/persistence/schema")
	if err != nil {
		return err
	}
	app.Migrations().RegisterSchema(m.Name(), schema)

	cipher, err := crypto.NewCipher(m.options.EncryptionSecret)
	if err != nil {
		return err
	}

	persons := app.Service(personservices.PersonService{}).(*personservices.PersonService)
	personRepo := personpersistence.NewPersonRepository()
	cycleRepo := persistence.NewCycleRepository()
	projectRepo := persistence.NewProjectRepository()
	reviewRepo := persistence.NewReviewRepository()

	resolver := services.NewResolver(persons, cycleRepo, projectRepo, m.options.DefaultCycleYear)
	writer := services.NewGraphWriter(
		repo.TransactorFunc(composables.InTx),
		reviewRepo,
		persistence.NewCriterionRepository(),
		persistence.NewReferenceRepository(),
		cipher,
		app.Logger(),
	)

	app.RegisterServices(
		services.NewImportService(resolver, writer, app.EventPublisher(), app.Logger()),
		services.NewTemplateService(),
		services.NewReviewQueryService(personRepo, cycleRepo, reviewRepo, cipher),
	)

	if m.options.Registerer != nil {
		subscribeMetrics(app, metrics.NewImportMetrics(m.options.Registerer))
	}

	app.RegisterControllers(
		controllers.NewImportController(app, m.options.MaxUploadSize),
	)
	return nil
}

func (m *Module) Name() string {
	return "review"
}

func subscribeMetrics(app application.Application, m *metrics.ImportMetrics) {
	app.EventPublisher().Subscribe(func(e *services.ImportCompletedEvent) {
		s := e.Summary
		m.ObserveImport(string(s.Status), s.Warnings, s.Duration)
		m.ObserveRecords("self_review", s.SelfReviews.Created, s.SelfReviews.Skipped, s.SelfReviews.Failed)
		m.ObserveRecords("peer_review", s.PeerReviews.Created, s.PeerReviews.Skipped, s.PeerReviews.Failed)
		m.ObserveRecords("reference", s.References.Created, s.References.Skipped, s.References.Failed)
	})
}
