package person

import (
	"embed"
	"io/fs"

	"github.com/iota-uz/review-sdk/modules/person/infrastructure/persistence"
	"github.com/iota-uz/review-sdk/modules/person/services"
	"github.com/iota-uz/review-sdk/pkg/application"
	"github.com/iota-uz/review-sdk/pkg/crypto"
)

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	schema, err := fs.Sub(migrationFiles, "infrastructure/persistence/schema")
	if err != nil {
		return err
	}
	app.Migrations().RegisterSchema(m.Name(), schema)

	app.RegisterServices(
		services.NewPersonService(persistence.NewPersonRepository(), crypto.NewBcryptHasher()),
	)
	return nil
}

func (m *Module) Name() string {
	return "person"
}
