package modules

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iota-uz/review-sdk/modules/person"
	"github.com/iota-uz/review-sdk/modules/review"
	"github.com/iota-uz/review-sdk/pkg/application"
	"github.com/iota-uz/review-sdk/pkg/configuration"
)

// BuiltInModules lists the modules in registration order. The review module
// resolves the person service, so person comes first.
func BuiltInModules(conf *configuration.Configuration, reg prometheus.Registerer) []application.Module {
	return []application.Module{
		person.NewModule(),
		review.NewModule(&review.ModuleOptions{
			EncryptionSecret: conf.Review.EncryptionSecret,
			DefaultCycleYear: conf.Review.DefaultCycleYear,
			MaxUploadSize:    conf.Review.MaxUploadSize,
			Registerer:       reg,
		}),
	}
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
