package person

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iota-uz/review-sdk/pkg/constants"
)

var ErrProfileIncomplete = errors.New("profile is missing mandatory fields")

// ProfileDTO is the subject of an imported review file.
type ProfileDTO struct {
	Email      string `validate:"required"`
	FullName   string `validate:"required"`
	Unit       string `validate:"required"`
	CycleLabel string
	Role       string
	Track      string
}

func (d *ProfileDTO) Normalize() {
	d.Email = NormalizeEmail(d.Email)
	d.FullName = strings.TrimSpace(d.FullName)
	d.Unit = strings.TrimSpace(d.Unit)
	d.CycleLabel = strings.TrimSpace(d.CycleLabel)
	d.Role = strings.TrimSpace(d.Role)
	d.Track = strings.TrimSpace(d.Track)
}

// Validate reports the missing mandatory fields wrapped in ErrProfileIncomplete.
func (d *ProfileDTO) Validate() error {
	d.Normalize()
	err := constants.Validate.Struct(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fmt.Errorf("%w: %s", ErrProfileIncomplete, strings.Join(fields, ", "))
}
