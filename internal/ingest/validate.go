package ingest

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"fontpair/pkg/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkFont runs the struct-tag rules on the core record.
func checkFont(f models.Font) error {
	if err := validate.Struct(f.FontRecord); err != nil {
		return fmt.Errorf("font %q: %w", f.Family, err)
	}
	return nil
}

// Partition splits fonts into valid records and the errors of the rest.
func Partition(fonts []models.Font) ([]models.Font, []error) {
	ok := make([]models.Font, 0, len(fonts))
	var errs []error
	for _, f := range fonts {
		if err := checkFont(f); err != nil {
			errs = append(errs, err)
			continue
		}
		ok = append(ok, f)
	}
	return ok, errs
}
