package repo

import (
	"errors"

	"gorm.io/gorm"

	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
)

// Translate maps a persistence failure onto the API error taxonomy. Typed
// errors pass through untouched, missing rows become NotFound and anything
// else is reported as a dependency failure.
func Translate(err error, entity string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, entity+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, entity+" lookup failed")
}
