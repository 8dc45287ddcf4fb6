package services

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"justeat/apperr"
)

// notFound turns a missing-record error into a NotFound kind with msg and
// passes any other error through.
func notFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.ErrNotFound, msg)
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
