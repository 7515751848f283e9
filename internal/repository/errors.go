package repository

import (
	"errors"

	"github.com/answerhub/community-api/pkg/apperror"
	"gorm.io/gorm"
)

// translate maps gorm's translated driver errors onto the service-level
// taxonomy. A foreign-key violation on insert means the referenced row is
// missing, so it surfaces as not-found.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.ErrConflict
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return apperror.ErrNotFound
	}
	return err
}

// translateDelete maps delete-path errors. A foreign-key violation here means
// dependent rows still reference the target, which is a conflict rather than
// a missing row.
func translateDelete(err error) error {
	if err != nil && errors.Is(err, gorm.ErrForeignKeyViolated) {
		return apperror.ErrConflict
	}
	return translate(err)
}
