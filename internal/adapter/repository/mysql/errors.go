package mysql

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"chapter-fund-ledger/internal/domain/apperr"
)

// translate maps driver and gorm errors onto the ledger taxonomy. The *gorm.DB
// must be opened with TranslateError so unique violations surface as
// gorm.ErrDuplicatedKey.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", apperr.ErrConflict, err)
	}
	return err
}

// affected turns a single-row write into ErrNotFound when nothing matched.
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
