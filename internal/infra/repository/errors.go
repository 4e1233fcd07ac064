package repository

import (
	"errors"

	repo "github.com/djjoel12/talksellr/internal/repository"

	"gorm.io/gorm"
)

// ドライバのエラーをrepositoryのエラーへ
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repo.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repo.ErrDuplicate
	default:
		return err
	}
}

func normalizePage(page, limit, def, max int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > max {
		limit = def
	}
	return page, limit
}
