package repositories

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrAlreadyExists    = errors.New("record already exists")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrForbidden        = errors.New("not the owner of this record")
)

func storeErr(op, collection string, err error) error {
	return fmt.Errorf("%s %s: %w: %w", op, collection, ErrStoreUnavailable, err)
}
