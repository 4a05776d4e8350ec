package service

import (
	"errors"

	"github.com/beyond-borders/ops-console/internal/docstore"
	"github.com/beyond-borders/ops-console/pkg/util"
)

// mapStoreError translates a store sentinel into the HTTP error
// taxonomy; anything else becomes an internal error.
func mapStoreError(resource string, err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return util.NewNotFound(resource, nil)
	}
	return util.ToDomainError(err)
}
