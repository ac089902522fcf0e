package usecase

import (
	"context"
	"errors"
	"fmt"

	"stuf-api/internal/domain/principal"
	"stuf-api/internal/storage"
	apperrors "stuf-api/pkg/errors"
)

type DeleteFileUseCase struct {
	storage storage.Repository
}

func NewDeleteFileUseCase(repo storage.Repository) *DeleteFileUseCase {
	return &DeleteFileUseCase{storage: repo}
}

// Execute deletes an object after a delete permission check. Ownership
// is not consulted: any principal with delete capability on the
// collection may delete any file in it.
func (uc *DeleteFileUseCase) Execute(ctx context.Context, collection, objectName string, p principal.Principal) error {
	if !p.HasCollectionPermission(collection, principal.PermissionDelete) {
		return apperrors.InsufficientPermissions(fmt.Sprintf(msgNoDeleteAccessFmt, collection))
	}

	fullObjectName := qualifyObjectName(collection, objectName)

	if err := uc.storage.Delete(ctx, fullObjectName); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return apperrors.NotFound(fmt.Sprintf(msgFileNotFoundFmt, fullObjectName))
		}
		return apperrors.Delete(msgDeleteStorageFmt, err)
	}

	return nil
}
