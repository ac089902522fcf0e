package usecase

import (
	"context"
	"fmt"

	"stuf-api/internal/domain/file"
	"stuf-api/internal/domain/principal"
	"stuf-api/internal/storage"
	apperrors "stuf-api/pkg/errors"
)

type ListFilesUseCase struct {
	storage storage.Repository
}

func NewListFilesUseCase(repo storage.Repository) *ListFilesUseCase {
	return &ListFilesUseCase{storage: repo}
}

// Execute lists every file in the collection after a read permission
// check.
func (uc *ListFilesUseCase) Execute(ctx context.Context, collection string, p principal.Principal) ([]*file.File, error) {
	if !p.HasCollectionPermission(collection, principal.PermissionRead) {
		return nil, apperrors.InsufficientPermissions(fmt.Sprintf(msgNoReadAccessFmt, collection))
	}

	files, err := uc.storage.ListCollection(ctx, collection)
	if err != nil {
		return nil, apperrors.Listing(msgListStorageFmt, err)
	}

	return files, nil
}
