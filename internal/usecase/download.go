package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stuf-api/internal/domain/file"
	"stuf-api/internal/domain/principal"
	"stuf-api/internal/storage"
	apperrors "stuf-api/pkg/errors"
)

type DownloadFileUseCase struct {
	storage storage.Repository
}

func NewDownloadFileUseCase(repo storage.Repository) *DownloadFileUseCase {
	return &DownloadFileUseCase{storage: repo}
}

// Execute retrieves an object's content and metadata after a read
// permission check. A missing key surfaces as the domain not-found
// error, never as a storage failure.
func (uc *DownloadFileUseCase) Execute(ctx context.Context, collection, objectName string, p principal.Principal) ([]byte, *file.File, error) {
	if !p.HasCollectionPermission(collection, principal.PermissionRead) {
		return nil, nil, apperrors.InsufficientPermissions(fmt.Sprintf(msgNoReadAccessFmt, collection))
	}

	fullObjectName := qualifyObjectName(collection, objectName)

	content, record, err := uc.storage.Retrieve(ctx, fullObjectName)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, apperrors.NotFound(fmt.Sprintf(msgFileNotFoundFmt, fullObjectName))
		}
		return nil, nil, apperrors.Download(msgDownloadStorage, err)
	}

	return content, record, nil
}

// qualifyObjectName prepends the collection prefix unless the caller
// already passed the full storage key.
func qualifyObjectName(collection, objectName string) string {
	prefix := file.CollectionPrefix(collection)
	if strings.HasPrefix(objectName, prefix) {
		return objectName
	}
	return prefix + objectName
}
