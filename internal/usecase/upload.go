package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"stuf-api/internal/domain/file"
	"stuf-api/internal/domain/principal"
	"stuf-api/internal/storage"
	apperrors "stuf-api/pkg/errors"
)

// UploadInput carries everything a caller supplies for an upload. The
// metadata field is the raw JSON string from the request; it defaults
// to "{}" upstream when absent.
type UploadInput struct {
	Collection  string
	Filename    string
	ContentType string
	Content     io.Reader
	Metadata    string
}

type UploadFileUseCase struct {
	storage storage.Repository
	now     func() time.Time
}

func NewUploadFileUseCase(repo storage.Repository) *UploadFileUseCase {
	return &UploadFileUseCase{storage: repo, now: time.Now}
}

// Execute checks write permission, validates metadata, builds the
// storage key, and stores the object. Malformed metadata fails before
// the storage layer is ever invoked.
func (uc *UploadFileUseCase) Execute(ctx context.Context, input UploadInput, p principal.Principal) (*file.File, error) {
	if !p.HasCollectionPermission(input.Collection, principal.PermissionWrite) {
		return nil, apperrors.InsufficientPermissions(fmt.Sprintf(msgNoWriteAccessFmt, input.Collection))
	}

	userMetadata, err := file.ParseMetadataJSON(input.Metadata)
	if err != nil {
		return nil, apperrors.Validation(msgInvalidMetadata)
	}

	filename := input.Filename
	if filename == "" {
		filename = fallbackFilename
	}

	contentType := input.ContentType
	if contentType == "" {
		contentType = fallbackContentType
	}

	uploadedAt := uc.now()
	timestamp := uploadedAt.Format(file.TimestampFormat)
	storagePath := file.BuildStoragePath(input.Collection, p.Identifier(), filename, uploadedAt)

	metadata := file.BuildUploadMetadata(p.Identifier(), timestamp, input.Collection, filename, userMetadata)

	content, err := io.ReadAll(input.Content)
	if err != nil {
		return nil, apperrors.Upload(msgUploadStorageFmt, err)
	}

	size := int64(len(content))
	record := &file.File{
		ObjectName:       storagePath,
		Collection:       input.Collection,
		Owner:            p.Identifier(),
		OriginalFilename: filename,
		UploadTime:       timestamp,
		ContentType:      contentType,
		Size:             &size,
		Metadata:         file.ToStorageFormat(metadata),
	}

	if err := uc.storage.Store(ctx, bytes.NewReader(content), record); err != nil {
		return nil, apperrors.Upload(msgUploadStorageFmt, err)
	}

	return record, nil
}
