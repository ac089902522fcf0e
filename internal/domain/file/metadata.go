package file

import (
	"encoding/json"
	"fmt"
)

const (
	MetadataKeyUploader         = "uploader"
	MetadataKeyUploadTime       = "upload_time"
	MetadataKeyCollection       = "collection"
	MetadataKeyOriginalFilename = "original_filename"

	errInvalidMetadataJSONFmt = "invalid metadata JSON: %w"
)

// ParseMetadataJSON decodes caller-supplied metadata. The payload must
// be a JSON object; anything else is a validation failure at upload
// time.
func ParseMetadataJSON(raw string) (map[string]any, error) {
	var metadata map[string]any
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		return nil, fmt.Errorf(errInvalidMetadataJSONFmt, err)
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	return metadata, nil
}

// BuildUploadMetadata merges system-derived fields with caller
// metadata. Caller keys win on collision, matching the original
// upload contract.
func BuildUploadMetadata(uploader, uploadTime, collection, originalFilename string, userMetadata map[string]any) map[string]any {
	merged := map[string]any{
		MetadataKeyUploader:         uploader,
		MetadataKeyUploadTime:       uploadTime,
		MetadataKeyCollection:       collection,
		MetadataKeyOriginalFilename: originalFilename,
	}
	for key, value := range userMetadata {
		merged[key] = value
	}
	return merged
}

// ToStorageFormat flattens metadata for the object store, which only
// accepts string values. Nil values are dropped.
func ToStorageFormat(metadata map[string]any) map[string]string {
	storage := make(map[string]string, len(metadata))
	for key, value := range metadata {
		if value == nil {
			continue
		}
		storage[key] = fmt.Sprintf("%v", value)
	}
	return storage
}
