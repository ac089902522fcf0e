package file

import (
	"fmt"
	"strings"
	"time"
)

const (
	pathSeparator = "/"

	// TimestampFormat is the upload-time portion of a storage key.
	// Two uploads of the same filename within one second overwrite
	// each other; the key format provides no collision handling.
	TimestampFormat = "20060102-150405"

	unknownComponent   = "unknown"
	minPathComponents  = 3
	timestampSplitSize = 2
)

// File is the domain record for a stored object. It has no identity
// beyond its storage key; deleting the backing object deletes the file.
type File struct {
	ObjectName       string            `json:"object_name"`
	Collection       string            `json:"collection"`
	Owner            string            `json:"owner"`
	OriginalFilename string            `json:"original_filename"`
	UploadTime       string            `json:"upload_time"`
	ContentType      string            `json:"content_type"`
	Size             *int64            `json:"size"`
	Metadata         map[string]string `json:"metadata"`
}

// IsOwnedBy reports whether the file was uploaded by the given
// principal identifier. Ownership is informational only; it grants no
// permission beyond the owning collection's capability set.
func (f *File) IsOwnedBy(identifier string) bool {
	return f.Owner == identifier
}

// BuildStoragePath generates the storage key for an upload:
// {collection}/{owner}/{timestamp}-{filename}.
func BuildStoragePath(collection, owner, filename string, uploadedAt time.Time) string {
	return fmt.Sprintf("%s%s%s%s%s-%s",
		collection, pathSeparator,
		owner, pathSeparator,
		uploadedAt.Format(TimestampFormat), filename)
}

// CollectionPrefix returns the listing prefix for a collection.
func CollectionPrefix(collection string) string {
	return collection + pathSeparator
}

// ParsedPath holds the components recovered from a storage key.
type ParsedPath struct {
	Collection       string
	Owner            string
	Timestamp        string
	OriginalFilename string
}

// ParseStoragePath splits a storage key back into its components.
// The timestamp/filename boundary is the first "-" in the final path
// segment, so the date half of the timestamp parses out and the
// filename absorbs the rest; filenames containing "-" do not
// round-trip their timestamp. Collection and owner always round-trip.
func ParseStoragePath(objectName string) ParsedPath {
	parts := strings.Split(objectName, pathSeparator)

	if len(parts) < minPathComponents {
		return ParsedPath{
			Collection:       parts[0],
			Owner:            unknownComponent,
			Timestamp:        unknownComponent,
			OriginalFilename: parts[len(parts)-1],
		}
	}

	parsed := ParsedPath{
		Collection: parts[0],
		Owner:      parts[1],
	}

	// Only the third segment is considered; deeper segments are a
	// preserved misparse case along with hyphenated filenames.
	tail := parts[2]
	split := strings.SplitN(tail, "-", timestampSplitSize)
	if len(split) == timestampSplitSize {
		parsed.Timestamp = split[0]
		parsed.OriginalFilename = split[1]
	} else {
		parsed.Timestamp = unknownComponent
		parsed.OriginalFilename = tail
	}

	return parsed
}

// FromStoragePath reconstructs a File from a storage key and whatever
// the store reported about the object. Reconstruction is lossy; see
// ParseStoragePath.
func FromStoragePath(objectName, contentType string, size *int64, metadata map[string]string) *File {
	parsed := ParseStoragePath(objectName)

	if metadata == nil {
		metadata = map[string]string{}
	}

	return &File{
		ObjectName:       objectName,
		Collection:       parsed.Collection,
		Owner:            parsed.Owner,
		OriginalFilename: parsed.OriginalFilename,
		UploadTime:       parsed.Timestamp,
		ContentType:      contentType,
		Size:             size,
		Metadata:         metadata,
	}
}
