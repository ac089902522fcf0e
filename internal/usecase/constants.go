package usecase

const (
	fallbackFilename    = "unknown"
	fallbackContentType = "application/octet-stream"

	msgNoWriteAccessFmt  = "you don't have write access to collection: %s"
	msgNoReadAccessFmt   = "you don't have read access to collection: %s"
	msgNoDeleteAccessFmt = "you don't have delete access to collection: %s"
	msgInvalidMetadata   = "invalid metadata JSON format"
	msgFileNotFoundFmt   = "file not found: %s"
	msgUploadStorageFmt  = "storage error during upload"
	msgListStorageFmt    = "storage error during listing"
	msgDownloadStorage   = "storage error during download"
	msgDeleteStorageFmt  = "storage error during deletion"
)
