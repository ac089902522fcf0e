package handler

const (
	paramCollection = "collection"
	paramObjectName = "*"

	formFieldFile       = "file"
	formFieldCollection = "collection"
	formFieldMetadata   = "metadata"

	defaultMetadataJSON = "{}"

	jsonKeyError   = "error"
	jsonKeyMessage = "message"

	statusSuccess = "success"

	serviceName        = "STUF API"
	serviceID          = "stuf-api"
	serviceVersion     = "0.1.0"
	serviceDescription = "Secure Transfer Upload Facility API"
	statusHealthy      = "healthy"

	principalTypeUser           = "user"
	principalTypeServiceAccount = "service_account"

	fallbackDownloadName = "download"

	dispositionAttachment    = "attachment"
	dispositionParamFilename = "filename"

	msgCollectionRequired   = "collection is required"
	msgFileRequired         = "file is required"
	msgFileOpenFailed       = "failed to read uploaded file"
	msgFileUploaded         = "File uploaded successfully"
	msgFileDeleted          = "File deleted successfully"
	msgUnknownPrincipalType = "unknown principal type"
)
