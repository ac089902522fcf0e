package handler

import (
	"errors"
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"

	"stuf-api/internal/audit"
	"stuf-api/internal/auth"
	"stuf-api/internal/domain/file"
	"stuf-api/internal/domain/principal"
	"stuf-api/internal/http/middleware"
	"stuf-api/internal/usecase"
	apperrors "stuf-api/pkg/errors"
)

type FileHandler struct {
	uploadUC   *usecase.UploadFileUseCase
	listUC     *usecase.ListFilesUseCase
	downloadUC *usecase.DownloadFileUseCase
	deleteUC   *usecase.DeleteFileUseCase
	auditLog   *audit.Logger
}

func NewFileHandler(
	uploadUC *usecase.UploadFileUseCase,
	listUC *usecase.ListFilesUseCase,
	downloadUC *usecase.DownloadFileUseCase,
	deleteUC *usecase.DeleteFileUseCase,
	auditLog *audit.Logger,
) *FileHandler {
	return &FileHandler{
		uploadUC:   uploadUC,
		listUC:     listUC,
		downloadUC: downloadUC,
		deleteUC:   deleteUC,
		auditLog:   auditLog,
	}
}

type UploadFileResponse struct {
	Status     string            `json:"status"`
	Message    string            `json:"message"`
	ObjectName string            `json:"object_name"`
	Collection string            `json:"collection"`
	Metadata   map[string]string `json:"metadata"`
}

type ListFilesResponse struct {
	Status     string       `json:"status"`
	Collection string       `json:"collection"`
	Files      []*file.File `json:"files"`
}

// UploadFile stores a multipart upload in a collection. The metadata
// form field is a JSON object string defaulting to "{}".
func (h *FileHandler) UploadFile(c echo.Context) error {
	p, err := auth.GetPrincipal(c)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	collection := c.FormValue(formFieldCollection)
	if collection == "" {
		collection = c.Param(paramCollection)
	}
	if collection == "" {
		return respondError(c, http.StatusBadRequest, msgCollectionRequired)
	}

	metadata := c.FormValue(formFieldMetadata)
	if metadata == "" {
		metadata = defaultMetadataJSON
	}

	fileHeader, err := c.FormFile(formFieldFile)
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgFileRequired)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgFileOpenFailed)
	}
	defer src.Close()

	record, err := h.uploadUC.Execute(c.Request().Context(), usecase.UploadInput{
		Collection:  collection,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
		Content:     src,
		Metadata:    metadata,
	}, p)

	h.recordAudit(c, p, audit.ActionUpload, collection, objectNameForAudit(record), err)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusOK, UploadFileResponse{
		Status:     statusSuccess,
		Message:    msgFileUploaded,
		ObjectName: record.ObjectName,
		Collection: record.Collection,
		Metadata:   record.Metadata,
	})
}

// ListFiles lists the files in a collection.
func (h *FileHandler) ListFiles(c echo.Context) error {
	p, err := auth.GetPrincipal(c)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	collection := c.Param(paramCollection)

	files, err := h.listUC.Execute(c.Request().Context(), collection, p)
	h.recordAudit(c, p, audit.ActionList, collection, "", err)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	if files == nil {
		files = []*file.File{}
	}

	return c.JSON(http.StatusOK, ListFilesResponse{
		Status:     statusSuccess,
		Collection: collection,
		Files:      files,
	})
}

// DownloadFile streams an object back with its stored content type and
// an attachment disposition.
func (h *FileHandler) DownloadFile(c echo.Context) error {
	p, err := auth.GetPrincipal(c)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	collection := c.Param(paramCollection)
	objectName := c.Param(paramObjectName)

	content, record, err := h.downloadUC.Execute(c.Request().Context(), collection, objectName, p)
	h.recordAudit(c, p, audit.ActionDownload, collection, objectName, err)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		mime.FormatMediaType(dispositionAttachment, map[string]string{
			dispositionParamFilename: downloadFilename(record, objectName),
		}))

	return c.Blob(http.StatusOK, record.ContentType, content)
}

// DeleteFile removes an object from a collection.
func (h *FileHandler) DeleteFile(c echo.Context) error {
	p, err := auth.GetPrincipal(c)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	collection := c.Param(paramCollection)
	objectName := c.Param(paramObjectName)

	err = h.deleteUC.Execute(c.Request().Context(), collection, objectName, p)
	h.recordAudit(c, p, audit.ActionDelete, collection, objectName, err)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":       statusSuccess,
		jsonKeyMessage: msgFileDeleted,
	})
}

// downloadFilename picks the attachment filename: stored metadata,
// then the parsed original filename, then the last key segment, then a
// constant fallback.
func downloadFilename(record *file.File, objectName string) string {
	if name := record.Metadata[file.MetadataKeyOriginalFilename]; name != "" {
		return name
	}
	if record.OriginalFilename != "" {
		return record.OriginalFilename
	}
	if parsed := file.ParseStoragePath(objectName); parsed.OriginalFilename != "" {
		return parsed.OriginalFilename
	}
	return fallbackDownloadName
}

func (h *FileHandler) recordAudit(c echo.Context, p principal.Principal, action audit.Action, collection, objectName string, opErr error) {
	status := audit.StatusSuccess
	if opErr != nil {
		status = audit.StatusFailure
		if errors.Is(opErr, apperrors.ErrInsufficientPerms) {
			status = audit.StatusDenied
		}
	}

	h.auditLog.Record(audit.Event{
		Actor:      p.Identifier(),
		ActorType:  actorType(p),
		Action:     action,
		Collection: collection,
		ObjectName: objectName,
		Status:     status,
		RequestID:  middleware.GetRequestID(c),
	})
}

func actorType(p principal.Principal) audit.ActorType {
	if _, ok := p.(*principal.ServiceAccount); ok {
		return audit.ActorTypeServiceAccount
	}
	return audit.ActorTypeUser
}

func objectNameForAudit(record *file.File) string {
	if record == nil {
		return ""
	}
	return record.ObjectName
}
