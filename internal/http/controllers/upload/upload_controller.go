// Package upload contiene el controller de subida de archivos.
package upload

import (
	"errors"
	"net/http"

	httperrors "github.com/dvws-go/dvws/internal/http/errors"
	"github.com/dvws-go/dvws/internal/http/helpers"
	mw "github.com/dvws-go/dvws/internal/http/middlewares"
	svc "github.com/dvws-go/dvws/internal/http/services/upload"
	"github.com/dvws-go/dvws/internal/observability/logger"
)

// FileField es el campo multipart que lleva el archivo.
const FileField = "file"

// UploadController maneja POST /api/upload.
type UploadController struct {
	service svc.UploadService
}

// NewUploadController crea un nuevo controller de upload.
func NewUploadController(service svc.UploadService) *UploadController {
	return &UploadController{service: service}
}

// Upload guarda el archivo del campo "file" (parseado por WithBodyParser).
func (c *UploadController) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("UploadController.Upload"))

	files := mw.GetFiles(ctx)[FileField]
	if len(files) == 0 {
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("multipart field \"file\" is required"))
		return
	}

	res, err := c.service.Save(ctx, files[0])
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrInvalidName):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("invalid file name"))
		case errors.Is(err, svc.ErrTooLarge):
			httperrors.WriteError(w, httperrors.ErrBodyTooLarge)
		default:
			log.Error("upload failed", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		}
		return
	}

	mw.RecordUpload()
	helpers.WriteJSON(w, http.StatusCreated, res)
}
