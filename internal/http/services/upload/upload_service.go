// Package upload contiene el service que guarda archivos subidos.
package upload

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	dto "github.com/dvws-go/dvws/internal/http/dto/upload"
	"github.com/dvws-go/dvws/internal/observability/logger"
	"github.com/dvws-go/dvws/internal/util/atomicwrite"
)

// Errores de upload
var (
	ErrInvalidName = errors.New("invalid file name")
	ErrTooLarge    = errors.New("file too large")
)

// UploadService guarda archivos en el directorio de uploads.
type UploadService interface {
	Save(ctx context.Context, fh *multipart.FileHeader) (*dto.UploadResponse, error)
}

// Deps contiene las dependencias del upload service.
type Deps struct {
	Dir      string
	MaxBytes int64 // <= 0 sin límite
}

type uploadService struct {
	deps Deps
}

// NewUploadService crea un nuevo service de upload.
func NewUploadService(deps Deps) UploadService {
	return &uploadService{deps: deps}
}

func (s *uploadService) Save(ctx context.Context, fh *multipart.FileHeader) (*dto.UploadResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("upload"),
		logger.Op("Save"),
	)

	name := SanitizeName(fh.Filename)
	if name == "" {
		return nil, ErrInvalidName
	}
	if s.deps.MaxBytes > 0 && fh.Size > s.deps.MaxBytes {
		return nil, ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	n, err := atomicwrite.WriteFrom(filepath.Join(s.deps.Dir, name), src, 0o644)
	if err != nil {
		return nil, fmt.Errorf("write file: %w", err)
	}

	log.Info("file stored", logger.Filename(name), logger.Int("size", int(n)))
	return &dto.UploadResponse{Filename: name, Size: n}, nil
}

// SanitizeName reduce el nombre enviado por el cliente a su base, sin
// directorios ni separadores de Windows. Devuelve "" si no queda nada usable.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(filepath.Clean("/" + name))
	switch base {
	case "", ".", "..", "/":
		return ""
	}
	return base
}
