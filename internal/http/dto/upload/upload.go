// Package upload contiene DTOs para la subida de archivos.
package upload

// UploadResponse describe el archivo guardado.
type UploadResponse struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}
