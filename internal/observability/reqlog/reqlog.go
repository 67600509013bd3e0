// Package reqlog escribe las dos bitácoras de requests del laboratorio:
//
//	formatted.log  URL, UserAgent, Cookie y Payload
//	raw.log        lo anterior + método y headers de interés
//
// Los headers ausentes se escriben como "undefined" para que los consumidores
// existentes de estos logs sigan funcionando.
//
// Diferencias con las bitácoras del servidor Express:
//   - El router solo registra requests bajo /api. Los estáticos y las rutas
//     fuera de /api (incluidas las que no existen) no se escriben.
//   - Un cuerpo JSON se compacta conservando el orden de sus claves. Un cuerpo
//     urlencoded ya parseado es un map, así que encoding/json lo escribe con
//     las claves ordenadas alfabéticamente, no en el orden del request.
package reqlog

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FormattedFile = "formatted.log"
	RawFile       = "raw.log"

	missing = "undefined"
)

// Writer escribe una línea por request en cada archivo.
type Writer struct {
	formatted *zap.Logger
	raw       *zap.Logger
	closers   []func()
}

// Open crea dir si no existe y abre (append) formatted.log y raw.log.
func Open(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("reqlog: mkdir %s: %w", dir, err)
	}
	w := &Writer{}
	var err error
	if w.formatted, err = w.open(filepath.Join(dir, FormattedFile)); err != nil {
		w.Close()
		return nil, err
	}
	if w.raw, err = w.open(filepath.Join(dir, RawFile)); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

func (w *Writer) open(path string) (*zap.Logger, error) {
	ws, closeFn, err := zap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reqlog: open %s: %w", path, err)
	}
	w.closers = append(w.closers, closeFn)
	return zap.New(zapcore.NewCore(lineEncoder(), ws, zapcore.DebugLevel)), nil
}

// lineEncoder emite solo el mensaje, una línea por entrada.
func lineEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey: "msg",
		LineEnding: zapcore.DefaultLineEnding,
	})
}

// Close flushea y cierra ambos archivos.
func (w *Writer) Close() {
	for _, l := range []*zap.Logger{w.formatted, w.raw} {
		if l != nil {
			_ = l.Sync()
		}
	}
	for _, c := range w.closers {
		c()
	}
	w.closers = nil
}

// Log escribe la entrada de r. payload ya debe venir renderizado (ver Payload).
func (w *Writer) Log(r *http.Request, payload string) {
	w.formatted.Info(FormattedLine(r, payload))
	w.raw.Info(RawLine(r, payload))
}

// FormattedLine arma la línea de formatted.log (sin salto de línea).
func FormattedLine(r *http.Request, payload string) string {
	return fmt.Sprintf("URL: %s, UserAgent: %s, Cookie: %s, Payload: %s",
		host(r), header(r, "User-Agent"), header(r, "Cookie"), payload)
}

// RawLine arma la línea de raw.log (sin salto de línea).
func RawLine(r *http.Request, payload string) string {
	return fmt.Sprintf("Method: %s, URL: %s, UserAgent: %s, Cookie: %s, Payload: %s, ContentType: %s, ContentLanguage: %s, Origin: %s, Authorization: %s, Location: %s",
		r.Method, host(r), header(r, "User-Agent"), header(r, "Cookie"), payload,
		header(r, "Content-Type"), header(r, "Content-Language"), header(r, "Origin"),
		header(r, "Authorization"), header(r, "Location"))
}

// Payload renderiza el cuerpo según el media type:
// json y urlencoded como JSON compacto, octet-stream en hex, text/* tal cual.
// parsed es el cuerpo ya decodificado (urlencoded); raw los bytes originales.
func Payload(r *http.Request, parsed any, raw []byte) string {
	if !hasBody(r) {
		return ""
	}
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	switch {
	case mt == "application/json":
		var buf bytes.Buffer
		if len(raw) > 0 && json.Compact(&buf, raw) == nil {
			return buf.String()
		}
		return marshal(parsed)
	case mt == "application/x-www-form-urlencoded":
		return marshal(parsed)
	case mt == "application/octet-stream":
		return hex.EncodeToString(raw)
	case strings.HasPrefix(mt, "text/"):
		return string(raw)
	default:
		return ""
	}
}

func marshal(v any) string {
	if v == nil {
		return "{}"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func hasBody(r *http.Request) bool {
	return r.ContentLength > 0 || len(r.TransferEncoding) > 0
}

func host(r *http.Request) string {
	if r.Host == "" {
		return missing
	}
	return r.Host
}

func header(r *http.Request, k string) string {
	vals, ok := r.Header[http.CanonicalHeaderKey(k)]
	if !ok || len(vals) == 0 {
		return missing
	}
	return strings.Join(vals, ", ")
}
