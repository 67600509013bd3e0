package router

import (
	"net/http"
	"os"
	"path"
	"strings"

	mw "github.com/dvws-go/dvws/internal/http/middlewares"
	"github.com/dvws-go/dvws/internal/observability/logger"
)

// StaticMount sirve Dir bajo el prefijo URL Prefix.
type StaticMount struct {
	Prefix string
	Dir    string
}

// withStatic sirve archivos existentes de los mounts (en orden) para GET y
// HEAD. Si ningún mount tiene el archivo, el request sigue al resto del
// pipeline. Los directorios inexistentes se descartan al arrancar.
func withStatic(mounts []StaticMount) mw.Middleware {
	dirs := make([]StaticMount, 0, len(mounts))
	for _, m := range mounts {
		if st, err := os.Stat(m.Dir); err != nil || !st.IsDir() {
			logger.L().Warn("static dir not found, skipping",
				logger.Path(m.Prefix), logger.String("dir", m.Dir))
			continue
		}
		m.Prefix = "/" + strings.Trim(m.Prefix, "/")
		dirs = append(dirs, m)
	}

	return func(next http.Handler) http.Handler {
		if len(dirs) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			for _, m := range dirs {
				rel, ok := stripPrefix(r.URL.Path, m.Prefix)
				if !ok {
					continue
				}
				if serveFile(w, r, http.Dir(m.Dir), rel) {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func stripPrefix(p, prefix string) (string, bool) {
	if prefix == "/" {
		return p, true
	}
	if p == prefix {
		return "/", true
	}
	if strings.HasPrefix(p, prefix+"/") {
		return p[len(prefix):], true
	}
	return "", false
}

// serveFile responde con rel si existe en dir (index.html para directorios).
func serveFile(w http.ResponseWriter, r *http.Request, dir http.Dir, rel string) bool {
	rel = path.Clean("/" + rel)
	f, err := dir.Open(rel)
	if err != nil {
		return false
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return false
	}
	if st.IsDir() {
		index, err := dir.Open(path.Join(rel, "index.html"))
		if err != nil {
			return false
		}
		defer index.Close()
		ist, err := index.Stat()
		if err != nil || ist.IsDir() {
			return false
		}
		http.ServeContent(w, r, ist.Name(), ist.ModTime(), index)
		return true
	}
	http.ServeContent(w, r, st.Name(), st.ModTime(), f)
	return true
}
