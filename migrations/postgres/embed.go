// Package migrations embeds the PostgreSQL schema migrations.
package migrations

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

// FS contains the *_up.sql and *_down.sql migrations.
//
//go:embed *.sql
var FS embed.FS

// Up lista las migraciones *_up.sql en orden ascendente.
func Up() ([]string, error) { return list("_up.sql", false) }

// Down lista las migraciones *_down.sql en orden inverso (la más reciente primero).
func Down() ([]string, error) { return list("_down.sql", true) }

func list(suffix string, reverse bool) ([]string, error) {
	entries, err := fs.ReadDir(FS, ".")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(strings.ToLower(e.Name()), suffix) {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	if reverse {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}
