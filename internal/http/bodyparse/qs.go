// Package bodyparse decodifica cuerpos urlencoded con claves anidadas
// (a[b][c]=1, a[]=1, a[0]=1) en mapas y slices, con límite de profundidad
// y de índice de array.
package bodyparse

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Options limita el anidamiento.
type Options struct {
	// Depth es la cantidad máxima de segmentos [x] que se expanden; el resto
	// de la clave queda como un segmento literal.
	Depth int
	// ArrayLimit es el índice máximo que se interpreta como posición de array;
	// índices mayores se tratan como claves de objeto.
	ArrayLimit int
}

var DefaultOptions = Options{Depth: 5, ArrayLimit: 20}

// ParseQuery decodifica un cuerpo application/x-www-form-urlencoded
// respetando el orden de los pares.
func ParseQuery(raw string, o Options) (map[string]any, error) {
	root := map[string]any{}
	for _, pair := range strings.FieldsFunc(raw, func(r rune) bool { return r == '&' }) {
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, err
		}
		val, err := url.QueryUnescape(v)
		if err != nil {
			return nil, err
		}
		if key == "" {
			continue
		}
		Set(root, key, val, o)
	}
	return Finalize(root), nil
}

// ParseValues decodifica url.Values (por ejemplo campos multipart). Las claves
// se procesan en orden alfabético.
func ParseValues(values url.Values, o Options) map[string]any {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	root := map[string]any{}
	for _, k := range keys {
		for _, v := range values[k] {
			Set(root, k, v, o)
		}
	}
	return Finalize(root)
}

// Set inserta key=val en root. El resultado contiene nodos internos; llamar
// Finalize antes de exponerlo.
func Set(root map[string]any, key string, val string, o Options) {
	segs := splitKey(key, o.Depth)
	head, rest := segs[0], segs[1:]
	root[head] = assign(root[head], rest, val, o)
}

// sparse acumula posiciones de array hasta Finalize. n es el siguiente
// índice libre; obj marca que se pasó ArrayLimit agregando y el resultado
// será un objeto con claves "0", "1", ...
type sparse struct {
	items map[int]any
	n     int
	obj   bool
}

func newSparse(vals ...any) *sparse {
	s := &sparse{items: make(map[int]any, len(vals))}
	for i, v := range vals {
		s.put(i, v)
	}
	return s
}

func (s *sparse) put(i int, v any) {
	s.items[i] = v
	if i >= s.n {
		s.n = i + 1
	}
}

// push agrega al final.
func (s *sparse) push(v any, limit int) {
	if s.n > limit {
		s.obj = true
	}
	s.put(s.n, v)
}

func assign(cur any, segs []string, val string, o Options) any {
	if len(segs) == 0 {
		switch c := cur.(type) {
		case nil:
			return val
		case string:
			// clave repetida: a=1&a=2
			return newSparse(c, val)
		case *sparse:
			c.push(val, o.ArrayLimit)
			return c
		default:
			return val
		}
	}

	seg, rest := segs[0], segs[1:]

	if seg == "" {
		if a := asSparse(cur); a != nil {
			a.push(assign(nil, rest, val, o), o.ArrayLimit)
			return a
		}
		m := cur.(map[string]any)
		k := strconv.Itoa(len(m))
		m[k] = assign(nil, rest, val, o)
		return m
	}

	if idx, ok := arrayIndex(seg, o.ArrayLimit); ok {
		if a := asSparse(cur); a != nil {
			a.put(idx, assign(a.items[idx], rest, val, o))
			return a
		}
	}

	m := asMap(cur)
	m[seg] = assign(m[seg], rest, val, o)
	return m
}

func arrayIndex(seg string, limit int) (int, bool) {
	idx, err := strconv.Atoi(seg)
	if err != nil || idx < 0 || idx > limit || strconv.Itoa(idx) != seg {
		return 0, false
	}
	return idx, true
}

// asSparse devuelve cur como array; nil si cur ya es un objeto.
func asSparse(cur any) *sparse {
	switch c := cur.(type) {
	case nil:
		return newSparse()
	case *sparse:
		return c
	case string:
		return newSparse(c)
	default:
		return nil
	}
}

// asMap devuelve cur como objeto; un array se convierte a claves "0", "1", ...
func asMap(cur any) map[string]any {
	switch c := cur.(type) {
	case map[string]any:
		return c
	case *sparse:
		m := make(map[string]any, len(c.items))
		for i, v := range c.items {
			m[strconv.Itoa(i)] = v
		}
		return m
	default:
		return map[string]any{}
	}
}

// Finalize convierte los arrays internos en []any compactos (en orden de
// índice), o en objetos si al agregar se pasó ArrayLimit.
func Finalize(v map[string]any) map[string]any {
	for k, x := range v {
		v[k] = finalize(x)
	}
	return v
}

func finalize(v any) any {
	switch c := v.(type) {
	case map[string]any:
		return Finalize(c)
	case *sparse:
		if c.obj {
			m := make(map[string]any, len(c.items))
			for i, x := range c.items {
				m[strconv.Itoa(i)] = finalize(x)
			}
			return m
		}
		idx := make([]int, 0, len(c.items))
		for i := range c.items {
			idx = append(idx, i)
		}
		sort.Ints(idx)
		out := make([]any, 0, len(idx))
		for _, i := range idx {
			out = append(out, finalize(c.items[i]))
		}
		return out
	default:
		return v
	}
}

// splitKey separa "a[b][c]" en ["a","b","c"]. Más allá de depth segmentos, el
// resto queda literal (ej. "[f][g]"). Una clave con corchetes desbalanceados
// se usa completa.
func splitKey(key string, depth int) []string {
	open := strings.IndexByte(key, '[')
	if open <= 0 || strings.IndexByte(key[open:], ']') < 0 {
		return []string{key}
	}
	segs := []string{key[:open]}
	rest := key[open:]
	for len(rest) > 0 && rest[0] == '[' && len(segs) <= depth {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			break
		}
		segs = append(segs, rest[1:end])
		rest = rest[end+1:]
	}
	if rest != "" {
		segs = append(segs, rest)
	}
	return segs
}
