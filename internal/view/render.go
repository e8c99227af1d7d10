// internal/view/render.go
//
// Central view engine: template lookup, func-map injection, and an LRU of
// parsed *template.Template sets.
//
// Public helpers
// --------------
//   - Render         – write rendered HTML to an http.ResponseWriter.
//   - RenderToString – return template.HTML (e-mail bodies, fragments).
//
// Templates live under components/<comp>/templates/.  All *.html files in
// the same directory are parsed as one set so sub-templates
// ({{ template "field" . }}) work out-of-the-box.
//
// execName() chooses the best template to execute:
//   - If the set contains "<name>.html", we run that (file has no define).
//   - Else we fall back to "<name>" (root template defined via {{ define }}).
//
// Callers pass the logical name (e.g. "login"); view.Render figures out the
// concrete template automatically.

package view

import (
	"bytes"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/nwatch/portal/internal/cache"
)

// Parsed template sets; tweak capacity when perf-testing.
var tmplLRU = cache.New(256)

// root is the directory holding components/.  Set once at boot.
var root = "."

// SetRoot points the engine at the application root directory.
func SetRoot(dir string) {
	if dir != "" {
		root = dir
	}
}

//
// public helpers
//

// Render executes the template set for comp/name and streams it to w.
func Render(w http.ResponseWriter, comp, name string, data any) error {
	t, err := load(comp, name)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.ExecuteTemplate(w, execName(t, name), data)
}

// RenderToString executes and returns HTML.  It mirrors Render, but writes
// to a buffer instead of w.
func RenderToString(comp, name string, data any) (template.HTML, error) {
	t, err := load(comp, name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, execName(t, name), data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

//
// internal: load
//

// load finds and (if necessary) parses the template set for the given
// component and base name.
func load(comp, name string) (*template.Template, error) {
	key := strings.Join([]string{comp, name}, "::")
	if v, ok := tmplLRU.Get(key); ok {
		return v.(*template.Template), nil
	}

	base := filepath.Join(root, "components", comp, "templates", name+".html")
	if _, err := os.Stat(base); err != nil {
		return nil, err
	}

	// Parse all *.html in the same directory so sub-templates work.
	pattern := filepath.Join(filepath.Dir(base), "*.html")
	t, err := template.New(name).Funcs(buildFuncMap()).ParseGlob(pattern)
	if err != nil {
		return nil, err
	}

	tmplLRU.Add(key, t)
	return t, nil
}

//
// helpers
//

func buildFuncMap() template.FuncMap {
	fm := template.FuncMap{"dict": dict}
	for k, v := range uaFuncMap() {
		fm[k] = v
	}
	return fm
}

// execName picks the template name to execute.
//
// Priority:
//  1. If the set has "<name>.html" (file-based template), run that.
//  2. Otherwise, fall back to "<name>" (root template defined in code).
func execName(t *template.Template, name string) string {
	if tmpl := t.Lookup(name + ".html"); tmpl != nil {
		return name + ".html"
	}
	return name
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}
