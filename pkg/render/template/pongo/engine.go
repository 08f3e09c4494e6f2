package pongo

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"strings"
	"sync"
	"unicode"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-credform/pkg/render/template"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	overrideDir string
	files       fs.FS
	extension   string
	globals     map[string]any
}

// WithBaseDir searches dir before the fs.FS given to WithFS. Files in dir use
// the same relative paths, so a single template can be overridden on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.overrideDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from files.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.files = files
	}
}

// WithExtension sets the extension appended to names that lack it. Defaults to
// ".tmpl".
func WithExtension(ext string) Option {
	return func(cfg *config) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.extension = ext
	}
}

// WithGlobals exposes values to every template. Render data wins on conflict.
func WithGlobals(globals map[string]any) Option {
	return func(cfg *config) {
		if len(globals) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(globals))
		}
		for key, value := range globals {
			if key = strings.TrimSpace(key); key != "" {
				cfg.globals[key] = value
			}
		}
	}
}

// Engine renders named templates from a pongo2 template set and caches each
// parsed template by path.
type Engine struct {
	set       *pongo2.TemplateSet
	extension string

	mu     sync.RWMutex
	parsed map[string]*pongo2.Template
}

var _ template.TemplateRenderer = (*Engine)(nil)

var (
	errNoSource  = errors.New("pongo: WithFS or WithBaseDir is required")
	filtersOnce  sync.Once
	filtersError error
)

// New builds an engine over the configured sources.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: ".tmpl"}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.overrideDir == "" && cfg.files == nil {
		return nil, errNoSource
	}

	var loaders []pongo2.TemplateLoader
	if cfg.overrideDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.overrideDir)
		if err != nil {
			return nil, fmt.Errorf("pongo: template dir %q: %w", cfg.overrideDir, err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.files != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.files))
	}

	if err := registerFilters(); err != nil {
		return nil, err
	}

	set := pongo2.NewSet("credform", loaders...)
	set.Globals = pongo2.Context{}
	maps.Copy(set.Globals, cfg.globals)

	return &Engine{
		set:       set,
		extension: cfg.extension,
		parsed:    make(map[string]*pongo2.Template),
	}, nil
}

// RenderTemplate executes the named template with data and copies the result
// to every non-nil writer in out.
func (e *Engine) RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("pongo: engine is nil")
	}
	path := name
	if !strings.HasSuffix(path, e.extension) {
		path += e.extension
	}

	tmpl, err := e.lookup(path)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(pongo2.Context(data), &buf); err != nil {
		return "", fmt.Errorf("pongo: execute %q: %w", path, err)
	}
	rendered := buf.String()
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return rendered, err
		}
	}
	return rendered, nil
}

func (e *Engine) lookup(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.parsed[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.parsed[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("pongo: load %q: %w", path, err)
	}
	e.parsed[path] = tmpl
	return tmpl, nil
}

// registerFilters installs trim and domid. pongo2 filters are process wide.
func registerFilters() error {
	filtersOnce.Do(func() {
		for name, fn := range map[string]pongo2.FilterFunction{
			"trim":  filterTrim,
			"domid": filterDOMID,
		} {
			if pongo2.FilterExists(name) {
				continue
			}
			if err := pongo2.RegisterFilter(name, fn); err != nil {
				filtersError = fmt.Errorf("pongo: register filter %q: %w", name, err)
				return
			}
		}
	})
	return filtersError
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterDOMID turns a variable name into an id fragment. The optional param is
// a prefix joined with "-".
func filterDOMID(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	id := DOMID(in.String())
	if param != nil && !param.IsNil() {
		if prefix := DOMID(param.String()); prefix != "" {
			id = prefix + "-" + id
		}
	}
	return pongo2.AsValue(id), nil
}

// DOMID keeps letters, digits, '-' and '_' and replaces everything else with
// '-'.
func DOMID(value string) string {
	value = strings.TrimSpace(value)
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
