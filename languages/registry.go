package languages

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sourcegraph/scip-semantic/localscope"
)

// Loader builds a Configuration for one language on demand. Configurations
// are expensive to compile (they parse and validate a tree-sitter query),
// so the registry calls the Loader only the first time a language is
// requested and caches what it returned, Configuration and error alike.
type Loader func() (*localscope.Configuration, error)

type entry struct {
	load Loader
	ext  []string

	once sync.Once
	cfg  *localscope.Configuration
	err  error
}

var (
	mu     sync.RWMutex
	byName = make(map[string]*entry)
	byExt  = make(map[string]*entry)
)

// Register makes a language's loader available under name and every
// extension in ext (each normalized to a leading dot, e.g. ".go").
func Register(name string, load Loader, ext ...string) {
	e := &entry{load: load, ext: ext}

	mu.Lock()
	defer mu.Unlock()

	byName[strings.ToLower(name)] = e
	for _, x := range ext {
		byExt[normalizeExt(x)] = e
	}
}

func init() {
	Register("go", Go, ".go")
}

// RegisterExtension routes an additional file extension to an
// already-registered language, without recompiling or replacing its
// Loader. Used by LoadManifest to let a deployment claim extra
// extensions (e.g. ".gotmpl") for a grammar that is already compiled in.
func RegisterExtension(name, ext string) error {
	mu.Lock()
	defer mu.Unlock()

	e, ok := byName[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("languages: no locals query registered for language %q", name)
	}
	byExt[normalizeExt(ext)] = e
	return nil
}

// ForName returns the compiled Configuration registered under name.
func ForName(name string) (*localscope.Configuration, error) {
	mu.RLock()
	e, ok := byName[strings.ToLower(name)]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("languages: no locals query registered for language %q", name)
	}
	return resolve(e)
}

// ForExtension returns the compiled Configuration registered for a file
// extension such as ".go". The second return value is false if no
// language claims that extension.
func ForExtension(ext string) (*localscope.Configuration, bool, error) {
	mu.RLock()
	e, ok := byExt[normalizeExt(ext)]
	mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	cfg, err := resolve(e)
	return cfg, true, err
}

func resolve(e *entry) (*localscope.Configuration, error) {
	e.once.Do(func() {
		e.cfg, e.err = e.load()
	})
	return e.cfg, e.err
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
