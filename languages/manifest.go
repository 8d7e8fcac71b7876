package languages

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest describes the file extensions a deployment wants routed to
// each compiled-in language. It does not load grammars dynamically — a
// tree-sitter grammar binding has to be compiled into the binary (see
// registry.go's init) — it only lets operators claim additional
// extensions for a language without a rebuild, e.g. routing ".gotmpl" to
// the "go" locals query.
type Manifest struct {
	Languages []ManifestLanguage `yaml:"languages"`
}

type ManifestLanguage struct {
	Name       string   `yaml:"name"`
	Extensions []string `yaml:"extensions"`
}

// LoadManifest reads a YAML manifest from path and applies its extension
// routing on top of whatever languages are already registered.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("languages: reading manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("languages: parsing manifest %s: %w", path, err)
	}

	for _, lang := range m.Languages {
		for _, ext := range lang.Extensions {
			if err := RegisterExtension(lang.Name, ext); err != nil {
				return nil, err
			}
		}
	}

	return &m, nil
}
