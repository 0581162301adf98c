package icon

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.json
var defaultCatalogJSON []byte

// ErrInvalidCatalog is returned when a catalog file cannot be decoded
var ErrInvalidCatalog = goerr.New("invalid icon catalog")

// Catalog is an immutable, ordered set of icons
type Catalog struct {
	icons  []model.Icon
	byName map[string]int
}

// NewCatalog copies icons into a catalog. Entries without a name or any
// descriptive text are skipped; later duplicates of a name are ignored.
func NewCatalog(icons []model.Icon) *Catalog {
	c := &Catalog{
		byName: make(map[string]int, len(icons)),
	}
	for _, ic := range icons {
		if ic.Name == "" || (ic.Description == "" && len(ic.Keywords) == 0 && len(ic.UseCases) == 0) {
			continue
		}
		if _, dup := c.byName[ic.Name]; dup {
			continue
		}
		ic.Keywords = append([]string(nil), ic.Keywords...)
		ic.UseCases = append([]string(nil), ic.UseCases...)
		c.byName[ic.Name] = len(c.icons)
		c.icons = append(c.icons, ic)
	}
	return c
}

// DefaultCatalog returns the built-in catalog
func DefaultCatalog() (*Catalog, error) {
	icons, err := decodeCatalog(".json", defaultCatalogJSON)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode built-in icon catalog")
	}
	return NewCatalog(icons), nil
}

// LoadCatalog reads a catalog file. The format is chosen by extension: .json, .yaml/.yml or .toml.
// An empty path returns the built-in catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read icon catalog", goerr.V("path", path))
	}

	icons, err := decodeCatalog(strings.ToLower(filepath.Ext(path)), data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode icon catalog", goerr.V("path", path))
	}
	return NewCatalog(icons), nil
}

// tomlCatalog is the TOML layout: a list of [[icon]] tables
type tomlCatalog struct {
	Icons []model.Icon `toml:"icon"`
}

func decodeCatalog(ext string, data []byte) ([]model.Icon, error) {
	var icons []model.Icon
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &icons); err != nil {
			return nil, goerr.Wrap(ErrInvalidCatalog, "malformed JSON catalog", goerr.V("error", err.Error()))
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &icons); err != nil {
			return nil, goerr.Wrap(ErrInvalidCatalog, "malformed YAML catalog", goerr.V("error", err.Error()))
		}
	case ".toml":
		var doc tomlCatalog
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, goerr.Wrap(ErrInvalidCatalog, "malformed TOML catalog", goerr.V("error", err.Error()))
		}
		icons = doc.Icons
	default:
		return nil, goerr.Wrap(ErrInvalidCatalog, "unsupported catalog format", goerr.V("ext", ext))
	}
	return icons, nil
}

// Icons returns a copy of the catalog entries in order
func (c *Catalog) Icons() []model.Icon {
	out := make([]model.Icon, len(c.icons))
	copy(out, c.icons)
	return out
}

func (c *Catalog) Len() int {
	return len(c.icons)
}

// Lookup finds an icon by file name
func (c *Catalog) Lookup(name string) (model.Icon, bool) {
	i, ok := c.byName[name]
	if !ok {
		return model.Icon{}, false
	}
	return c.icons[i], true
}

// document is the text indexed for an icon
func document(ic model.Icon) string {
	parts := make([]string, 0, 2+len(ic.UseCases))
	parts = append(parts, strings.Join(ic.Keywords, " "), ic.Description)
	parts = append(parts, ic.UseCases...)
	return strings.Join(parts, " ")
}
