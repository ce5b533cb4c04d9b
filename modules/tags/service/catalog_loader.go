package service

import (
	"fmt"
	"os"

	"github.com/hilomatch/hilo-core/modules/tags/model"
)

// LoadCatalog reads and parses the tag definition file at path. Any error
// here is fatal configuration: callers at process startup
// must terminate rather than run with a partially-loaded catalog.
func LoadCatalog(path string) (*model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tag catalog: read %s: %w", path, err)
	}
	catalog, err := model.Load(data)
	if err != nil {
		return nil, err
	}
	return catalog, nil
}
