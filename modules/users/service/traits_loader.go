package service

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadKnownTraits reads a JSON array of trait ids from path and builds the
// closed vocabulary FormService validates self_traits/ideal_traits
// against. A malformed file is a startup-time defect
// callers should terminate on, the same way a malformed tag catalog is.
func LoadKnownTraits(path string) (KnownTraits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("known traits: read %s: %w", path, err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("known traits: invalid JSON: %w", err)
	}

	traits := make(KnownTraits, len(ids))
	for _, id := range ids {
		traits[id] = struct{}{}
	}
	return traits, nil
}
