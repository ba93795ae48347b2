package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// mappingFile is the exercise mapping export format: exercise id to
// display name.
type mappingFile struct {
	CorrectMapping map[string]string `json:"correct_mapping"`
}

// ParseMapping decodes an exercise mapping JSON file into catalog entries,
// deriving each category from the exercise name.
func ParseMapping(r io.Reader) ([]Exercise, error) {
	var mf mappingFile
	if err := json.NewDecoder(r).Decode(&mf); err != nil {
		return nil, fmt.Errorf("parsing mapping file: %w", err)
	}
	if len(mf.CorrectMapping) == 0 {
		return nil, fmt.Errorf("mapping file contains no exercises")
	}

	entries := make([]Exercise, 0, len(mf.CorrectMapping))
	for id, name := range mf.CorrectMapping {
		entries = append(entries, Exercise{ID: id, Name: name, Category: CategoryForName(name)})
	}
	return entries, nil
}

// ImportMapping reads an exercise mapping JSON file and upserts every entry.
// Returns the number of entries imported.
func (c *Catalog) ImportMapping(ctx context.Context, r io.Reader) (int, error) {
	entries, err := ParseMapping(r)
	if err != nil {
		return 0, err
	}
	for i, e := range entries {
		if err := c.Upsert(ctx, e); err != nil {
			return i, err
		}
	}
	return len(entries), nil
}
