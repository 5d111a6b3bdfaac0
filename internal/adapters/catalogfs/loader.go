// Package catalogfs loads the structure catalog from a directory of JSON
// documents, one file per family, organized into per-category
// subdirectories (army/, resources/, defenses/, traps/).
//
// Loading is deliberately forgiving: a document that fails to parse or
// validate becomes an unavailable placeholder family plus a warning on the
// snapshot, never a batch failure. The tracker keeps working with whatever
// slice of the catalog is healthy.
package catalogfs

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/mateuspires/basetracker-go/internal/domain/catalog"
	"github.com/mateuspires/basetracker-go/pkg/duration"
)

//go:embed family.schema.json
var familySchemaSource string

var familySchema = jsonschema.MustCompileString("family.schema.json", familySchemaSource)

// categoryDirs maps subdirectory names to catalog categories, in load order
var categoryDirs = []struct {
	dir      string
	category catalog.Category
}{
	{"army", catalog.CategoryArmy},
	{"resources", catalog.CategoryResources},
	{"defenses", catalog.CategoryDefenses},
	{"traps", catalog.CategoryTraps},
}

type levelDoc struct {
	Level           int    `json:"level"`
	TierRequired    int    `json:"tierRequired"`
	StorageCapacity int64  `json:"storageCapacity"`
	BuildTime       string `json:"buildTime"`
}

type countDoc struct {
	Tier  int `json:"tier"`
	Count int `json:"count"`
}

type familyDoc struct {
	ID               string     `json:"id"`
	Label            string     `json:"label"`
	Levels           []levelDoc `json:"levels"`
	CountByTier      []countDoc `json:"countByTier"`
	DefaultBuildTime string     `json:"defaultBuildTime"`
}

// Load reads every family document under dir and assembles the immutable
// catalog snapshot
func Load(dir string) (*catalog.Snapshot, error) {
	var families []*catalog.FamilyDef
	var warnings []string

	for _, cd := range categoryDirs {
		entries, err := os.ReadDir(filepath.Join(dir, cd.dir))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read catalog directory %s: %w", cd.dir, err)
		}

		var names []string
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)

		for _, name := range names {
			rel := filepath.Join(cd.dir, name)
			id := strings.TrimSuffix(name, ".json")

			family, err := loadFamily(filepath.Join(dir, rel), id, cd.category)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("%s: %v", rel, err))
				family = catalog.NewUnavailableFamily(id, labelFromID(id), cd.category)
			}
			families = append(families, family)
		}
	}

	return catalog.NewSnapshot(families, warnings)
}

func loadFamily(path, id string, category catalog.Category) (*catalog.FamilyDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Validate against the schema before trusting the shape.
	var untyped any
	if err := json.Unmarshal(raw, &untyped); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := familySchema.Validate(untyped); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var doc familyDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.ID != "" && doc.ID != id {
		return nil, fmt.Errorf("document id %q does not match filename id %q", doc.ID, id)
	}

	levels := make([]catalog.LevelRow, 0, len(doc.Levels))
	for _, row := range doc.Levels {
		level := catalog.LevelRow{
			Level:           row.Level,
			TierRequired:    row.TierRequired,
			StorageCapacity: row.StorageCapacity,
		}
		if row.BuildTime != "" {
			d, err := duration.Parse(row.BuildTime)
			if err != nil {
				return nil, fmt.Errorf("level %d build time: %w", row.Level, err)
			}
			level.BuildTime = d
		}
		levels = append(levels, level)
	}

	counts := make([]catalog.CountRow, 0, len(doc.CountByTier))
	for _, row := range doc.CountByTier {
		counts = append(counts, catalog.CountRow{Tier: row.Tier, Count: row.Count})
	}

	var fallback time.Duration
	if doc.DefaultBuildTime != "" {
		d, err := duration.Parse(doc.DefaultBuildTime)
		if err != nil {
			return nil, fmt.Errorf("default build time: %w", err)
		}
		fallback = d
	}

	return catalog.NewFamilyDef(id, doc.Label, category, levels, counts, fallback)
}

// labelFromID turns "dark_elixir_storage" into "Dark Elixir Storage" for
// placeholder families whose document could not provide a label
func labelFromID(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
