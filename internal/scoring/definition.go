package scoring

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrDefinitionNotFound indicates a category definition is missing. This is
// fatal for the category: scoring cannot proceed without a definition.
var ErrDefinitionNotFound = errors.New("category definition not found")

// ScoringMode selects how signal coverage converts into a 0-5 score.
type ScoringMode string

const (
	ModeProportional ScoringMode = "proportional"
	ModeTiered       ScoringMode = "tiered"
	ModeBinary       ScoringMode = "binary"

	// ModeLegacy is reported for practices that declare a flat signal list
	// instead of a scoring block.
	ModeLegacy ScoringMode = "legacy-proportional"
)

// ScoringBlock configures weighted signal matching for a practice.
type ScoringBlock struct {
	Mode          string              `yaml:"mode"`
	Signals       []string            `yaml:"signals"`
	SignalWeights map[string]float64  `yaml:"signal_weights"`
	SignalAliases map[string][]string `yaml:"signal_aliases"`
}

// PracticeDefinition is a single scored best-practice checkpoint.
type PracticeDefinition struct {
	Code    string        `yaml:"code"`
	Title   string        `yaml:"title"`
	Weight  float64       `yaml:"weight"`
	Scoring *ScoringBlock `yaml:"scoring"`

	// Signals is the legacy flat signal list, used when Scoring is absent.
	Signals []string `yaml:"signals"`

	Recommendations []RecommendationDefinition `yaml:"recommendations"`
}

// RecommendationDefinition is a candidate recommendation attached to a
// practice, surfaced when the practice scores low and the severity is high.
type RecommendationDefinition struct {
	Title     string `yaml:"title"`
	Reasoning string `yaml:"reasoning"`

	// Severity is on a 1 (critical) to 5 (informational) scale. Legacy
	// definitions may declare it as execution_priority or priority instead.
	Severity          int `yaml:"severity"`
	ExecutionPriority int `yaml:"execution_priority"`
	Priority          int `yaml:"priority"`
}

// GapDefinition declares patterns indicating a known deficiency.
type GapDefinition struct {
	ID       string   `yaml:"id"`
	Label    string   `yaml:"label"`
	Detail   string   `yaml:"detail"`
	Practice string   `yaml:"practice"`
	Patterns []string `yaml:"patterns"`

	RecommendationHintKeywords []string `yaml:"recommendation_hint_keywords"`
}

// CategoryDefinition is a named scoring domain. Loaded once per scoring
// invocation and never mutated.
type CategoryDefinition struct {
	Category  string            `yaml:"category"`
	Version   string            `yaml:"version"`
	Framework string            `yaml:"framework"`
	Scale     map[string]string `yaml:"scale"`

	// Weights optionally overrides practice weights by code.
	Weights map[string]float64 `yaml:"weights"`

	Practices []PracticeDefinition `yaml:"practices"`
	Gaps      []GapDefinition      `yaml:"gaps"`
}

// ParseDefinition decodes a YAML category definition.
func ParseDefinition(data []byte) (*CategoryDefinition, error) {
	var def CategoryDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing category definition: %w", err)
	}
	return &def, nil
}

// DefinitionSource loads category definitions by name.
type DefinitionSource interface {
	// Load returns the definition for a category name. Returns an error
	// wrapping ErrDefinitionNotFound when the category is unknown.
	Load(category string) (*CategoryDefinition, error)

	// Categories lists the category names this source can load, sorted.
	Categories() []string
}

//go:embed definitions/*.yaml
var embeddedDefinitions embed.FS

// EmbeddedSource serves the definitions compiled into the binary.
type EmbeddedSource struct{}

// NewEmbeddedSource returns a source backed by the built-in definitions for
// the five standard categories.
func NewEmbeddedSource() *EmbeddedSource {
	return &EmbeddedSource{}
}

func (s *EmbeddedSource) Load(category string) (*CategoryDefinition, error) {
	data, err := embeddedDefinitions.ReadFile("definitions/" + definitionFileName(category))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDefinitionNotFound, category)
	}
	return ParseDefinition(data)
}

func (s *EmbeddedSource) Categories() []string {
	return listDefinitionNames(embeddedDefinitions, "definitions")
}

// FSSource serves definitions from a directory of YAML files, allowing
// operators to override or extend the built-in set.
type FSSource struct {
	dir string
}

// NewFSSource creates a source reading <category>.yaml files from dir.
func NewFSSource(dir string) *FSSource {
	return &FSSource{dir: dir}
}

func (s *FSSource) Load(category string) (*CategoryDefinition, error) {
	path := filepath.Join(s.dir, definitionFileName(category))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (%s)", ErrDefinitionNotFound, category, path)
		}
		return nil, fmt.Errorf("reading category definition %s: %w", path, err)
	}
	return ParseDefinition(data)
}

func (s *FSSource) Categories() []string {
	return listDefinitionNames(os.DirFS(s.dir), ".")
}

func definitionFileName(category string) string {
	return strings.ToLower(strings.TrimSpace(category)) + ".yaml"
}

func listDefinitionNames(fsys fs.FS, dir string) []string {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}
