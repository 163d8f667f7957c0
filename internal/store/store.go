// Package store loads the classification taxonomy from YAML.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"contajur/ledger/internal/logging"
	"contajur/ledger/internal/models"

	"gopkg.in/yaml.v3"
)

// DefaultTaxonomyFile is looked up when no file is configured.
const DefaultTaxonomyFile = "categories.yaml"

// TaxonomyStore loads the taxonomy of the current report revision.
type TaxonomyStore struct {
	TaxonomyFile string
	logger       logging.Logger
}

// NewTaxonomyStore creates a store reading file. A nil logger falls back to
// the package default.
func NewTaxonomyStore(file string, logger logging.Logger) *TaxonomyStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &TaxonomyStore{TaxonomyFile: file, logger: logger}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *TaxonomyStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join("database", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "contajur", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadTaxonomy reads and validates the taxonomy. A missing file is an error
// matching os.ErrNotExist.
func (s *TaxonomyStore) LoadTaxonomy() (models.Taxonomy, error) {
	filename := s.TaxonomyFile
	if filename == "" {
		filename = DefaultTaxonomyFile
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.WithField(logging.FieldFile, filename).Error("Taxonomy file not found")
			return models.Taxonomy{}, fmt.Errorf("taxonomy file %s not found: %w", filename, err)
		}
		return models.Taxonomy{}, fmt.Errorf("error resolving taxonomy file: %w", err)
	}

	data, err := os.ReadFile(filePath) // #nosec G304 -- path comes from configuration
	if err != nil {
		return models.Taxonomy{}, fmt.Errorf("error reading taxonomy file: %w", err)
	}

	taxonomy, err := Parse(data)
	if err != nil {
		return models.Taxonomy{}, fmt.Errorf("error parsing taxonomy file %s: %w", filePath, err)
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldRevision, Value: taxonomy.Revision},
		logging.Field{Key: logging.FieldCount, Value: len(taxonomy.Categories)},
	).Debug("Loaded taxonomy")
	return taxonomy, nil
}

// Parse decodes a taxonomy document. Besides the structured form it accepts
// a plain mapping of category name to labels, keeping the document order.
func Parse(data []byte) (models.Taxonomy, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return models.Taxonomy{}, err
	}
	if len(root.Content) == 0 {
		return models.Taxonomy{}, fmt.Errorf("empty taxonomy document")
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return models.Taxonomy{}, fmt.Errorf("taxonomy must be a mapping, got %s", kindName(doc.Kind))
	}

	var taxonomy models.Taxonomy
	if hasKey(doc, "categories") {
		if err := doc.Decode(&taxonomy); err != nil {
			return models.Taxonomy{}, err
		}
	} else {
		legacy, err := parseLegacyMapping(doc)
		if err != nil {
			return models.Taxonomy{}, err
		}
		taxonomy = legacy
	}

	if taxonomy.Fees.Prefix == "" {
		taxonomy.Fees.Prefix = models.DefaultFeePrefix
	}
	if err := taxonomy.Validate(); err != nil {
		return models.Taxonomy{}, err
	}
	return taxonomy, nil
}

// parseLegacyMapping reads "Category: [label, ...]" documents.
func parseLegacyMapping(doc *yaml.Node) (models.Taxonomy, error) {
	var taxonomy models.Taxonomy
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, value := doc.Content[i], doc.Content[i+1]
		var labels []string
		if err := value.Decode(&labels); err != nil {
			return models.Taxonomy{}, fmt.Errorf("category %q: labels must be a list: %w", key.Value, err)
		}
		taxonomy.Categories = append(taxonomy.Categories, models.CategoryConfig{Name: key.Value, Labels: labels})
	}
	return taxonomy, nil
}

func hasKey(m *yaml.Node, key string) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return true
		}
	}
	return false
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}
