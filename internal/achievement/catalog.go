// Package achievement detects badge-threshold crossings between streak
// recomputes. The detector is stateless: the caller supplies the
// previously known best streak and owns its persistence.
package achievement

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cadencehq/cadence/internal/models"
)

// DefaultCatalog returns the built-in badge catalog, ascending by
// threshold.
func DefaultCatalog() []models.Badge {
	return []models.Badge{
		{ThresholdDays: 3, Label: "3-day streak", Icon: models.IconFlame},
		{ThresholdDays: 7, Label: "One week strong", Icon: models.IconMedal},
		{ThresholdDays: 14, Label: "Two week habit", Icon: models.IconStar},
		{ThresholdDays: 30, Label: "30-day milestone", Icon: models.IconTrophy},
		{ThresholdDays: 60, Label: "60-day milestone", Icon: models.IconCrown},
		{ThresholdDays: 100, Label: "Century club", Icon: models.IconGem},
	}
}

// LoadCatalog reads a badge catalog from a YAML file. The file must list
// badges with strictly ascending, positive thresholds.
func LoadCatalog(path string) ([]models.Badge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read badge catalog: %w", err)
	}
	var doc struct {
		Badges []models.Badge `yaml:"badges"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse badge catalog: %w", err)
	}
	if err := ValidateCatalog(doc.Badges); err != nil {
		return nil, fmt.Errorf("invalid badge catalog %s: %w", path, err)
	}
	return doc.Badges, nil
}

// ValidateCatalog checks catalog ordering invariants.
func ValidateCatalog(catalog []models.Badge) error {
	if len(catalog) == 0 {
		return fmt.Errorf("catalog is empty")
	}
	prev := 0
	for i, b := range catalog {
		if b.ThresholdDays <= prev {
			return fmt.Errorf("badge %d: threshold %d is not strictly ascending and positive", i, b.ThresholdDays)
		}
		if b.Label == "" {
			return fmt.Errorf("badge %d: label is required", i)
		}
		prev = b.ThresholdDays
	}
	return nil
}
