package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vanshika/granttrace/backend/internal/dataset"
	"github.com/vanshika/granttrace/backend/internal/domain"
)

// ManifestFile records how a generated directory was produced.
const ManifestFile = "manifest.yaml"

// Manifest is written next to the record files.
type Manifest struct {
	Config    Config `yaml:"config"`
	Charities int    `yaml:"charities"`
	Grants    int    `yaml:"grants"`
}

// WriteDataset serializes the records into charities.json and grants.json under dir,
// plus a manifest describing the generator settings.
func WriteDataset(records domain.Records, cfg Config, dir string) error {
	if err := dataset.WriteRecords(dir, records); err != nil {
		return err
	}

	manifest := Manifest{Config: cfg, Charities: len(records.Charities), Grants: len(records.Grants)}
	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	path := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
