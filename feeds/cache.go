package feeds

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fta/models"

	log "github.com/sirupsen/logrus"
)

// AliasCache persists the feed alias mapping as a JSON object on disk
type AliasCache struct {
	path string
}

func NewAliasCache(path string) *AliasCache {
	return &AliasCache{path: path}
}

func (c *AliasCache) Path() string {
	return c.path
}

// Load reads the alias mapping. A missing or corrupt file gives an empty mapping.
func (c *AliasCache) Load() models.AliasMapping {
	aliases := models.AliasMapping{}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithFields(log.Fields{
				"path":  c.path,
				"error": err,
			}).Warn("Could not read feed cache")
		}
		return aliases
	}

	if err := json.Unmarshal(data, &aliases); err != nil {
		log.WithFields(log.Fields{
			"path":  c.path,
			"error": err,
		}).Warn("Feed cache is not valid JSON, ignoring it")
		return models.AliasMapping{}
	}

	return aliases
}

// Save replaces the cache file with the given mapping
func (c *AliasCache) Save(aliases models.AliasMapping) error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create cache directory: %w", err)
	}

	if aliases == nil {
		aliases = models.AliasMapping{}
	}
	data, err := json.MarshalIndent(aliases, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode feed cache: %w", err)
	}

	// Write next to the target and rename so readers never see a partial file
	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temporary cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write feed cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not write feed cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("could not replace feed cache: %w", err)
	}

	log.WithFields(log.Fields{
		"path":  c.path,
		"count": len(aliases),
	}).Info("Saved feed cache")

	return nil
}
