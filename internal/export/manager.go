// package export handles writing diff text out as patch files
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Manager writes timestamped patch files and tracks what was exported
type Manager struct {
	exportDir string
	prefix    string
}

// Metadata records one export
type Metadata struct {
	Path      string    `json:"path"`
	Scope     string    `json:"scope,omitempty"`
	Size      int       `json:"size"`
	Timestamp time.Time `json:"timestamp"`
}

// NewManager creates an export manager
// exportDir is where patch files land, prefix names them
func NewManager(exportDir, prefix string) *Manager {
	if prefix == "" {
		prefix = "chezman"
	}
	return &Manager{
		exportDir: exportDir,
		prefix:    prefix,
	}
}

// Export writes the diff text verbatim to a timestamped .patch file
// scope is the target the diff was scoped to, empty for all files
func (m *Manager) Export(diffText, scope string) (*Metadata, error) {
	timestamp := time.Now()
	name := fmt.Sprintf("%s_%s.patch", m.prefix, timestamp.Format("20060102_150405"))
	path := filepath.Join(m.exportDir, name)

	if err := os.MkdirAll(m.exportDir, 0755); err != nil {
		return nil, fmt.Errorf("couldn't create export directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(diffText), 0644); err != nil {
		return nil, fmt.Errorf("couldn't write patch file: %w", err)
	}

	metadata := &Metadata{
		Path:      path,
		Scope:     scope,
		Size:      len(diffText),
		Timestamp: timestamp,
	}

	// manifest bookkeeping is best effort, the patch file is what matters
	_ = m.saveMetadata(metadata)

	return metadata, nil
}

// ListExports returns everything recorded in the export manifest
func (m *Manager) ListExports() ([]*Metadata, error) {
	data, err := os.ReadFile(m.manifestPath())
	if err != nil {
		if os.IsNotExist(err) {
			return []*Metadata{}, nil
		}
		return nil, err
	}

	var all []*Metadata
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}

	return all, nil
}

// saveMetadata appends one record to the manifest
func (m *Manager) saveMetadata(metadata *Metadata) error {
	var all []*Metadata
	if data, err := os.ReadFile(m.manifestPath()); err == nil {
		_ = json.Unmarshal(data, &all)
	}

	all = append(all, metadata)

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(m.manifestPath(), data, 0644)
}

// manifestPath returns the path to the export manifest
func (m *Manager) manifestPath() string {
	return filepath.Join(m.exportDir, "export_manifest.json")
}
