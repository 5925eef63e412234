package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"campwatch/internal/domain/entity"
)

// LedgerStore persists the set of campsites already notified, so a restarted
// watcher does not re-alert on availability it has already reported.
type LedgerStore interface {
	Load() (map[entity.CampsiteIdentity]entity.AvailableCampsite, error)
	Save(seen map[entity.CampsiteIdentity]entity.AvailableCampsite) error
}

// MemoryLedger is a LedgerStore that persists nothing. Every process start
// begins with an empty ledger.
type MemoryLedger struct{}

// Load returns an empty ledger.
func (MemoryLedger) Load() (map[entity.CampsiteIdentity]entity.AvailableCampsite, error) {
	return make(map[entity.CampsiteIdentity]entity.AvailableCampsite), nil
}

// Save does nothing.
func (MemoryLedger) Save(map[entity.CampsiteIdentity]entity.AvailableCampsite) error {
	return nil
}

// FileLedger stores the ledger as a JSON array of campsites. A missing file
// is an empty ledger; writes go through a temp file and rename so a crash
// mid-save cannot corrupt the ledger.
type FileLedger struct {
	Path string
}

// Load reads the ledger file and rebuilds the identity index.
func (l FileLedger) Load() (map[entity.CampsiteIdentity]entity.AvailableCampsite, error) {
	seen := make(map[entity.CampsiteIdentity]entity.AvailableCampsite)
	data, err := os.ReadFile(l.Path)
	if errors.Is(err, os.ErrNotExist) {
		return seen, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", l.Path, err)
	}
	var sites []entity.AvailableCampsite
	if err := json.Unmarshal(data, &sites); err != nil {
		return nil, fmt.Errorf("parsing ledger %s: %w", l.Path, err)
	}
	for _, site := range sites {
		seen[site.Identity()] = site
	}
	return seen, nil
}

// Save writes the ledger atomically.
func (l FileLedger) Save(seen map[entity.CampsiteIdentity]entity.AvailableCampsite) error {
	sites := make([]entity.AvailableCampsite, 0, len(seen))
	for _, site := range seen {
		sites = append(sites, site)
	}
	data, err := json.MarshalIndent(sites, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}
	tmp := l.Path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(l.Path), 0o755); err != nil {
		return fmt.Errorf("creating ledger directory: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing ledger %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, l.Path); err != nil {
		return fmt.Errorf("replacing ledger %s: %w", l.Path, err)
	}
	return nil
}
