// Package backup keeps rotating snapshots of the sprout database.
//
// Snapshots are written with SQLite's VACUUM INTO, so they are consistent
// even while the database is open in WAL mode. Files are named
// sprout.db.bak.1, sprout.db.bak.2, ... where 1 is the most recent.
package backup

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/diogenes-ai-code/sprout/internal/config"
)

// Prefix is the file name prefix of every snapshot.
const Prefix = "sprout.db.bak."

// Snapshot describes one backup file.
type Snapshot struct {
	Path    string    `json:"path"`
	Number  int       `json:"number"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Manager takes and rotates snapshots of one database.
type Manager struct {
	db  *sql.DB
	dir string
	cfg config.BackupConfig
	now func() time.Time
}

// NewManager creates a Manager for the database at dbPath. Snapshots go to
// cfg.Path, or next to the database when it is empty.
func NewManager(db *sql.DB, dbPath string, cfg config.BackupConfig) *Manager {
	dir := cfg.Path
	if dir == "" {
		dir = filepath.Dir(dbPath)
	}
	if cfg.MaxCount <= 0 {
		cfg.MaxCount = 1
	}
	return &Manager{db: db, dir: dir, cfg: cfg, now: time.Now}
}

// Dir returns the directory snapshots are written to.
func (m *Manager) Dir() string {
	return m.dir
}

// Due reports whether the newest snapshot is older than the configured interval.
func (m *Manager) Due() (bool, error) {
	snaps, err := m.List()
	if err != nil {
		return false, err
	}
	if len(snaps) == 0 {
		return true, nil
	}
	interval := time.Duration(m.cfg.IntervalHours) * time.Hour
	return m.now().Sub(snaps[0].ModTime) > interval, nil
}

// BackupIfDue takes a snapshot when backups are enabled and one is due.
// It returns the new snapshot, or nil when nothing was written.
func (m *Manager) BackupIfDue(ctx context.Context) (*Snapshot, error) {
	if !m.cfg.Enabled {
		return nil, nil
	}
	due, err := m.Due()
	if err != nil {
		return nil, fmt.Errorf("checking backup age: %w", err)
	}
	if !due {
		return nil, nil
	}
	return m.Backup(ctx)
}

// Backup rotates existing snapshots and writes a new one as number 1.
func (m *Manager) Backup(ctx context.Context) (*Snapshot, error) {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return nil, fmt.Errorf("creating backup directory: %w", err)
	}

	// VACUUM INTO refuses to overwrite, so write to a temp name first.
	tmp := filepath.Join(m.dir, Prefix+"tmp")
	_ = os.Remove(tmp)
	if _, err := m.db.ExecContext(ctx, `VACUUM INTO ?`, tmp); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("writing snapshot: %w", err)
	}

	if err := m.rotate(); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("rotating backups: %w", err)
	}

	path := filepath.Join(m.dir, Prefix+"1")
	if err := os.Rename(tmp, path); err != nil {
		return nil, fmt.Errorf("renaming snapshot: %w", err)
	}
	return stat(path, 1)
}

// List returns the existing snapshots, newest first.
func (m *Manager) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	var snaps []Snapshot
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), Prefix) {
			continue
		}
		num, err := strconv.Atoi(strings.TrimPrefix(entry.Name(), Prefix))
		if err != nil || num <= 0 {
			continue
		}
		snap, err := stat(filepath.Join(m.dir, entry.Name()), num)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, *snap)
	}

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Number < snaps[j].Number })
	return snaps, nil
}

// rotate shifts bak.N to bak.N+1, dropping whatever would exceed MaxCount
// once the new snapshot lands.
func (m *Manager) rotate() error {
	snaps, err := m.List()
	if err != nil {
		return err
	}
	for i := len(snaps) - 1; i >= 0; i-- {
		s := snaps[i]
		next := s.Number + 1
		if next > m.cfg.MaxCount {
			if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("deleting old backup %s: %w", s.Path, err)
			}
			continue
		}
		dst := filepath.Join(m.dir, Prefix+strconv.Itoa(next))
		if err := os.Rename(s.Path, dst); err != nil {
			return fmt.Errorf("renaming backup %s: %w", s.Path, err)
		}
	}
	return nil
}

func stat(path string, number int) (*Snapshot, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat backup file: %w", err)
	}
	return &Snapshot{Path: path, Number: number, Size: info.Size(), ModTime: info.ModTime()}, nil
}
