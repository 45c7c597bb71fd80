package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/MalithGihan/tramnet-panel/pkg/types"
)

const snapshotFile = "graph.json"

// FS keeps the last good graph snapshot on disk so the panel can start with
// a picture of the network while the backend is down.
type FS struct{ Root string }

func New(root string) (*FS, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FS{Root: root}, nil
}

func (s *FS) SnapshotPath() string { return filepath.Join(s.Root, snapshotFile) }

// SaveSnapshot writes via a temp file and rename so readers never see a
// partial file.
func (s *FS) SaveSnapshot(g types.GraphSnapshot) error {
	b, err := json.Marshal(g)
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	tmp, err := os.CreateTemp(s.Root, snapshotFile+".*")
	if err != nil {
		return errors.Wrap(err, "create snapshot temp file")
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, "write snapshot")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "close snapshot")
	}
	return errors.Wrap(os.Rename(tmp.Name(), s.SnapshotPath()), "replace snapshot")
}

// LoadSnapshot reports ok=false when nothing has been saved yet.
func (s *FS) LoadSnapshot() (types.GraphSnapshot, bool, error) {
	var g types.GraphSnapshot
	b, err := os.ReadFile(s.SnapshotPath())
	if os.IsNotExist(err) {
		return g, false, nil
	}
	if err != nil {
		return g, false, errors.Wrap(err, "read snapshot")
	}
	if err := json.Unmarshal(b, &g); err != nil {
		return g, false, errors.Wrap(err, "decode snapshot")
	}
	return g, true, nil
}
