package store

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"philcali.me/fridgesnap/internal/data"
)

// Persistence loads and saves the whole client state as one unit.
type Persistence interface {
	Load(ctx context.Context) (data.State, error)
	Save(ctx context.Context, state data.State) error
}

// FilePersistence keeps the state as a single JSON blob named after the
// storage key.
type FilePersistence struct {
	Dir string
}

func NewFilePersistence(dir string) *FilePersistence {
	return &FilePersistence{
		Dir: dir,
	}
}

func (fp *FilePersistence) Path() string {
	return filepath.Join(fp.Dir, data.StorageKey+".json")
}

func (fp *FilePersistence) Load(ctx context.Context) (data.State, error) {
	body, err := os.ReadFile(fp.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return data.NewState(), nil
	}
	if err != nil {
		return data.NewState(), err
	}
	var state data.State
	if err := json.Unmarshal(body, &state); err != nil {
		return data.NewState(), err
	}
	return state.Normalize(), nil
}

// Save replaces the blob through a rename so readers never see a partial file.
func (fp *FilePersistence) Save(ctx context.Context, state data.State) error {
	body, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(fp.Dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(fp.Dir, data.StorageKey+"-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), fp.Path())
}

// MemoryPersistence holds the last saved state in memory. SaveErr and LoadErr
// make the next calls fail.
type MemoryPersistence struct {
	mu      sync.Mutex
	state   *data.State
	saves   int
	SaveErr error
	LoadErr error
}

func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{}
}

func (mp *MemoryPersistence) Load(ctx context.Context) (data.State, error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	if mp.LoadErr != nil {
		return data.NewState(), mp.LoadErr
	}
	if mp.state == nil {
		return data.NewState(), nil
	}
	return mp.state.Clone(), nil
}

func (mp *MemoryPersistence) Save(ctx context.Context, state data.State) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.saves++
	if mp.SaveErr != nil {
		return mp.SaveErr
	}
	saved := state.Clone()
	mp.state = &saved
	return nil
}

func (mp *MemoryPersistence) Saves() int {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.saves
}
