package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/thep200/github-code-crawler/internal/model"
)

const filePerm = 0o644

// FileStore keeps the checkpoint in statePath and writes the collected files
// as a plain JSON array to datasetPath on every save. Both files are replaced
// whole, so a reader sees either the previous or the new version.
type FileStore struct {
	statePath   string
	datasetPath string
}

func NewFileStore(statePath, datasetPath string) *FileStore {
	return &FileStore{
		statePath:   statePath,
		datasetPath: datasetPath,
	}
}

func (s *FileStore) StatePath() string { return s.statePath }

func (s *FileStore) DatasetPath() string { return s.datasetPath }

func (s *FileStore) Load(_ context.Context) (*model.CrawlState, error) {
	data, err := os.ReadFile(s.statePath)
	if errors.Is(err, fs.ErrNotExist) {
		return model.NewCrawlState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state %s: %w", s.statePath, err)
	}

	state := model.NewCrawlState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("decode state %s: %w", s.statePath, err)
	}
	return state, nil
}

// Save ghi state.json trước, sau đó dataset suy ra từ cùng một state.
func (s *FileStore) Save(_ context.Context, state *model.CrawlState) error {
	data, err := encodeJSON(state, true)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := writeFileAtomic(s.statePath, data); err != nil {
		return err
	}

	if s.datasetPath == "" {
		return nil
	}
	dataset, err := encodeJSON(state.Files(), true)
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return writeFileAtomic(s.datasetPath, dataset)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	fd, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpPath := fd.Name()

	if _, err := fd.Write(data); err != nil {
		fd.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := fd.Sync(); err != nil {
		fd.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync %s: %w", tmpPath, err)
	}
	if err := fd.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, filePerm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
