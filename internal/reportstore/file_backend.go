package reportstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

func (s *Store) ensureLoadedFile() error {
	s.loadOnce.Do(func() {
		b, err := os.ReadFile(s.path)
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		if err != nil {
			s.loadErr = err
			return
		}
		if len(b) == 0 {
			return
		}
		if err := json.Unmarshal(b, &s.rows); err != nil {
			s.loadErr = fmt.Errorf("decode %s: %w", s.path, err)
		}
	})
	return s.loadErr
}

func (s *Store) putFile(rec Record) error {
	if err := s.ensureLoadedFile(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := append(append([]Record(nil), s.rows...), rec)
	if err := s.saveFile(rows); err != nil {
		return err
	}
	s.rows = rows
	return nil
}

func (s *Store) saveFile(rows []Record) error {
	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) listFile(limit int) ([]Record, error) {
	if err := s.ensureLoadedFile(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Rows are appended in creation order.
	out := make([]Record, 0, len(s.rows))
	for i := len(s.rows) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, s.rows[i])
	}
	return out, nil
}
