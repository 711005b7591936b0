package roster

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Parse validates and decodes roster JSON.
func Parse(raw []byte) (*Roster, error) {
	if err := Validate(raw); err != nil {
		return nil, err
	}
	var r Roster
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, &ErrInvalidRoster{Content: raw, Err: err}
	}
	if r.Version == 0 {
		r.Version = CurrentVersion
	}
	return &r, nil
}

// Load reads the roster at path. A missing file yields an empty roster.
func Load(path string) (*Roster, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Roster{Version: CurrentVersion}, nil
		}
		return nil, fmt.Errorf("read roster: %w", err)
	}
	r, err := Parse(raw)
	if err != nil {
		var inv *ErrInvalidRoster
		if errors.As(err, &inv) {
			inv.Path = path
		}
		return nil, err
	}
	return r, nil
}

// Save writes the roster to path atomically (temp file + rename).
func Save(path string, r *Roster) error {
	r.Version = CurrentVersion
	r.Renumber()
	if r.Skills == nil {
		r.Skills = []SelectedSkill{}
	}

	raw, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode roster: %w", err)
	}
	if err := Validate(raw); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create roster dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("write roster: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace roster: %w", err)
	}
	return nil
}
