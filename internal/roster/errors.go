package roster

import (
	"encoding/json"
	"fmt"
)

// ErrInvalidRoster indicates a roster file that does not conform to the roster schema.
type ErrInvalidRoster struct {
	Path    string
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidRoster) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invalid roster %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid roster: %v", e.Err)
}

func (e *ErrInvalidRoster) Unwrap() error { return e.Err }
