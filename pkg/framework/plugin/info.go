package plugin

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// NamespacePlugin seeds the name-based UUIDs derived from plugin IDs.
var NamespacePlugin = uuid.MustParse("6f1c2d3e-8a4b-5c6d-9e0f-1a2b3c4d5e6f")

// ErrInvalidUID is returned by ValidateUID.
var ErrInvalidUID = errors.New("plugin: invalid UID")

// Info contains plugin metadata
type Info struct {
	ID       string // Unique plugin identifier (e.g., "com.example.myplugin")
	Name     string // Display name
	Version  string // Semantic version (e.g., "1.0.0")
	Vendor   string // Company/developer name
	Category string // Plugin category (e.g., "Fx", "Instrument")
}

// UUID derives a stable SHA-1 name-based UUID from the string ID.
func (i Info) UUID() uuid.UUID {
	return uuid.NewSHA1(NamespacePlugin, []byte(i.ID))
}

// UID returns the 16-byte class identifier hosts key the plugin by.
func (i Info) UID() [16]byte {
	return [16]byte(i.UUID())
}

// ValidateUID checks that the ID is set and derives a non-nil UID.
func (i Info) ValidateUID() error {
	if i.ID == "" {
		return fmt.Errorf("%w: empty plugin ID", ErrInvalidUID)
	}
	if i.UUID() == uuid.Nil {
		return fmt.Errorf("%w: %q derives the nil UUID", ErrInvalidUID, i.ID)
	}
	return nil
}
