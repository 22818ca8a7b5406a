// Package state saves and restores plugin state as a versioned blob: a magic
// header, a little-endian version, then a msgpack body.
package state

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/nla/simplepanner/pkg/framework/param"
)

// Magic is the header every state blob starts with.
const Magic = "SPNR"

// Version is the newest body layout this package writes.
const Version uint32 = 1

var (
	// ErrInvalidFormat is returned when a blob lacks the magic header.
	ErrInvalidFormat = errors.New("state: invalid format")
	// ErrUnsupportedVersion is returned for blobs newer than Version.
	ErrUnsupportedVersion = errors.New("state: unsupported version")
)

// ProgramSelector is the program list a manager persists the selection of.
type ProgramSelector interface {
	Count() int
	Current() int
	Select(index int) error
}

// CustomState lets a plugin persist data beyond its parameters.
type CustomState interface {
	MarshalState() ([]byte, error)
	UnmarshalState(data []byte) error
}

// Body is the msgpack-encoded part of a blob.
type Body struct {
	Params  map[uint32]float64 `msgpack:"params"`
	Program int                `msgpack:"program"`
	Custom  []byte             `msgpack:"custom,omitempty"`
}

// Manager handles plugin state saving and loading
type Manager struct {
	registry *param.Registry
	programs ProgramSelector
	custom   CustomState
}

// NewManager creates a new state manager
func NewManager(registry *param.Registry) *Manager {
	return &Manager{registry: registry}
}

// WithPrograms persists the current program alongside the parameters.
func (m *Manager) WithPrograms(p ProgramSelector) *Manager {
	m.programs = p
	return m
}

// WithCustom persists extra plugin data.
func (m *Manager) WithCustom(c CustomState) *Manager {
	m.custom = c
	return m
}

// Snapshot captures the current state without encoding it.
func (m *Manager) Snapshot() (Body, error) {
	body := Body{Params: m.registry.Values()}
	if m.programs != nil {
		body.Program = m.programs.Current()
	}
	if m.custom != nil {
		data, err := m.custom.MarshalState()
		if err != nil {
			return Body{}, errors.Wrap(err, "marshal custom state")
		}
		body.Custom = data
	}
	return body, nil
}

// Save writes the plugin state to a writer
func (m *Manager) Save(w io.Writer) error {
	body, err := m.Snapshot()
	if err != nil {
		return err
	}

	encoded, err := msgpack.Marshal(&body)
	if err != nil {
		return errors.Wrap(err, "encode state body")
	}

	if _, err := io.WriteString(w, Magic); err != nil {
		return errors.Wrap(err, "write magic")
	}
	if err := binary.Write(w, binary.LittleEndian, Version); err != nil {
		return errors.Wrap(err, "write version")
	}
	if _, err := w.Write(encoded); err != nil {
		return errors.Wrap(err, "write state body")
	}
	return nil
}

// Bytes returns the encoded state.
func (m *Manager) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a blob without applying it.
func Decode(r io.Reader) (uint32, Body, error) {
	header := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, Body{}, errors.Wrap(ErrInvalidFormat, err.Error())
	}
	if string(header) != Magic {
		return 0, Body{}, errors.Wrapf(ErrInvalidFormat, "bad magic %q", header)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return 0, Body{}, errors.Wrap(err, "read version")
	}
	if version > Version {
		return version, Body{}, errors.Wrapf(ErrUnsupportedVersion, "version %d is newer than %d", version, Version)
	}

	var body Body
	if err := msgpack.NewDecoder(r).Decode(&body); err != nil {
		return version, Body{}, errors.Wrap(err, "decode state body")
	}
	return version, body, nil
}

// Load reads the plugin state from a reader. Parameters the registry does not
// know are ignored so older plugins can read newer blobs. The blob is checked
// before anything is applied, so a rejected blob leaves the state unchanged.
func (m *Manager) Load(r io.Reader) error {
	_, body, err := Decode(r)
	if err != nil {
		return err
	}

	if m.programs != nil {
		if n := m.programs.Count(); body.Program < 0 || body.Program >= n {
			return errors.Errorf("restore program: index %d out of range [0, %d)", body.Program, n)
		}
	}

	if m.custom != nil && len(body.Custom) > 0 {
		if err := m.custom.UnmarshalState(body.Custom); err != nil {
			return errors.Wrap(err, "unmarshal custom state")
		}
	}

	for id, value := range body.Params {
		m.registry.SetValue(id, value)
	}

	if m.programs != nil {
		if err := m.programs.Select(body.Program); err != nil {
			return errors.Wrap(err, "restore program")
		}
	}
	return nil
}

// LoadBytes is Load over an in-memory blob.
func (m *Manager) LoadBytes(data []byte) error {
	return m.Load(bytes.NewReader(data))
}
