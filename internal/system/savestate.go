package system

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/retrocoderamen/spcdsp/internal/clock"
	"github.com/retrocoderamen/spcdsp/internal/dsp"
	"github.com/retrocoderamen/spcdsp/internal/memory"
	"github.com/retrocoderamen/spcdsp/internal/spc700"
)

// saveStateVersion is bumped whenever SaveState's field layout changes in a
// way that breaks gob compatibility with older files.
const saveStateVersion = 1

func init() {
	gob.Register(SaveState{})
	gob.Register(memory.Snapshot{})
	gob.Register(spc700.Snapshot{})
	gob.Register(dsp.Snapshot{})
	gob.Register(clock.Snapshot{})
}

// SaveState is a complete, version-stamped snapshot of a System: everything
// needed to resume bit-for-bit except the audio sink, which is excluded by
// design (see SPEC_FULL.md's lifecycle section).
type SaveState struct {
	Version uint16

	Memory memory.Snapshot
	CPU    spc700.Snapshot
	DSP    dsp.Snapshot
	Clock  clock.Snapshot
}

// SaveState captures s's entire state, excluding the audio sink.
func (s *System) SaveState() SaveState {
	return SaveState{
		Version: saveStateVersion,
		Memory:  s.Memory.Snapshot(),
		CPU:     s.CPU.Snapshot(),
		DSP:     s.DSP.Snapshot(),
		Clock:   s.Clock.Snapshot(),
	}
}

// LoadState restores s from a previously captured SaveState, rejecting a
// version mismatch or a corrupt fault/period discriminant outright rather
// than partially applying it.
func (s *System) LoadState(st SaveState) error {
	if st.Version != saveStateVersion {
		return fmt.Errorf("system: unsupported save state version: %d (want %d)", st.Version, saveStateVersion)
	}
	prevCPU := s.CPU.Snapshot()
	if err := s.CPU.Restore(st.CPU); err != nil {
		s.CPU.Restore(prevCPU)
		return fmt.Errorf("system: restoring cpu state: %w", err)
	}
	if err := s.DSP.Restore(st.DSP); err != nil {
		s.CPU.Restore(prevCPU)
		return fmt.Errorf("system: restoring dsp state: %w", err)
	}
	s.Memory.Restore(st.Memory)
	s.Clock.Restore(st.Clock)
	return nil
}

// Encode serializes st with gob, the same encoding the source project's
// internal/emulator save states use.
func (st SaveState) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(st); err != nil {
		return nil, fmt.Errorf("system: encoding save state: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeSaveState deserializes a SaveState previously produced by Encode.
func DecodeSaveState(data []byte) (SaveState, error) {
	var st SaveState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&st); err != nil {
		return SaveState{}, fmt.Errorf("system: decoding save state: %w", err)
	}
	return st, nil
}

// SaveStateToFile captures s's state and writes it to filename, unlike the
// source project's same-named stub which never got past a TODO.
func (s *System) SaveStateToFile(filename string) error {
	data, err := s.SaveState().Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("system: writing save state file %q: %w", filename, err)
	}
	return nil
}

// LoadStateFromFile reads filename and restores s from it.
func (s *System) LoadStateFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("system: reading save state file %q: %w", filename, err)
	}
	st, err := DecodeSaveState(data)
	if err != nil {
		return err
	}
	return s.LoadState(st)
}
