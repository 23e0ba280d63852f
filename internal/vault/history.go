package vault

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"vaultwire/internal/envelope"
)

// Directions recorded in history entries.
const (
	DirectionSent     = "sent"
	DirectionReceived = "received"
)

// HistoryEntry is one append-only record of a sent or received message.
type HistoryEntry struct {
	Direction string           `json:"direction"`
	SavedAt   string           `json:"saved_at"`
	Message   envelope.Message `json:"message"`
}

// QuarantineEntry retains a message that failed a trust or validation check,
// for forensic inspection rather than silent dropping.
type QuarantineEntry struct {
	Reason        string           `json:"reason"`
	QuarantinedAt string           `json:"quarantined_at"`
	Message       envelope.Message `json:"message"`
}

// SaveMessage appends one history entry. Safe to call from multiple
// processes sharing the vault directory: the append happens under an
// exclusive file lock in a single write.
func (v *Vault) SaveMessage(msg envelope.Message, direction string) error {
	if direction != DirectionSent && direction != DirectionReceived {
		return fmt.Errorf("vault: invalid direction %q", direction)
	}
	entry := HistoryEntry{
		Direction: direction,
		SavedAt:   time.Now().UTC().Format(time.RFC3339Nano),
		Message:   msg,
	}
	return appendLine(filepath.Join(v.dir, historyFile), entry)
}

// Quarantine appends one quarantine entry with the given reason.
func (v *Vault) Quarantine(msg envelope.Message, reason string) error {
	entry := QuarantineEntry{
		Reason:        reason,
		QuarantinedAt: time.Now().UTC().Format(time.RFC3339Nano),
		Message:       msg,
	}
	return appendLine(filepath.Join(v.dir, quarantineFile), entry)
}

// History returns up to limit of the most recent history entries, newest
// first. Corrupt lines are skipped.
func (v *Vault) History(limit int) ([]HistoryEntry, error) {
	lines, err := readLines(filepath.Join(v.dir, historyFile))
	if err != nil {
		return nil, err
	}
	entries := make([]HistoryEntry, 0, len(lines))
	for _, line := range lines {
		var e HistoryEntry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return newestFirst(entries, limit), nil
}

// QuarantineLog returns up to limit of the most recent quarantine entries,
// newest first.
func (v *Vault) QuarantineLog(limit int) ([]QuarantineEntry, error) {
	lines, err := readLines(filepath.Join(v.dir, quarantineFile))
	if err != nil {
		return nil, err
	}
	entries := make([]QuarantineEntry, 0, len(lines))
	for _, line := range lines {
		var e QuarantineEntry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return newestFirst(entries, limit), nil
}

// appendLine serializes v to one JSON line and appends it under an
// exclusive flock. O_APPEND plus a single Write keeps each entry atomic
// with respect to other writers; the lock serializes writers across
// processes so a crash mid-write from one cannot interleave with another.
func appendLine(path string, v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("vault: encode log entry: %w", err)
	}
	line = append(line, '\n')

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("vault: open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		return fmt.Errorf("vault: lock %s: %w", filepath.Base(path), err)
	}
	defer unix.Flock(int(f.Fd()), unix.LOCK_UN)

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("vault: append %s: %w", filepath.Base(path), err)
	}
	return nil
}

// readLines takes a lock-free snapshot read of an append-only log. Entries
// are never mutated in place, so the worst case under a concurrent append
// is a trailing partial line, which the caller skips as corrupt.
func readLines(path string) ([][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("vault: read %s: %w", filepath.Base(path), err)
	}
	var lines [][]byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// newestFirst returns the last limit entries of an append-ordered slice,
// reversed so the newest entry comes first.
func newestFirst[E any](entries []E, limit int) []E {
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	out := make([]E, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out
}
