// Package eventlog implements the optional persisted-output collaborator
// described in spec §6: a newline-delimited JSON record per MatchEvent,
// tick index prepended. The format is additive and versioned; nothing in
// the core reads it back.
package eventlog

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"

	"fenrir/internal/engine"
)

// Version is bumped whenever a field is added to Record. Existing fields
// are never removed or repurposed.
const Version = 1

// Record is one line of the event log.
type Record struct {
	Version int             `json:"v"`
	Tick    uint64          `json:"tick"`
	Kind    string          `json:"kind"`
	OrderID engine.OrderID  `json:"order_id"`
	MakerID engine.OrderID  `json:"maker_id,omitempty"`
	TakerID engine.OrderID  `json:"taker_id,omitempty"`
	Price   engine.Price    `json:"price,omitempty"`
	Amount  engine.Volume   `json:"amount,omitempty"`
	Side    string          `json:"side,omitempty"`
	Reason  string          `json:"reason,omitempty"`
}

// Writer appends newline-delimited Records to a file on an afero
// filesystem. Backing the writer by afero.Fs (rather than *os.File
// directly) lets tests exercise it against an in-memory filesystem.
type Writer struct {
	fs   afero.Fs
	file afero.File
}

// Open creates (or truncates) the event log file at path on fs.
func Open(fs afero.Fs, path string) (*Writer, error) {
	f, err := fs.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	return &Writer{fs: fs, file: f}, nil
}

// WriteEvent appends one MatchEvent as a Record, prefixed with its tick.
func (w *Writer) WriteEvent(tick uint64, ev engine.MatchEvent) error {
	rec := Record{
		Version: Version,
		Tick:    tick,
		Kind:    ev.Kind.String(),
		OrderID: ev.OrderID,
		MakerID: ev.MakerID,
		TakerID: ev.TakerID,
		Price:   ev.Price,
		Amount:  ev.Amount,
		Side:    ev.Side.String(),
		Reason:  ev.Reason.String(),
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal event record: %w", err)
	}
	line = append(line, '\n')
	if _, err := w.file.Write(line); err != nil {
		return fmt.Errorf("write event record: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	return w.file.Close()
}
