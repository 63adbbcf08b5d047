package eventlog_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fenrir/internal/engine"
	"fenrir/internal/eventlog"
)

func TestWriteEventAppendsNDJSONLine(t *testing.T) {
	fs := afero.NewMemMapFs()
	w, err := eventlog.Open(fs, "session.ndjson")
	require.NoError(t, err)

	require.NoError(t, w.WriteEvent(3, engine.MatchEvent{
		Kind:    engine.EventTrade,
		MakerID: 1,
		TakerID: 2,
		Price:   100_000_000,
		Amount:  5,
	}))
	require.NoError(t, w.Close())

	raw, err := afero.ReadFile(fs, "session.ndjson")
	require.NoError(t, err)

	var rec eventlog.Record
	require.NoError(t, json.Unmarshal(bytes.TrimRight(raw, "\n"), &rec))
	assert.Equal(t, uint64(3), rec.Tick)
	assert.Equal(t, "Trade", rec.Kind)
	assert.Equal(t, engine.OrderID(1), rec.MakerID)
	assert.Equal(t, engine.OrderID(2), rec.TakerID)
	assert.Equal(t, eventlog.Version, rec.Version)
}

func TestWriteEventOneRecordPerLine(t *testing.T) {
	fs := afero.NewMemMapFs()
	w, err := eventlog.Open(fs, "session.ndjson")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, w.WriteEvent(uint64(i), engine.MatchEvent{Kind: engine.EventPlaced, OrderID: engine.OrderID(i)}))
	}
	require.NoError(t, w.Close())

	raw, err := afero.ReadFile(fs, "session.ndjson")
	require.NoError(t, err)

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	lines := 0
	for scanner.Scan() {
		var rec eventlog.Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		assert.Equal(t, uint64(lines), rec.Tick)
		lines++
	}
	assert.Equal(t, 3, lines)
}
