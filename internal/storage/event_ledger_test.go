package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventLedgerMarksAndPersists(t *testing.T) {
	dir := t.TempDir()

	ledger, err := NewEventLedger(dir, "events.json", time.Hour)
	require.NoError(t, err)

	assert.False(t, ledger.Seen("ev-1"))
	require.NoError(t, ledger.MarkProcessed("ev-1"))
	assert.True(t, ledger.Seen("ev-1"))
	assert.False(t, ledger.Seen("ev-2"))

	// A fresh ledger on the same file sees prior entries.
	reopened, err := NewEventLedger(dir, "events.json", time.Hour)
	require.NoError(t, err)
	assert.True(t, reopened.Seen("ev-1"))
	assert.False(t, reopened.Seen("ev-2"))
}

func TestEventLedgerIgnoresEmptyID(t *testing.T) {
	ledger, err := NewEventLedger(t.TempDir(), "events.json", time.Hour)
	require.NoError(t, err)

	assert.False(t, ledger.Seen(""))
	require.NoError(t, ledger.MarkProcessed(""))
	assert.False(t, ledger.Seen(""))
}

func TestEventLedgerPrunesOldEntries(t *testing.T) {
	ledger, err := NewEventLedger(t.TempDir(), "events.json", 10*time.Millisecond)
	require.NoError(t, err)

	require.NoError(t, ledger.MarkProcessed("ev-old"))
	time.Sleep(30 * time.Millisecond)

	assert.False(t, ledger.Seen("ev-old"), "entries beyond max age are pruned")
}
