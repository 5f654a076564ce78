package walstore

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xwhuang/raft-ledger/param"
	"github.com/xwhuang/raft-ledger/wal"
)

func newTestStorage(t *testing.T) (*Storage, string) {
	tmpDir := t.TempDir()
	s, err := NewStorage(tmpDir)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	return s, tmpDir
}

func newTestEntries(start, end uint64) []param.LogEntry {
	entries := make([]param.LogEntry, 0, end-start+1)
	for i := start; i <= end; i++ {
		entries = append(entries, param.LogEntry{
			Term:    i,
			Index:   i,
			Command: fmt.Appendf(nil, "cmd-%d", i),
		})
	}
	return entries
}

func TestStorage(t *testing.T) {
	t.Run("Initial State", func(t *testing.T) {
		s, _ := newTestStorage(t)
		defer s.Close()

		lastIDx, err := s.LastLogIndex()
		assert.NoError(t, err)
		assert.Equal(t, uint64(0), lastIDx)

		firstIDx, err := s.FirstLogIndex()
		assert.NoError(t, err)
		assert.Equal(t, uint64(1), firstIDx)

		_, err = s.GetEntry(1)
		assert.ErrorIs(t, err, ErrLogNotFound)
	})

	t.Run("Persistence", func(t *testing.T) {
		s, dir := newTestStorage(t)

		// Modify state
		newState := param.HardState{CurrentTerm: 5, VotedFor: 2}
		assert.NoError(t, s.SetState(newState))

		entries := newTestEntries(1, 3)
		assert.NoError(t, s.AppendEntries(entries))

		// Close and reopen
		assert.NoError(t, s.Close())
		s2, err := NewStorage(dir)
		assert.NoError(t, err)
		defer s2.Close()

		// Verify state persisted
		retrievedState, err := s2.GetState()
		assert.NoError(t, err)
		assert.Equal(t, newState, retrievedState)

		lastIDx, err := s2.LastLogIndex()
		assert.NoError(t, err)
		assert.Equal(t, uint64(3), lastIDx)

		entry2, err := s2.GetEntry(2)
		assert.NoError(t, err)
		assert.Equal(t, uint64(2), entry2.Index)
		assert.Equal(t, []byte("cmd-2"), entry2.Command)
	})

	t.Run("Log Operations", func(t *testing.T) {
		s, _ := newTestStorage(t)
		defer s.Close()
		entries := newTestEntries(1, 5)

		assert.NoError(t, s.AppendEntries(entries))

		lastIDx, err := s.LastLogIndex()
		assert.NoError(t, err)
		assert.Equal(t, uint64(5), lastIDx)

		// Truncate
		assert.NoError(t, s.TruncateLog(4))
		lastIDx, err = s.LastLogIndex()
		assert.NoError(t, err)
		assert.Equal(t, uint64(3), lastIDx)

		_, err = s.GetEntry(4)
		assert.ErrorIs(t, err, ErrLogNotFound)
	})

	t.Run("Truncate Survives Restart", func(t *testing.T) {
		s, dir := newTestStorage(t)

		assert.NoError(t, s.AppendEntries(newTestEntries(1, 5)))
		assert.NoError(t, s.TruncateLog(3))

		// 截断后继续追加，索引必须从截断点接着排。
		assert.NoError(t, s.AppendEntries([]param.LogEntry{
			{Term: 7, Index: 3, Command: []byte("replacement")},
		}))
		assert.NoError(t, s.Close())

		s2, err := NewStorage(dir)
		assert.NoError(t, err)
		defer s2.Close()

		lastIDx, err := s2.LastLogIndex()
		assert.NoError(t, err)
		assert.Equal(t, uint64(3), lastIDx)

		entry3, err := s2.GetEntry(3)
		assert.NoError(t, err)
		assert.Equal(t, uint64(7), entry3.Term)
		assert.Equal(t, []byte("replacement"), entry3.Command)
	})

	t.Run("Truncate Entire Log", func(t *testing.T) {
		s, _ := newTestStorage(t)
		defer s.Close()

		assert.NoError(t, s.AppendEntries(newTestEntries(1, 3)))
		assert.NoError(t, s.TruncateLog(1))

		lastIDx, err := s.LastLogIndex()
		assert.NoError(t, err)
		assert.Equal(t, uint64(0), lastIDx)

		// 之后可以从 1 重新开始写。
		assert.NoError(t, s.AppendEntries(newTestEntries(1, 2)))
		lastIDx, err = s.LastLogIndex()
		assert.NoError(t, err)
		assert.Equal(t, uint64(2), lastIDx)
	})

	t.Run("Truncate Beyond End Is Noop", func(t *testing.T) {
		s, _ := newTestStorage(t)
		defer s.Close()

		assert.NoError(t, s.AppendEntries(newTestEntries(1, 3)))
		assert.NoError(t, s.TruncateLog(10))

		lastIDx, err := s.LastLogIndex()
		assert.NoError(t, err)
		assert.Equal(t, uint64(3), lastIDx)

		assert.ErrorIs(t, s.TruncateLog(0), ErrIndexOutOfBounds)
	})

	t.Run("Corrupted File", func(t *testing.T) {
		tmpDir := t.TempDir()
		err := os.WriteFile(filepath.Join(tmpDir, "ledger.wal"), []byte("not a wal file"), 0644)
		assert.NoError(t, err)

		_, err = NewStorage(tmpDir)
		assert.Error(t, err, "NewStorage should fail with corrupted file")
	})

	t.Run("Non Sequential File", func(t *testing.T) {
		tmpDir := t.TempDir()
		w, err := wal.Open(filepath.Join(tmpDir, "ledger.wal"))
		assert.NoError(t, err)
		assert.NoError(t, w.Append(param.LogEntry{Index: 1, Term: 1, Command: []byte("a")}))
		assert.NoError(t, w.Append(param.LogEntry{Index: 3, Term: 1, Command: []byte("b")}))
		assert.NoError(t, w.Close())

		_, err = NewStorage(tmpDir)
		assert.ErrorIs(t, err, wal.ErrNotSequential)
	})
}
