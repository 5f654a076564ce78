package param

// LogEntry represents a single log entry in the replicated ledger log.
// Command is an opaque payload: the consensus core and the persistence
// layer never interpret it, only the ledger state machine does.
type LogEntry struct {
	Index   uint64 // Log index, 0 means no index (e.g., for heartbeats)
	Term    uint64
	Command []byte
}

// NewLogEntry creates a new LogEntry.
func NewLogEntry(command []byte, term, index uint64) LogEntry {
	return LogEntry{
		Index:   index,
		Term:    term,
		Command: command,
	}
}

// CommitEntry is the data reported by Raft to the commit channel.
// Each commit entry notifies the server that consensus was reached on a
// command, and it can be applied to the ledger state machine.
type CommitEntry struct {
	// Command is the client command being committed
	Command []byte

	// Index is the log index at which the client command is committed
	Index uint64

	// Term is the Raft term at which the client command is committed
	Term uint64
}
