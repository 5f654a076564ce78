package storage

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/xwhuang/raft-ledger/param"
	"github.com/xwhuang/raft-ledger/storage/inmemory"
	"github.com/xwhuang/raft-ledger/storage/walstore"
)

const (
	InmemoryStorage = "inmemory"
	WALStorage      = "wal"
)

// Storage is an interface for stable storage providers in a Raft implementation.
// 它负责持久化 Raft 的核心状态（currentTerm 和 votedFor）以及日志条目，
// 并保证在崩溃恢复后能够完整地恢复这些状态。
type Storage interface {
	// --- HardState 操作 ---

	// SetState 原子地设置 HardState (currentTerm, votedFor)。
	SetState(state param.HardState) error
	// GetState 获取最后保存的 HardState。
	GetState() (param.HardState, error)

	// --- 日志条目操作 ---

	// AppendEntries 按顺序追加一批日志条目。
	// 持久化实现必须保证：返回成功的条目在崩溃后一定能被恢复。
	AppendEntries(entries []param.LogEntry) error

	// GetEntry 获取指定索引的日志条目。
	GetEntry(index uint64) (*param.LogEntry, error)

	// TruncateLog 删除从 fromIndex (包含) 到日志末尾的所有条目。
	// 当 Follower 的日志与 Leader 发生冲突时，这是必须的操作。
	TruncateLog(fromIndex uint64) error

	// --- 日志元数据操作 ---

	// FirstLogIndex 返回日志中的第一条条目的索引。
	FirstLogIndex() (uint64, error)
	// LastLogIndex 返回日志中的最后一条条目的索引。
	LastLogIndex() (uint64, error)

	// LogSize 返回日志的条目数（包含哑元）。
	LogSize() (int, error)

	// Close 关闭底层资源。
	Close() error
}

// StateMachine 定义了账本状态机需要实现的接口。
// Raft 模块通过这个接口与上层的银行业务逻辑进行交互。
type StateMachine interface {
	// Apply 将一条已经由 Raft 达成共识的日志条目应用到账本。
	// 命令负载由状态机自己解码；返回值最终会传递给等待的客户端。
	Apply(entry param.LogEntry) string

	// Balance 对账本进行一次只读查询，返回指定账户的余额。
	Balance(account string) (int64, error)
}

// NewStorage 根据 storageType 构造对应的存储实现。
func NewStorage(storageType, dataDir string, nodeID int) (Storage, error) {
	nodeDir := filepath.Join(dataDir, fmt.Sprintf("node-%d", nodeID))
	if err := os.MkdirAll(nodeDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	switch storageType {
	case InmemoryStorage:
		log.Println("Using in-memory storage")
		return inmemory.NewStorage(), nil
	case WALStorage:
		store, err := walstore.NewStorage(nodeDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create wal storage: %w", err)
		}
		log.Printf("Using WAL storage at %s", nodeDir)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", storageType)
	}
}
