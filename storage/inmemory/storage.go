package inmemory

import (
	"errors"
	"sync"

	"github.com/xwhuang/raft-ledger/param"
)

var (
	ErrLogNotFound      = errors.New("log entry not found")
	ErrIndexOutOfBounds = errors.New("index is out of bounds")
)

// Storage 是 Storage 接口的一个线程安全的内存实现，主要用于测试。
type Storage struct {
	mu sync.RWMutex

	// HardState (term, votedFor)
	hardState param.HardState

	// Log entries
	// 日志索引从1开始，log[0] 是一个哑元。
	log []param.LogEntry
}

// NewStorage 创建一个新的内存存储实例。
func NewStorage() *Storage {
	return &Storage{
		log: make([]param.LogEntry, 1),
	}
}

// --- HardState 操作 ---

func (s *Storage) SetState(state param.HardState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hardState = state
	return nil
}

func (s *Storage) GetState() (param.HardState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hardState, nil
}

// --- 日志条目操作 ---

func (s *Storage) AppendEntries(entries []param.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log, entries...)
	return nil
}

func (s *Storage) GetEntry(index uint64) (*param.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 1 || index >= uint64(len(s.log)) {
		return nil, ErrLogNotFound
	}
	return &s.log[index], nil
}

func (s *Storage) TruncateLog(fromIndex uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fromIndex < 1 {
		return ErrIndexOutOfBounds
	}
	if fromIndex >= uint64(len(s.log)) {
		// 如果索引超出当前日志范围，无需截断
		return nil
	}

	s.log = s.log[:fromIndex]
	return nil
}

// --- 日志元数据操作 ---

func (s *Storage) FirstLogIndex() (uint64, error) {
	return 1, nil
}

func (s *Storage) LastLogIndex() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.log)) - 1, nil
}

func (s *Storage) LogSize() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.log), nil
}

// Close 在内存实现中是无操作的。
func (s *Storage) Close() error {
	return nil
}
