// Package walstore 提供基于 WAL 的持久化存储实现。
//
// 日志条目全部经由 wal 包落盘：每次追加都同步刷盘，打开时通过一次
// 完整的重放把日志重建到内存中以支持随机读取。HardState 保存在
// 独立的 JSON 侧文件里，用写临时文件再重命名的方式保证原子性。
package walstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xwhuang/raft-ledger/param"
	"github.com/xwhuang/raft-ledger/wal"
)

const (
	walFileName   = "ledger.wal"
	stateFileName = "state.json"
)

var (
	ErrLogNotFound      = errors.New("log entry not found")
	ErrIndexOutOfBounds = errors.New("index is out of bounds")
)

// Storage 实现了 storage.Storage 接口。
// 内存中的 log 切片是 WAL 内容的缓存：log[0] 是哑元，
// log[i] 的索引恰好为 i（没有日志压缩，偏移量恒为 0）。
type Storage struct {
	mu  sync.RWMutex
	dir string

	w         *wal.WAL
	hardState param.HardState
	log       []param.LogEntry
}

// NewStorage 打开（必要时创建）dir 下的 WAL 和 HardState 文件并完成恢复。
// WAL 的恢复扫描失败（顺序破坏、尾部损坏、设备错误）会让整个存储
// 打开失败：节点不允许带着不一致的日志启动。
func NewStorage(dir string) (*Storage, error) {
	w, err := wal.Open(filepath.Join(dir, walFileName))
	if err != nil {
		return nil, err
	}

	entries, err := w.Replay()
	if err != nil {
		w.Close()
		return nil, err
	}

	s := &Storage{
		dir: dir,
		w:   w,
		log: make([]param.LogEntry, 1, len(entries)+1), // log[0] is dummy
	}
	s.log = append(s.log, entries...)

	if err := s.loadHardState(); err != nil {
		w.Close()
		return nil, err
	}

	return s, nil
}

func (s *Storage) statePath() string {
	return filepath.Join(s.dir, stateFileName)
}

func (s *Storage) loadHardState() error {
	data, err := os.ReadFile(s.statePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("walstore: read hard state: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &s.hardState); err != nil {
		return fmt.Errorf("walstore: decode hard state: %w", err)
	}
	return nil
}

func (s *Storage) persistHardState() error {
	data, err := json.Marshal(s.hardState)
	if err != nil {
		return err
	}

	// Write to temp file and rename for atomicity
	tmpPath := s.statePath() + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.statePath())
}

// --- HardState 操作 ---

func (s *Storage) SetState(state param.HardState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hardState = state
	return s.persistHardState()
}

func (s *Storage) GetState() (param.HardState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hardState, nil
}

// --- 日志条目操作 ---

// AppendEntries 逐条写入 WAL（每条都同步刷盘），全部成功后才更新内存缓存。
// 中途失败时，已刷盘的前缀仍然是合法日志，下一次恢复扫描会恢复到失败点。
func (s *Storage) AppendEntries(entries []param.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, entry := range entries {
		if err := s.w.Append(entry); err != nil {
			// 已持久化 entries[:i]，把缓存同步到同样的位置。
			s.log = append(s.log, entries[:i]...)
			return err
		}
	}
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

// TruncateLog 丢弃从 fromIndex 开始的所有条目。
// WAL 本身是只追加的，没有截断操作，所以这里把幸存的前缀重写进一个
// 新的 WAL 文件，再原子地重命名替换旧文件。
func (s *Storage) TruncateLog(fromIndex uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fromIndex < 1 {
		return ErrIndexOutOfBounds
	}
	if fromIndex >= uint64(len(s.log)) {
		// 超出当前日志范围，无需截断。
		return nil
	}

	survivors := s.log[1:fromIndex]

	if err := s.rewriteWAL(survivors); err != nil {
		return err
	}

	s.log = s.log[:fromIndex]
	return nil
}

// rewriteWAL 把 survivors 写入一个临时 WAL，刷盘后重命名到正式路径，
// 然后重新打开。任何一步失败都保留原 WAL 不变。
func (s *Storage) rewriteWAL(survivors []param.LogEntry) error {
	walPath := filepath.Join(s.dir, walFileName)
	tmpPath := walPath + ".tmp"

	// 清掉上一次截断可能留下的残骸。
	if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("walstore: remove stale temp wal: %w", err)
	}

	tmp, err := wal.Open(tmpPath)
	if err != nil {
		return err
	}
	for _, entry := range survivors {
		if err := tmp.Append(entry); err != nil {
			tmp.Close()
			return err
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("walstore: close temp wal: %w", err)
	}

	if err := s.w.Close(); err != nil {
		return fmt.Errorf("walstore: close wal before rewrite: %w", err)
	}
	if err := os.Rename(tmpPath, walPath); err != nil {
		return fmt.Errorf("walstore: swap rewritten wal: %w", err)
	}

	reopened, err := wal.Open(walPath)
	if err != nil {
		return err
	}
	s.w = reopened
	return nil
}

// --- 日志元数据操作 ---

func (s *Storage) FirstLogIndex() (uint64, error) {
	// 没有日志压缩，第一条永远是 1。
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

func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Close()
}
