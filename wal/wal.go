// Package wal 实现了共识核心所依赖的持久化日志引擎：
// 一个单写者、只追加、崩溃可恢复的日志文件。
//
// 每个节点持有一个 WAL 实例。打开时会对整个文件做一次恢复扫描，
// 验证日志索引从 1 开始、严格加一递增；追加时先写入再强制落盘，
// 成功返回即保证持久；重放时用独立的只读句柄从头顺序解码全部记录。
// 该引擎不做任何重试和自动修复，所有失败都原样上抛给共识核心。
package wal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/xwhuang/raft-ledger/param"
)

// ErrNotSequential 表示恢复扫描发现磁盘上的日志索引不连续。
// 此时磁盘状态已经不一致，节点不能继续正常启动。
var ErrNotSequential = errors.New("wal: log entries are not sequential")

// WAL 拥有唯一一个可写的日志文件句柄和内存中的 lastIndex 游标
// （0 表示空日志）。它没有内部同步：调用方（共识核心）必须串行化
// 所有 Append 调用。Replay 使用独立的读句柄，因此可以与 Append
// 并发执行，但与进行中的追加之间没有任何顺序保证。
type WAL struct {
	path      string
	file      *os.File
	lastIndex uint64
}

// Open 打开（必要时创建）path 处的日志文件并执行恢复扫描。
// 已存在的文件永远不会被截断。扫描会逐条解码记录直到干净的日志末尾，
// 并验证每条记录的索引恰好等于前一条加一；违反顺序、负载截断或底层
// 读错误都会导致 Open 失败。
func Open(path string) (*WAL, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("wal: open %s: %w", path, err)
	}

	w := &WAL{path: path, file: file}
	lastIndex, err := w.scanLastIndex()
	if err != nil {
		file.Close()
		return nil, err
	}
	w.lastIndex = lastIndex

	return w, nil
}

// scanLastIndex 从文件起始处顺序解码所有记录，验证索引连续性，
// 并返回最后一条记录的索引（文件为空时返回 0）。
func (w *WAL) scanLastIndex() (uint64, error) {
	f, err := os.Open(w.path)
	if err != nil {
		return 0, fmt.Errorf("wal: open for recovery scan: %w", err)
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	var lastIndex uint64

	for {
		entry, err := DecodeEntry(reader)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("wal: recovery scan: %w", err)
		}
		if entry.Index != lastIndex+1 {
			return 0, fmt.Errorf("%w: entry %d after index %d", ErrNotSequential, entry.Index, lastIndex)
		}
		lastIndex = entry.Index
	}

	return lastIndex, nil
}

// Append 将一条完整的日志记录持久化到文件末尾。
// 只有在数据确认刷入稳定存储之后才更新 lastIndex 并返回成功；
// 写入或刷盘失败时 lastIndex 保持不变，错误上抛，磁盘上可能残留
// 半条记录，留待下一次恢复扫描识别。
//
// 调用方负责保证 entry.Index 紧跟当前的 lastIndex；
// 这里不做追加时的顺序校验，只有恢复扫描会校验。
func (w *WAL) Append(entry param.LogEntry) error {
	encoded := EncodeEntry(entry)

	if _, err := w.file.Write(encoded); err != nil {
		return fmt.Errorf("wal: append entry %d: %w", entry.Index, err)
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("wal: sync entry %d: %w", entry.Index, err)
	}

	w.lastIndex = entry.Index
	return nil
}

// Replay 用独立的只读句柄从头扫描整个文件，按顺序返回全部记录。
// 每次调用都是一次完整的线性扫描；在没有并发追加的前提下，
// 重复调用返回完全相同的序列。
func (w *WAL) Replay() ([]param.LogEntry, error) {
	f, err := os.Open(w.path)
	if err != nil {
		return nil, fmt.Errorf("wal: open for replay: %w", err)
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	var entries []param.LogEntry

	for {
		entry, err := DecodeEntry(reader)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("wal: replay: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// LastIndex 返回最后一条已持久化记录的索引，0 表示空日志。
func (w *WAL) LastIndex() uint64 {
	return w.lastIndex
}

// Close 关闭底层文件句柄。
func (w *WAL) Close() error {
	return w.file.Close()
}
