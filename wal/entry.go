package wal

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/xwhuang/raft-ledger/param"
)

// entryHeaderSize 是每条日志记录的定长头部大小：
// index (8字节) + term (8字节) + command 长度 (8字节)，均为小端序。
const entryHeaderSize = 24

// EncodeEntry 将一条日志记录序列化为自描述的字节序列。
// 磁盘格式（必须逐字节保持兼容）：
//
//	index(8, LE) | term(8, LE) | len(command)(8, LE) | command
//
// 没有校验和，也没有记录边界的魔数；三个定长字段加上声明的负载长度
// 就是全部的自描述信息。
func EncodeEntry(entry param.LogEntry) []byte {
	buf := make([]byte, entryHeaderSize+len(entry.Command))
	binary.LittleEndian.PutUint64(buf[0:8], entry.Index)
	binary.LittleEndian.PutUint64(buf[8:16], entry.Term)
	binary.LittleEndian.PutUint64(buf[16:24], uint64(len(entry.Command)))
	copy(buf[entryHeaderSize:], entry.Command)
	return buf
}

// DecodeEntry 从 r 的当前位置读取一条完整的日志记录。
//
// 错误语义是恢复扫描正确性的关键：
//   - 在记录边界上读不到任何字节，返回未经包装的 io.EOF，
//     表示干净的日志末尾（正常的扫描终止信号）；
//   - 定长头部只读到一部分，说明上一次写入没有完成，属于数据损坏，
//     返回包装了 io.ErrUnexpectedEOF 的错误；
//   - 头部完整但负载不足声明的长度，同样属于数据损坏。
//
// 调用方必须用 errors.Is(err, io.EOF) 来区分干净末尾和其他一切错误。
func DecodeEntry(r io.Reader) (param.LogEntry, error) {
	header := make([]byte, entryHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if err == io.EOF {
			// 干净的日志末尾。
			return param.LogEntry{}, io.EOF
		}
		return param.LogEntry{}, fmt.Errorf("wal: truncated entry header: %w", err)
	}

	index := binary.LittleEndian.Uint64(header[0:8])
	term := binary.LittleEndian.Uint64(header[8:16])
	cmdLen := binary.LittleEndian.Uint64(header[16:24])

	// 长度字段是64位的，但单条命令不可能超过可寻址内存；
	// 超出范围的声明长度只能来自损坏的头部。
	if cmdLen > uint64(math.MaxInt) {
		return param.LogEntry{}, fmt.Errorf("wal: entry %d declares implausible command length %d", index, cmdLen)
	}

	command := make([]byte, cmdLen)
	if _, err := io.ReadFull(r, command); err != nil {
		// 负载被截断：头部承诺了 cmdLen 字节但流提前结束。
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return param.LogEntry{}, fmt.Errorf("wal: truncated command payload for entry %d: %w", index, err)
	}

	return param.LogEntry{Index: index, Term: term, Command: command}, nil
}
