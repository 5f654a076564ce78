package wal

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xwhuang/raft-ledger/param"
)

func TestEncodeDecodeRoundtrip(t *testing.T) {
	tests := []struct {
		name  string
		entry param.LogEntry
	}{
		{
			name:  "Simple",
			entry: param.NewLogEntry([]byte("test command"), 3, 42),
		},
		{
			name:  "EmptyCommand",
			entry: param.NewLogEntry([]byte{}, 1, 1),
		},
		{
			name:  "LargeCommand",
			entry: param.NewLogEntry(bytes.Repeat([]byte{42}, 10000), 5, 100),
		},
		{
			name:  "MaxValues",
			entry: param.NewLogEntry(bytes.Repeat([]byte{255}, 100), math.MaxUint64, math.MaxUint64),
		},
		{
			name:  "BinaryPayload",
			entry: param.NewLogEntry([]byte{0x00, 0xFF, 0x0A, 0x00, 0x7F}, 2, 7),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodeEntry(tt.entry)

			decoded, err := DecodeEntry(bytes.NewReader(encoded))
			require.NoError(t, err)

			assert.Equal(t, tt.entry.Index, decoded.Index)
			assert.Equal(t, tt.entry.Term, decoded.Term)
			assert.Equal(t, tt.entry.Command, decoded.Command)
		})
	}
}

// TestEncodingFormat 逐字节验证磁盘格式，保证与已有日志文件的兼容性。
func TestEncodingFormat(t *testing.T) {
	entry := param.NewLogEntry([]byte("test"), 0xFEDCBA0987654321, 0x1234567890ABCDEF)
	encoded := EncodeEntry(entry)

	require.Len(t, encoded, entryHeaderSize+4)

	assert.Equal(t, uint64(0x1234567890ABCDEF), binary.LittleEndian.Uint64(encoded[0:8]))
	assert.Equal(t, uint64(0xFEDCBA0987654321), binary.LittleEndian.Uint64(encoded[8:16]))
	assert.Equal(t, uint64(4), binary.LittleEndian.Uint64(encoded[16:24]))
	assert.Equal(t, []byte("test"), encoded[24:28])
}

func TestDecodeCleanEOF(t *testing.T) {
	// 在记录边界上读不到任何字节，必须返回 io.EOF 作为干净末尾的信号。
	_, err := DecodeEntry(bytes.NewReader(nil))
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecodeTruncatedHeader(t *testing.T) {
	entry := param.NewLogEntry([]byte("test"), 1, 1)
	encoded := EncodeEntry(entry)

	// 定长头部只有一部分：这是未完成的写入，必须报告为损坏而不是干净末尾。
	for _, cut := range []int{1, 8, 16, 23} {
		_, err := DecodeEntry(bytes.NewReader(encoded[:cut]))
		require.Error(t, err, "cut at %d bytes", cut)
		assert.NotErrorIs(t, err, io.EOF, "cut at %d bytes must not look like a clean end", cut)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF, "cut at %d bytes", cut)
	}
}

func TestDecodeTruncatedPayload(t *testing.T) {
	entry := param.NewLogEntry([]byte("ledger command payload"), 2, 9)
	encoded := EncodeEntry(entry)

	// 头部完整但负载不足声明的长度：数据损坏。
	for _, cut := range []int{entryHeaderSize, entryHeaderSize + 1, len(encoded) - 1} {
		_, err := DecodeEntry(bytes.NewReader(encoded[:cut]))
		require.Error(t, err, "cut at %d bytes", cut)
		assert.NotErrorIs(t, err, io.EOF, "cut at %d bytes must not look like a clean end", cut)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF, "cut at %d bytes", cut)
	}
}

func TestDecodeImplausibleLength(t *testing.T) {
	header := make([]byte, entryHeaderSize)
	binary.LittleEndian.PutUint64(header[0:8], 1)
	binary.LittleEndian.PutUint64(header[8:16], 1)
	binary.LittleEndian.PutUint64(header[16:24], math.MaxUint64)

	_, err := DecodeEntry(bytes.NewReader(header))
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}
