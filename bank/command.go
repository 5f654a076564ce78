package bank

import (
	"encoding/json"
	"fmt"
)

// 账本支持的操作。
const (
	OpDeposit  = "deposit"
	OpWithdraw = "withdraw"
	OpTransfer = "transfer"
	OpBalance  = "balance"
)

// Command 是账本命令的线上格式，以 JSON 序列化后作为日志条目的 Command 载荷。
// To 仅在 transfer 操作中使用，Amount 以最小货币单位（分）表示。
type Command struct {
	Op      string `json:"op"`
	Account string `json:"account"`
	To      string `json:"to,omitempty"`
	Amount  int64  `json:"amount,omitempty"`
}

// Encode 将命令序列化为日志条目载荷。
func (c Command) Encode() ([]byte, error) {
	return json.Marshal(c)
}

// DecodeCommand 从日志条目载荷中解析命令。
func DecodeCommand(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Command{}, fmt.Errorf("bank: decode command: %w", err)
	}
	return cmd, nil
}
