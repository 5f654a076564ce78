// Package bank 实现复制状态机的业务部分：一个简单的银行账本。
//
// 账本只保存内存状态，持久性完全来自日志重放：节点重启后，
// 存储层会把已落盘的日志条目按序重新 Apply，账本自然恢复。
package bank

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/xwhuang/raft-ledger/param"
)

var (
	ErrUnknownAccount    = errors.New("unknown account")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be positive")
)

// Ledger 是一个线程安全的内存账本，实现 storage.StateMachine 接口。
type Ledger struct {
	mu       sync.RWMutex
	accounts map[string]int64
}

// NewLedger 创建一个空账本。
func NewLedger() *Ledger {
	return &Ledger{
		accounts: make(map[string]int64),
	}
}

// Apply 将一条已提交的日志条目应用到账本，返回给客户端的结果字符串。
// 命令本身来自客户端，可能是任意字节：解析失败不是账本的不变量破坏，
// 按业务错误处理而不是 panic。
func (l *Ledger) Apply(entry param.LogEntry) string {
	cmd, err := DecodeCommand(entry.Command)
	if err != nil {
		return "ERROR: " + err.Error()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	switch cmd.Op {
	case OpDeposit:
		if cmd.Amount <= 0 {
			return "ERROR: " + ErrInvalidAmount.Error()
		}
		// 存款会隐式开户。
		l.accounts[cmd.Account] += cmd.Amount
		return strconv.FormatInt(l.accounts[cmd.Account], 10)

	case OpWithdraw:
		balance, ok := l.accounts[cmd.Account]
		if !ok {
			return "ERROR: " + ErrUnknownAccount.Error()
		}
		if cmd.Amount <= 0 {
			return "ERROR: " + ErrInvalidAmount.Error()
		}
		if balance < cmd.Amount {
			return "ERROR: " + ErrInsufficientFunds.Error()
		}
		l.accounts[cmd.Account] = balance - cmd.Amount
		return strconv.FormatInt(l.accounts[cmd.Account], 10)

	case OpTransfer:
		balance, ok := l.accounts[cmd.Account]
		if !ok {
			return "ERROR: " + ErrUnknownAccount.Error()
		}
		if cmd.Amount <= 0 {
			return "ERROR: " + ErrInvalidAmount.Error()
		}
		if balance < cmd.Amount {
			return "ERROR: " + ErrInsufficientFunds.Error()
		}
		l.accounts[cmd.Account] = balance - cmd.Amount
		l.accounts[cmd.To] += cmd.Amount
		return "OK"

	case OpBalance:
		// 余额查询也走日志提交，保证读到的是线性一致的状态。
		balance, ok := l.accounts[cmd.Account]
		if !ok {
			return "ERROR: " + ErrUnknownAccount.Error()
		}
		return strconv.FormatInt(balance, 10)

	default:
		return fmt.Sprintf("ERROR: unknown operation: %s", cmd.Op)
	}
}

// Balance 直接读取账户余额，供本地观测使用，不保证线性一致性。
func (l *Ledger) Balance(account string) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	balance, ok := l.accounts[account]
	if !ok {
		return 0, ErrUnknownAccount
	}
	return balance, nil
}
