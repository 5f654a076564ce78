package bank

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xwhuang/raft-ledger/param"
)

func applyCommand(t *testing.T, l *Ledger, cmd Command) string {
	t.Helper()
	data, err := cmd.Encode()
	assert.NoError(t, err)
	return l.Apply(param.LogEntry{Index: 1, Term: 1, Command: data})
}

func TestLedger(t *testing.T) {
	t.Run("Deposit Creates Account", func(t *testing.T) {
		l := NewLedger()

		result := applyCommand(t, l, Command{Op: OpDeposit, Account: "alice", Amount: 100})
		assert.Equal(t, "100", result)

		balance, err := l.Balance("alice")
		assert.NoError(t, err)
		assert.Equal(t, int64(100), balance)
	})

	t.Run("Withdraw", func(t *testing.T) {
		l := NewLedger()
		applyCommand(t, l, Command{Op: OpDeposit, Account: "alice", Amount: 100})

		result := applyCommand(t, l, Command{Op: OpWithdraw, Account: "alice", Amount: 30})
		assert.Equal(t, "70", result)

		balance, err := l.Balance("alice")
		assert.NoError(t, err)
		assert.Equal(t, int64(70), balance)
	})

	t.Run("Overdraft Rejected", func(t *testing.T) {
		l := NewLedger()
		applyCommand(t, l, Command{Op: OpDeposit, Account: "alice", Amount: 50})

		result := applyCommand(t, l, Command{Op: OpWithdraw, Account: "alice", Amount: 100})
		assert.Contains(t, result, "insufficient funds")

		// Rejected withdrawal must not change the balance
		balance, err := l.Balance("alice")
		assert.NoError(t, err)
		assert.Equal(t, int64(50), balance)
	})

	t.Run("Unknown Account", func(t *testing.T) {
		l := NewLedger()

		result := applyCommand(t, l, Command{Op: OpWithdraw, Account: "ghost", Amount: 10})
		assert.Contains(t, result, "unknown account")

		_, err := l.Balance("ghost")
		assert.ErrorIs(t, err, ErrUnknownAccount)
	})

	t.Run("Transfer", func(t *testing.T) {
		l := NewLedger()
		applyCommand(t, l, Command{Op: OpDeposit, Account: "alice", Amount: 100})

		result := applyCommand(t, l, Command{Op: OpTransfer, Account: "alice", To: "bob", Amount: 40})
		assert.Equal(t, "OK", result)

		aliceBalance, err := l.Balance("alice")
		assert.NoError(t, err)
		assert.Equal(t, int64(60), aliceBalance)

		bobBalance, err := l.Balance("bob")
		assert.NoError(t, err)
		assert.Equal(t, int64(40), bobBalance)
	})

	t.Run("Transfer Insufficient Funds", func(t *testing.T) {
		l := NewLedger()
		applyCommand(t, l, Command{Op: OpDeposit, Account: "alice", Amount: 10})

		result := applyCommand(t, l, Command{Op: OpTransfer, Account: "alice", To: "bob", Amount: 40})
		assert.Contains(t, result, "insufficient funds")

		// Neither side of the transfer should have changed
		aliceBalance, _ := l.Balance("alice")
		assert.Equal(t, int64(10), aliceBalance)
		_, err := l.Balance("bob")
		assert.ErrorIs(t, err, ErrUnknownAccount)
	})

	t.Run("Balance Query Through Log", func(t *testing.T) {
		l := NewLedger()
		applyCommand(t, l, Command{Op: OpDeposit, Account: "alice", Amount: 250})

		result := applyCommand(t, l, Command{Op: OpBalance, Account: "alice"})
		assert.Equal(t, "250", result)
	})

	t.Run("Invalid Amount", func(t *testing.T) {
		l := NewLedger()

		result := applyCommand(t, l, Command{Op: OpDeposit, Account: "alice", Amount: -5})
		assert.Contains(t, result, "amount must be positive")
	})

	t.Run("Malformed Command", func(t *testing.T) {
		l := NewLedger()

		result := l.Apply(param.LogEntry{Index: 1, Term: 1, Command: []byte("not json")})
		assert.Contains(t, result, "ERROR")
	})

	t.Run("Unknown Operation", func(t *testing.T) {
		l := NewLedger()

		result := applyCommand(t, l, Command{Op: "freeze", Account: "alice"})
		assert.Contains(t, result, "unknown operation")
	})

	t.Run("Replay Rebuilds State", func(t *testing.T) {
		commands := []Command{
			{Op: OpDeposit, Account: "alice", Amount: 100},
			{Op: OpDeposit, Account: "bob", Amount: 50},
			{Op: OpTransfer, Account: "alice", To: "bob", Amount: 25},
			{Op: OpWithdraw, Account: "bob", Amount: 10},
		}

		// 同一串命令按序重放，必须收敛到同一个状态。
		l1, l2 := NewLedger(), NewLedger()
		for _, l := range []*Ledger{l1, l2} {
			for i, cmd := range commands {
				data, err := cmd.Encode()
				assert.NoError(t, err)
				l.Apply(param.LogEntry{Index: uint64(i + 1), Term: 1, Command: data})
			}
		}

		for _, account := range []string{"alice", "bob"} {
			b1, err1 := l1.Balance(account)
			b2, err2 := l2.Balance(account)
			assert.NoError(t, err1)
			assert.NoError(t, err2)
			assert.Equal(t, b1, b2)
		}

		aliceBalance, _ := l1.Balance("alice")
		bobBalance, _ := l1.Balance("bob")
		assert.Equal(t, int64(75), aliceBalance)
		assert.Equal(t, int64(65), bobBalance)
	})
}
