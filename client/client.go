package client

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strconv"
	"time"

	"github.com/xwhuang/raft-ledger/bank"
	"github.com/xwhuang/raft-ledger/param"
	"github.com/xwhuang/raft-ledger/transport"
)

// clientAction 定义了客户端在处理完一次 RPC 响应后应采取的下一步动作。
type clientAction int

const (
	actionSuccess clientAction = iota // 动作：成功，可以返回结果
	actionFail                        // 动作：失败，应终止操作
	actionRetry                       // 动作：重试，应继续循环
)

// Client 封装了与账本集群交互的逻辑。
// 每个命令都携带客户端ID和单调递增的序列号，服务端据此对重试请求去重，
// 保证转账等命令不会因为客户端重试而被执行两次。
type Client struct {
	clientID    int64               // 客户端的唯一ID
	sequenceNum int64               // 当前请求的序列号
	servers     map[int]string      // 集群中所有节点的 ID -> 地址映射
	leaderHint  int                 // 当前已知的 Leader ID
	trans       transport.Transport // 用于网络通信的传输层
}

// NewClient 创建一个新的客户端实例。
func NewClient(servers map[int]string, trans transport.Transport) *Client {
	// 生成一个随机的64位整数作为客户端ID。
	randID, _ := rand.Int(rand.Reader, big.NewInt(int64(^uint64(0)>>1)))
	return &Client{
		clientID:    randID.Int64(),
		sequenceNum: 0,
		servers:     servers,
		leaderHint:  0, // 初始时不知道谁是 Leader
		trans:       trans,
	}
}

// Deposit 向指定账户存入金额，返回存入后的余额。
func (c *Client) Deposit(account string, amount int64) (string, error) {
	return c.sendLedgerCommand(bank.Command{Op: bank.OpDeposit, Account: account, Amount: amount})
}

// Withdraw 从指定账户取出金额，返回取出后的余额。
func (c *Client) Withdraw(account string, amount int64) (string, error) {
	return c.sendLedgerCommand(bank.Command{Op: bank.OpWithdraw, Account: account, Amount: amount})
}

// Transfer 在两个账户之间转账。
func (c *Client) Transfer(from, to string, amount int64) (string, error) {
	return c.sendLedgerCommand(bank.Command{Op: bank.OpTransfer, Account: from, To: to, Amount: amount})
}

// Balance 查询指定账户的余额。
// 查询命令同样走一遍日志复制，因此结果是线性一致的。
func (c *Client) Balance(account string) (string, error) {
	return c.sendLedgerCommand(bank.Command{Op: bank.OpBalance, Account: account})
}

// sendLedgerCommand 序列化账本命令并提交给集群。
func (c *Client) sendLedgerCommand(cmd bank.Command) (string, error) {
	payload, err := cmd.Encode()
	if err != nil {
		return "", err
	}
	result, ok := c.SendCommand(payload)
	if !ok {
		return "", fmt.Errorf("client: command %q did not complete", cmd.Op)
	}
	return result, nil
}

// SendCommand 向集群发送一个已序列化的命令。
func (c *Client) SendCommand(command []byte) (string, bool) {
	opTimeout := time.After(5 * time.Second)
	c.sequenceNum++
	request := param.NewClientArgs(c.clientID, c.sequenceNum, command)

	for {
		select {
		case <-opTimeout:
			log.Printf("[Client] Command (seq:%d) timed out after 5 seconds.", c.sequenceNum)
			return "", false
		default:
			result, action := c.attemptOnce(request)

			// 使用我们定义的常量进行比较，而不是字符串。
			switch action {
			case actionSuccess:
				return result, true
			case actionFail:
				return "", false
			case actionRetry:
				time.Sleep(100 * time.Millisecond)
				continue
			}
		}
	}
}

// attemptOnce 负责执行单次向集群发送命令的尝试。
func (c *Client) attemptOnce(request *param.ClientArgs) (string, clientAction) {
	targetNodeID := c.selectTargetNode()
	log.Printf("[Client] Sending command (seq:%d) to node %d", c.sequenceNum, targetNodeID)

	reply := &param.ClientReply{}
	err := c.trans.SendClientRequest(strconv.Itoa(targetNodeID), request, reply)

	return c.decideNextAction(targetNodeID, reply, err)
}

// selectTargetNode 负责根据当前已知的 Leader 信息选择一个发送请求的目标节点。
func (c *Client) selectTargetNode() int {
	if c.leaderHint != 0 {
		return c.leaderHint
	}
	for id := range c.servers {
		return id
	}
	return 0
}

// decideNextAction 封装了所有处理 RPC 响应的决策逻辑。
// 它现在返回我们定义的 clientAction 类型，而不是字符串。
func (c *Client) decideNextAction(targetNodeID int, reply *param.ClientReply, err error) (result string, action clientAction) {
	if err != nil {
		log.Printf("[Client] Error sending request to node %d: %v. Retrying...", targetNodeID, err)
		c.leaderHint = 0
		return "", actionRetry
	}

	if reply.NotLeader {
		log.Printf("[Client] Node %d is not leader. New leader hint: %d. Retrying...", targetNodeID, reply.LeaderHint)
		c.leaderHint = reply.LeaderHint
		return "", actionRetry
	}

	if reply.Success {
		log.Printf("[Client] Command (seq:%d) successfully processed.", c.sequenceNum)
		return reply.Result, actionSuccess
	}

	log.Printf("[Client] Command (seq:%d) failed to be processed by leader. Retrying...", c.sequenceNum)
	c.leaderHint = 0
	return "", actionRetry
}
