package raft

import (
	"log"
	"time"

	"github.com/xwhuang/raft-ledger/param"
)

// applyTimeout 是 Leader 等待一条日志被状态机应用的最长时间。
const applyTimeout = 2 * time.Second

// ClientRequest 是处理来自客户端请求的 RPC 函数。
// 它负责协调三个主要阶段：前置检查、提交并等待、处理最终结果。
func (r *Raft) ClientRequest(args *param.ClientArgs, reply *param.ClientReply) error {
	// 1. 执行前置检查。如果不是 Leader 或请求重复，则提前返回。
	if proceed := r.preHandleClientRequest(args, reply); !proceed {
		return nil
	}

	// 2. 将命令提交到 Raft 日志，并同步等待其被状态机应用。
	result, ok, leaderId := r.submitAndWaitForCommit(args.Command)

	// 3. 根据提交和等待的结果，最终填充客户端的响应。
	r.finalizeClientReply(args, reply, result, ok, leaderId)

	return nil
}

// preHandleClientRequest 封装了所有在提交日志前需要进行的前置检查。
// 返回值 bool 表示是否应继续处理该请求。
func (r *Raft) preHandleClientRequest(args *param.ClientArgs, reply *param.ClientReply) bool {
	if !r.isLeader() {
		reply.NotLeader = true
		reply.LeaderHint = r.leaderHint()
		return false
	}
	if r.isDuplicateRequest(args.ClientID, args.SequenceNum) {
		reply.Success = true // 对于重复请求，直接返回成功。
		return false
	}
	return true
}

// submitAndWaitForCommit 封装了将命令提交到 Raft 日志并等待其被应用的全过程。
// 它返回从状态机获得的结果，一个表示成功的布尔值，以及当前的 Leader ID。
func (r *Raft) submitAndWaitForCommit(command []byte) (string, bool, int) {
	index, _, isLeader := r.Submit(command)
	if !isLeader {
		// 在提交过程中，可能失去了 Leader 地位。
		return "", false, r.leaderHint()
	}

	// 等待命令被状态机成功应用，或等待超时。
	result, ok := r.waitForAppliedLog(index, applyTimeout)
	return result, ok, r.id
}

// finalizeClientReply 负责根据执行结果，最终构建给客户端的响应。
func (r *Raft) finalizeClientReply(args *param.ClientArgs, reply *param.ClientReply, result string, ok bool, leaderId int) {
	if ok {
		// 命令成功应用。
		r.mu.Lock()
		r.clientSessions[args.ClientID] = args.SequenceNum
		r.mu.Unlock()
		reply.Success = true
		reply.Result = result
	} else {
		// 如果失败，可能是因为超时，也可能是因为中途失去了 Leader 身份。
		reply.Success = false
		if !r.isLeader() {
			reply.NotLeader = true
			reply.LeaderHint = leaderId
		}
	}
}

// isLeader 是一个简单的辅助函数，用于检查节点是否为 Leader。
func (r *Raft) isLeader() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == param.Leader
}

// leaderHint 返回当前已知的 Leader ID，供客户端重定向。
func (r *Raft) leaderHint() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.knownLeaderID
}

// isDuplicateRequest 检查一个客户端请求是否是重复的。
// 它通过比较请求的序列号和服务器记录的该客户端的最后一个序列号来判断。
func (r *Raft) isDuplicateRequest(clientID int64, sequenceNum int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	lastSeqNum, exists := r.clientSessions[clientID]
	if exists && sequenceNum <= lastSeqNum {
		log.Printf("[Client] Duplicate request detected from client %d (seq: %d)", clientID, sequenceNum)
		return true
	}
	return false
}

// waitForAppliedLog 等待一个特定索引的日志被状态机应用。
// 它通过一个注册在 notifyApply 映射中的 channel 来实现同步等待。
func (r *Raft) waitForAppliedLog(index uint64, timeout time.Duration) (string, bool) {
	r.mu.Lock()
	// 创建一个通知 channel，并注册到 map 中。
	notifyChan := make(chan string, 1)
	r.notifyApply[index] = notifyChan
	r.mu.Unlock()

	// 等待 applyLogs 发出通知，或等待超时。
	select {
	case result := <-notifyChan:
		log.Printf("[Client] Notified that log index %d has been applied.", index)
		return result, true
	case <-time.After(timeout):
		log.Printf("[Client] Timed out waiting for log index %d to be applied.", index)
		// 超时后，需要清理掉注册的 channel 以防内存泄漏。
		r.mu.Lock()
		delete(r.notifyApply, index)
		r.mu.Unlock()
		return "", false
	}
}
