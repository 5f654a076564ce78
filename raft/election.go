package raft

import (
	"log"
	"strconv"
	"time"

	"github.com/xwhuang/raft-ledger/param"
)

const (
	heartbeatInterval = 10 * time.Millisecond // 心跳间隔
	electionTimeout   = 50 * time.Millisecond // 选举超时时间的基准值
)

// electionContext 是一个辅助结构体，用于封装单次选举过程中的计票状态。
type electionContext struct {
	peers    []int // 集群的完整节点列表（包含自身）
	majority int   // 需要的多数票
	votes    int   // 已获得的票数
}

// newElectionContext 是 electionContext 的构造函数。
// 它从 Raft 实例中获取当前选举所需的全部上下文信息。
func newElectionContext(r *Raft) *electionContext {
	r.mu.Lock()
	defer r.mu.Unlock()

	// 复制当前配置，确保选举期间的计票逻辑不受外部状态变更的影响。
	peers := append([]int(nil), r.peerIds...)
	peers = append(peers, r.id) // 将自身加入计票列表

	return &electionContext{
		peers:    peers,
		majority: len(peers)/2 + 1,
		votes:    1, // 初始化计票器，首先计入自己的那一票。
	}
}

// runElectionTimer 是节点的后台选举计时器循环。
// 只要节点不是 Leader，并且在随机化的超时时间内没有收到来自合法 Leader
// 的消息（或投出选票），它就会发起一次新的选举。
func (r *Raft) runElectionTimer() {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.quit:
			return
		case <-ticker.C:
		}

		r.mu.Lock()
		if r.state == param.Dead {
			r.mu.Unlock()
			return
		}
		if r.state == param.Leader {
			r.mu.Unlock()
			continue
		}
		if time.Since(r.electionResetEvent) < r.currentElectionTimeout {
			r.mu.Unlock()
			continue
		}
		r.mu.Unlock()

		r.startElection()
	}
}

// startElection 主函数：发起选举并处理结果
// 当一个 Follower 节点的选举计时器超时后，它会转变为 Candidate 状态并发起新一轮的选举。此函数负责：
// - 增加 currentTerm（当前任期号）。
// - 投票给自己 (votedFor = r.id)。
// - 重置选举计时器。
// - 向集群中的其他所有节点并行发送 RequestVote RPC（远程过程调用）来请求投票。
func (r *Raft) startElection() {
	r.mu.Lock()

	// 1. 初始化候选人状态：更新任期、投票给自己并持久化。
	// 如果此步骤失败（例如持久化失败），则无法安全地进行选举。
	if err := r.initializeCandidateState(); err != nil {
		r.mu.Unlock()
		return
	}

	// 2. 获取用于投票请求的日志信息。
	// 这是 Raft 安全性的一部分，确保日志旧的候选人无法当选。
	lastLogIndex, lastLogTerm, err := r.getLastLogInfoForElection()
	if err != nil {
		r.mu.Unlock()
		return
	}

	// 保存当前的选举任期，用于后续在处理投票结果时进行比较。
	savedCurrentTerm := r.currentTerm
	r.mu.Unlock() // 在发起网络调用前解锁。

	// 3. 并发地向所有对等节点广播投票请求。
	voteChan := r.broadcastVoteRequests(savedCurrentTerm, lastLogIndex, lastLogTerm)

	// 4. 在一个新的 goroutine 中异步处理选举结果。
	go r.handleElectionResult(voteChan, savedCurrentTerm)
}

// initializeCandidateState 负责将节点状态转换为 Candidate，更新任期，投票给自己，并持久化这些变更。
// 这是成为候选人的第一步，且必须是原子性的。
func (r *Raft) initializeCandidateState() error {
	// 将状态更新为 Candidate，增加当前任期号，并给自己投票。
	r.state = param.Candidate
	r.currentTerm++
	r.votedFor = r.id
	// 重置选举计时器，为本轮选举设定新的超时时间。
	r.electionResetEvent = time.Now()
	r.currentElectionTimeout = r.randomizedElectionTimeout()

	// 持久化更新后的任期和投票记录。
	// 这是至关重要的一步：必须在发送投票请求（RPC）之前将新状态写入稳定存储。
	// 这样可以确保即使节点在发送请求后立即崩溃，重启后也不会忘记自己已经进入了新的任期并投了票，
	// 从而避免在同一个任期内投票给其他候选人，防止脑裂。
	if err := r.store.SetState(param.HardState{CurrentTerm: r.currentTerm, VotedFor: uint64(r.votedFor)}); err != nil {
		log.Printf("[ERROR] Node %d failed to persist state before election: %v", r.id, err)
		return err
	}

	log.Printf("[Election] Node %d starts election for term %d", r.id, r.currentTerm)
	return nil
}

// getLastLogInfoForElection 从存储中获取最后一条日志的索引和任期。
// 这些信息将用于填充 RequestVote RPC 参数，以供其他节点进行日志新旧检查。
func (r *Raft) getLastLogInfoForElection() (lastLogIndex uint64, lastLogTerm uint64, err error) {
	// 从存储中获取自己最后一条日志的索引。
	lastLogIndex, err = r.store.LastLogIndex()
	if err != nil {
		log.Printf("[ERROR] Node %d failed to get last log index for election: %v", r.id, err)
		return 0, 0, err
	}

	// 如果日志不为空，则获取最后一条日志的任期。
	if lastLogIndex > 0 {
		lastLogTerm, err = r.getLogTerm(lastLogIndex)
		if err != nil {
			log.Printf("[ERROR] Node %d failed to get last log term for election: %v", r.id, err)
			return 0, 0, err
		}
	}
	return lastLogIndex, lastLogTerm, nil
}

// broadcastVoteRequests 负责向集群中所有其他节点并行地发送投票请求。
// 它会返回一个 channel，用于接收投票结果。
func (r *Raft) broadcastVoteRequests(term uint64, lastLogIndex uint64, lastLogTerm uint64) <-chan *param.VoteResult {
	// 创建一个带缓冲的 channel 用于接收投票结果。
	voteChan := make(chan *param.VoteResult, len(r.peerIds))

	// 并发地向集群中的所有其他节点发送投票请求。
	// 使用 goroutine 可以确保所有请求并行发出，加快选举过程。
	for _, peerId := range r.peerIds {
		go r.sendVoteRequest(peerId, term, lastLogIndex, lastLogTerm, voteChan)
	}
	return voteChan
}

// handleElectionResult 处理投票结果和超时，决定是否成为Leader或回退
// 如果收到了超过半数节点的投票，则该 Candidate 节点成为 Leader。
// 成为 Leader 后，会立即初始化 Leader 的状态（nextIndex 和 matchIndex）并开始发送心跳。
// 如果在选举超时时间内未能获得多数票，选举失败，节点退回为 Follower 状态。
func (r *Raft) handleElectionResult(voteChan <-chan *param.VoteResult, electionTerm uint64) {
	// 1. 初始化选举上下文。
	ctx := newElectionContext(r)

	// 2. 启动选举计时器。
	electionTimer := time.NewTimer(electionTimeout)
	defer electionTimer.Stop()

	// 3. 循环等待，直到选举获胜或超时。
	for {
		select {
		case result := <-voteChan:
			// 处理收到的投票。如果计票结果显示选举获胜，则转换状态并结束。
			if r.processVote(ctx, result, electionTerm) {
				return
			}

		case <-electionTimer.C:
			// 处理选举超时。
			r.handleElectionTimeout(electionTerm)
			return

		case <-r.quit:
			return
		}
	}
}

// processVote 处理单张选票，更新计票器，并检查是否赢得选举。
// 如果赢得选举，则返回 true；否则返回 false。
func (r *Raft) processVote(ctx *electionContext, result *param.VoteResult, electionTerm uint64) (won bool) {
	// 只处理投赞成票的结果。
	if result.VoteGranted {
		log.Printf("[Election] Node %d received a vote from node %d for term %d", r.id, result.VoterID, electionTerm)
		if _, isPeer := findPeer(result.VoterID, ctx.peers); isPeer {
			ctx.votes++
		}

		// 检查是否满足获胜条件。
		if ctx.votes >= ctx.majority {
			r.transitionToLeader(electionTerm)
			return true // 选举已获胜
		}
	}
	return false // 尚未获胜
}

// transitionToLeader 封装了当选为 Leader 后的状态转换逻辑。
func (r *Raft) transitionToLeader(electionTerm uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// 再次确认自己仍然是本轮选举的候选人，防止因状态变更导致的问题。
	if r.state == param.Candidate && r.currentTerm == electionTerm {
		log.Printf("[Election] Node %d elected as Leader for term %d", r.id, r.currentTerm)
		r.state = param.Leader
		r.knownLeaderID = r.id
		r.initLeaderState()
		r.startHeartbeat()
	}
}

// handleElectionTimeout 封装了选举超时后的状态转换逻辑。
func (r *Raft) handleElectionTimeout(electionTerm uint64) {
	log.Printf("[Election] Node %d election timed out for term %d", r.id, electionTerm)
	r.mu.Lock()
	defer r.mu.Unlock()

	// 确认自己仍然是本轮选举的候选人，然后退回为 Follower 状态。
	if r.state == param.Candidate && r.currentTerm == electionTerm {
		log.Printf("[Election] Node %d election failed, reverting to Follower", r.id)
		// 调用 becomeFollower 会更新 term, state, votedFor 并持久化
		// 因为任期没有变，所以传入 r.currentTerm 即可
		if err := r.becomeFollower(r.currentTerm); err != nil {
			log.Printf("[ERROR] Node %d failed to revert to Follower: %v", r.id, err)
		}
	}
}

// sendVoteRequest 向单个Peer发送投票请求，并处理响应。
// 如果响应中包含更高的任期号，当前节点会立即更新自己的任期并转为 Follower。
func (r *Raft) sendVoteRequest(peerId int, term uint64, lastLogIndex uint64, lastLogTerm uint64, voteChan chan<- *param.VoteResult) {
	args := param.NewRequestVoteArgs(term, r.id, lastLogIndex, lastLogTerm)
	reply := param.NewRequestVoteReply()

	if err := r.trans.SendRequestVote(strconv.Itoa(peerId), args, reply); err != nil {
		log.Printf("[Election] Node %d failed to request vote from %d: %v", r.id, peerId, err)
		voteChan <- &param.VoteResult{VoterID: peerId, VoteGranted: false}
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// 如果收到更高term的响应，立即转为Follower
	if reply.Term > r.currentTerm {
		log.Printf("[Election] Node %d found higher term %d from peer %d, becomes Follower", r.id, reply.Term, peerId)
		if err := r.becomeFollower(reply.Term); err != nil {
			log.Printf("[ERROR] Node %d failed to persist state after finding higher term: %v", r.id, err)
		}
	}

	voteChan <- &param.VoteResult{VoterID: peerId, VoteGranted: reply.VoteGranted}
}

// initLeaderState initializes leader state after election
func (r *Raft) initLeaderState() {
	// This method is called with the lock held.
	lastLogIndex, err := r.store.LastLogIndex()
	if err != nil {
		log.Printf("[ERROR] Node %d (new leader) failed to get last log index to initialize state: %v", r.id, err)
		// This is a critical error, might need to step down.
		r.state = param.Follower
		return
	}

	r.nextIndex = make(map[int]uint64)
	r.matchIndex = make(map[int]uint64)
	for _, peerId := range r.peerIds {
		r.nextIndex[peerId] = lastLogIndex + 1
		r.matchIndex[peerId] = 0
	}
}

// startHeartbeat starts periodic heartbeat loops
func (r *Raft) startHeartbeat() {
	// This method is called with the lock held.
	go func() {
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()

		// Send an initial heartbeat immediately without waiting for the first tick.
		r.mu.Lock()
		r.broadcastHeartbeat()
		r.mu.Unlock()

		for {
			select {
			case <-r.quit:
				return
			case <-ticker.C:
			}

			r.mu.Lock()
			if r.state != param.Leader {
				r.mu.Unlock()
				return
			}
			r.broadcastHeartbeat()
			r.mu.Unlock()
		}
	}()
}

// broadcastHeartbeat is a helper to send AppendEntries to all peers.
func (r *Raft) broadcastHeartbeat() {
	// This method must be called with the lock held.
	for _, peerId := range r.peerIds {
		go r.sendAppendEntries(peerId)
	}
}

// RequestVote 是处理投票请求的 RPC 入口。
func (r *Raft) RequestVote(args *param.RequestVoteArgs, reply *param.RequestVoteReply) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == param.Dead {
		return nil
	}

	// 1. 处理任期相关的检查和状态更新。如果任期检查失败，则直接返回。
	if proceed, err := r.handleVoteTermLogic(args, reply); !proceed {
		return err
	}

	// 2. 根据 Raft 的投票规则（日志新旧、是否已投票）做出最终决定。
	return r.decideVote(args, reply)
}

// handleVoteTermLogic 封装了所有与任期相关的逻辑。
// 返回值 bool 表示是否应继续后续的投票判断。
// 此函数必须在持有锁的情况下被调用。
func (r *Raft) handleVoteTermLogic(args *param.RequestVoteArgs, reply *param.RequestVoteReply) (bool, error) {
	// 如果对方的任期低于自己，这是一个过时的请求，直接拒绝。
	if args.Term < r.currentTerm {
		reply.Term = r.currentTerm
		reply.VoteGranted = false
		return false, nil
	}

	// 如果对方的任期高于自己，则更新自己的状态为 Follower。
	if args.Term > r.currentTerm {
		if err := r.becomeFollower(args.Term); err != nil {
			reply.VoteGranted = false
			return false, err // 持久化失败是严重错误
		}
	}
	// 更新 reply 中的任期号以匹配当前（可能已更新的）任期。
	reply.Term = r.currentTerm
	return true, nil
}

// decideVote 封装了最终的投票决策逻辑。
// 它检查投票资格和日志新鲜度，并据此授予或拒绝投票。
// 此函数必须在持有锁的情况下被调用。
func (r *Raft) decideVote(args *param.RequestVoteArgs, reply *param.RequestVoteReply) error {
	// 检查自己是否有资格投票（在本任期内还未投票，或已投给当前候选人）。
	canVote := r.votedFor == -1 || r.votedFor == args.CandidateID

	// 检查候选人的日志是否至少和自己一样新。
	logIsUpToDate, err := r.isLogUpToDate(args.LastLogIndex, args.LastLogTerm)
	if err != nil {
		reply.VoteGranted = false
		return err
	}

	// 只有同时满足两个条件时，才授予投票。
	if canVote && logIsUpToDate {
		if err := r.grantVote(args.CandidateID); err != nil {
			reply.VoteGranted = false
			return err
		}
		reply.VoteGranted = true
	} else {
		// 否则，拒绝投票，并记录详细原因。
		log.Printf("[RequestVote] Node %d denying vote for term %d to candidate %d. (canVote=%t, logIsUpToDate=%t)", r.id, r.currentTerm, args.CandidateID, canVote, logIsUpToDate)
		reply.VoteGranted = false
	}
	return nil
}

// isLogUpToDate 检查候选人的日志是否至少和本节点一样新。
// 这是 Raft 选举安全规则的核心实现。此函数必须在持有锁的情况下被调用。
func (r *Raft) isLogUpToDate(candidateLastLogIndex, candidateLastLogTerm uint64) (bool, error) {
	// 从存储中获取本节点的最后一条日志信息。
	localLastLogIndex, err := r.store.LastLogIndex()
	if err != nil {
		log.Printf("[ERROR] Node %d failed to get last log index from store: %v", r.id, err)
		return false, err
	}

	localLastLogTerm, err := r.getLogTerm(localLastLogIndex)
	if err != nil {
		log.Printf("[ERROR] Node %d failed to get last log entry from store: %v", r.id, err)
		return false, err
	}

	// 1. 如果任期号不同，任期号大的日志更新。
	// 2. 如果任期号相同，日志更长的（索引更大）的更新。
	if candidateLastLogTerm > localLastLogTerm || (candidateLastLogTerm == localLastLogTerm && candidateLastLogIndex >= localLastLogIndex) {
		return true, nil
	}

	return false, nil
}

// grantVote 记录为指定候选人投票的动作，并将其持久化。
// 此函数必须在持有锁的情况下被调用。
func (r *Raft) grantVote(candidateId int) error {
	log.Printf("[RequestVote] Node %d granting vote for term %d to candidate %d.", r.id, r.currentTerm, candidateId)
	r.votedFor = candidateId
	r.electionResetEvent = time.Now()
	r.currentElectionTimeout = r.randomizedElectionTimeout()

	if err := r.store.SetState(param.HardState{CurrentTerm: r.currentTerm, VotedFor: uint64(r.votedFor)}); err != nil {
		log.Printf("[ERROR] Node %d failed to persist vote: %v", r.id, err)
		return err
	}
	return nil
}

// findPeer 在给定的 peers 列表中查找指定的 id。
func findPeer(id int, peers []int) (int, bool) {
	for i, p := range peers {
		if p == id {
			return i, true
		}
	}
	return -1, false
}
