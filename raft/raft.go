package raft

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/xwhuang/raft-ledger/param"
	"github.com/xwhuang/raft-ledger/storage"
	"github.com/xwhuang/raft-ledger/transport"
)

type Raft struct {
	// mu 保护对 Raft 状态的并发访问
	mu sync.Mutex

	// id 是当前节点的服务器ID
	id int

	// peerIds 是集群中其他节点的ID列表（不包含自身）
	peerIds []int
	// knownLeaderID 是当前节点已知的 Leader ID
	knownLeaderID int

	// store 负责持久化 Raft 状态和日志信息
	store storage.Storage
	// trans 负责网络通信
	trans transport.Transport
	// stateMachine 应用层的状态机接口
	stateMachine storage.StateMachine

	// --- Raft 核心状态 ---
	currentTerm uint64
	votedFor    int
	state       param.State

	// --- 日志与状态机相关 ---
	commitIndex uint64
	lastApplied uint64
	commitChan  chan<- param.CommitEntry

	// --- 选举相关 ---
	electionResetEvent     time.Time
	currentElectionTimeout time.Duration

	// --- Leader 的易失性状态 ---
	nextIndex  map[int]uint64
	matchIndex map[int]uint64

	// --- 客户端交互状态 ---
	clientSessions map[int64]int64
	notifyApply    map[uint64]chan string

	// quit 在 Stop 时关闭，通知所有后台 goroutine 退出
	quit chan struct{}
}

// NewRaft 创建一个新的 Raft 节点并从稳定存储中恢复其持久化状态。
// 节点创建后处于静止状态，直到调用 Run 启动选举计时器。
func NewRaft(id int, peerIds []int, store storage.Storage, stateMachine storage.StateMachine, trans transport.Transport, commitChan chan<- param.CommitEntry) *Raft {
	r := &Raft{
		id:             id,
		peerIds:        peerIds,
		store:          store,
		stateMachine:   stateMachine,
		trans:          trans,
		knownLeaderID:  -1,
		state:          param.Follower,
		votedFor:       -1, // -1 表示未投票
		commitChan:     commitChan,
		nextIndex:      make(map[int]uint64),
		matchIndex:     make(map[int]uint64),
		clientSessions: make(map[int64]int64),
		notifyApply:    make(map[uint64]chan string),
		quit:           make(chan struct{}),
	}
	// 从稳定存储中恢复状态。
	if store != nil {
		hardState, err := store.GetState()
		if err != nil {
			log.Fatalf("failed to get hard state from storage: %s", err.Error())
		}
		r.currentTerm = hardState.CurrentTerm
		r.votedFor = int(hardState.VotedFor)
	}

	r.electionResetEvent = time.Now()
	r.currentElectionTimeout = r.randomizedElectionTimeout()

	return r
}

// Run 启动节点的后台选举计时器。
func (r *Raft) Run() {
	r.mu.Lock()
	r.electionResetEvent = time.Now()
	r.currentElectionTimeout = r.randomizedElectionTimeout()
	r.mu.Unlock()

	go r.runElectionTimer()
}

// Stop 终止节点的所有后台活动。节点进入 Dead 状态后不再响应任何 RPC。
func (r *Raft) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == param.Dead {
		return
	}
	r.state = param.Dead
	close(r.quit)
	log.Printf("[State Change] Node %d is stopping.", r.id)
}

// State 返回节点当前的任期和角色，供观测与测试使用。
func (r *Raft) State() (uint64, param.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentTerm, r.state
}

// ID 返回节点的服务器ID。
func (r *Raft) ID() int {
	return r.id
}

// randomizedElectionTimeout 返回一个随机化的选举超时时间。
// 随机化可以有效避免多个节点同时发起选举导致的选票分裂。
func (r *Raft) randomizedElectionTimeout() time.Duration {
	return electionTimeout + time.Duration(rand.Int63n(int64(electionTimeout)))
}

// getLogTerm 返回指定索引的日志条目的任期。
func (r *Raft) getLogTerm(index uint64) (uint64, error) {
	if index == 0 {
		return 0, nil
	}
	entry, err := r.store.GetEntry(index)
	if err != nil {
		log.Printf("[ERROR] failed to get log entry at index %d: %v", index, err)
		return 0, err
	}
	if entry == nil {
		log.Printf("[ERROR] log entry at index %d not found", index)
		return 0, nil
	}
	return entry.Term, nil
}

// proposeToLog 在【持有锁】的情况下，将命令写入本地日志。
func (r *Raft) proposeToLog(command []byte) (param.LogEntry, error) {
	// 1. 从存储中获取最后一条日志的索引，以确定新日志的索引。
	lastIndex, err := r.store.LastLogIndex()
	if err != nil {
		log.Printf("[ERROR] Leader %d failed to get last log index to propose new entry: %v", r.id, err)
		return param.LogEntry{}, err
	}
	newIndex := lastIndex + 1

	// 2. 将新条目原子性地追加并持久化到 Leader 的本地存储中。
	newLogEntry := param.NewLogEntry(command, r.currentTerm, newIndex)
	if err := r.store.AppendEntries([]param.LogEntry{newLogEntry}); err != nil {
		log.Printf("leader %d failed to append new log entry: %s", r.id, err.Error())
		return param.LogEntry{}, err
	}
	log.Printf("leader %d proposed new log entry at index %d", r.id, newIndex)

	return newLogEntry, nil
}

// Submit 将一个普通的客户端命令追加到 Raft 日志中。
// 返回新条目的 index 和 term；如果当前节点不是 Leader，最后一个返回值为 false。
func (r *Raft) Submit(command []byte) (uint64, uint64, bool) {
	r.mu.Lock()

	// 1. 检查当前节点是否为 Leader。
	if r.state != param.Leader {
		r.mu.Unlock()
		return 0, 0, false
	}

	// 2. 将命令写入本地日志（此过程在持有锁的情况下完成）。
	newLogEntry, err := r.proposeToLog(command)
	if err != nil {
		r.mu.Unlock()
		return 0, 0, false
	}

	// 3. 在启动 goroutine 之前，先复制 peer 列表，然后立即解锁。
	peersToNotify := append([]int(nil), r.peerIds...)
	r.mu.Unlock()

	// 4. 在没有持有锁的情况下，安全地启动广播 goroutine。
	for _, peerId := range peersToNotify {
		go r.sendAppendEntries(peerId)
	}

	return newLogEntry.Index, newLogEntry.Term, true
}

// becomeFollower 将节点的状态更新为指定新任期的 Follower。
// 它会持久化新状态，并且必须在持有锁的情况下被调用。
func (r *Raft) becomeFollower(newTerm uint64) error {
	log.Printf("[State Change] Node %d received higher term %d. Updating term and becoming follower.", r.id, newTerm)
	r.currentTerm = newTerm
	r.state = param.Follower
	r.votedFor = -1 // 进入新任期时，重置投票记录。

	if err := r.store.SetState(param.HardState{CurrentTerm: r.currentTerm, VotedFor: uint64(r.votedFor)}); err != nil {
		log.Printf("[ERROR] Node %d failed to persist state after becoming follower: %v", r.id, err)
		return err
	}
	return nil
}
