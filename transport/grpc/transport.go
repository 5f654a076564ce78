package grpc

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/xwhuang/raft-ledger/param"
	"github.com/xwhuang/raft-ledger/transport"
	"github.com/xwhuang/raft-ledger/transport/grpc/pb"
)

// rpcTimeout 是单次 gRPC 调用的超时时间。
const rpcTimeout = 2 * time.Second

// Transport implements transport.Transport using gRPC.
type Transport struct {
	pb.UnimplementedRaftServiceServer
	listener  net.Listener
	localAddr string

	raft       transport.RPCServer
	grpcServer *grpc.Server

	mu        sync.RWMutex
	conns     map[string]*grpc.ClientConn
	clients   map[string]pb.RaftServiceClient
	resolvers map[int]string
}

// NewTransport creates a new gRPC Transport.
func NewTransport(listenAddr string) (*Transport, error) {
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, err
	}

	return &Transport{
		listener:   listener,
		localAddr:  listener.Addr().String(),
		conns:      make(map[string]*grpc.ClientConn),
		clients:    make(map[string]pb.RaftServiceClient),
		resolvers:  make(map[int]string),
		grpcServer: grpc.NewServer(),
	}, nil
}

// Addr returns the local address.
func (t *Transport) Addr() string {
	return t.localAddr
}

// SetPeers sets the peer resolvers.
func (t *Transport) SetPeers(peers map[int]string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.resolvers = make(map[int]string)
	for id, addr := range peers {
		t.resolvers[id] = addr
	}

	// Close existing connections to force reconnection with new addresses if needed
	for _, conn := range t.conns {
		conn.Close()
	}
	t.conns = make(map[string]*grpc.ClientConn)
	t.clients = make(map[string]pb.RaftServiceClient)
}

// RegisterRaft registers the Raft RPC server.
func (t *Transport) RegisterRaft(raftInstance transport.RPCServer) {
	t.raft = raftInstance
}

// Start starts the gRPC server.
func (t *Transport) Start() error {
	if t.raft == nil {
		return errors.New("raft instance not registered")
	}

	pb.RegisterRaftServiceServer(t.grpcServer, t)

	go func() {
		if err := t.grpcServer.Serve(t.listener); err != nil {
			log.Printf("[GRPCTransport] Server stopped: %v", err)
		}
	}()

	log.Printf("[GRPCTransport] Service started on %s", t.localAddr)
	return nil
}

// Close stops the gRPC server and closes all connections.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.grpcServer.Stop()

	for _, conn := range t.conns {
		conn.Close()
	}
	t.conns = make(map[string]*grpc.ClientConn)
	t.clients = make(map[string]pb.RaftServiceClient)

	return nil
}

func (t *Transport) getPeerAddress(nodeIDStr string) (string, error) {
	id, err := strconv.Atoi(nodeIDStr)
	if err != nil {
		return "", fmt.Errorf("invalid node id: %s", nodeIDStr)
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	addr, ok := t.resolvers[id]
	if !ok {
		return "", fmt.Errorf("address not found for node %d", id)
	}
	return addr, nil
}

func (t *Transport) getPeerClient(targetID string) (pb.RaftServiceClient, error) {
	t.mu.RLock()
	client, ok := t.clients[targetID]
	t.mu.RUnlock()
	if ok {
		return client, nil
	}

	addr, err := t.getPeerAddress(targetID)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if client, ok := t.clients[targetID]; ok {
		return client, nil
	}

	conn, err := grpc.Dial(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}

	client = pb.NewRaftServiceClient(conn)
	t.conns[targetID] = conn
	t.clients[targetID] = client

	return client, nil
}

// --- Client side implementation ---

func (t *Transport) SendRequestVote(target string, req *param.RequestVoteArgs, resp *param.RequestVoteReply) error {
	client, err := t.getPeerClient(target)
	if err != nil {
		return err
	}

	pbReq := &pb.RequestVoteRequest{
		Term:         req.Term,
		CandidateId:  int64(req.CandidateID),
		LastLogIndex: req.LastLogIndex,
		LastLogTerm:  req.LastLogTerm,
	}

	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()

	pbResp, err := client.RequestVote(ctx, pbReq)
	if err != nil {
		return err
	}

	resp.Term = pbResp.Term
	resp.VoteGranted = pbResp.VoteGranted

	return nil
}

func (t *Transport) SendAppendEntries(target string, req *param.AppendEntriesArgs, resp *param.AppendEntriesReply) error {
	client, err := t.getPeerClient(target)
	if err != nil {
		return err
	}

	pbEntries := make([]*pb.LogEntry, len(req.Entries))
	for i, entry := range req.Entries {
		pbEntries[i] = &pb.LogEntry{
			Index:   entry.Index,
			Term:    entry.Term,
			Command: entry.Command,
		}
	}

	pbReq := &pb.AppendEntriesRequest{
		Term:         req.Term,
		LeaderId:     int64(req.LeaderID),
		PrevLogIndex: req.PrevLogIndex,
		PrevLogTerm:  req.PrevLogTerm,
		Entries:      pbEntries,
		LeaderCommit: req.LeaderCommit,
	}

	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()

	pbResp, err := client.AppendEntries(ctx, pbReq)
	if err != nil {
		return err
	}

	resp.Term = pbResp.Term
	resp.Success = pbResp.Success
	resp.ConflictIndex = pbResp.ConflictIndex
	resp.ConflictTerm = pbResp.ConflictTerm

	return nil
}

func (t *Transport) SendClientRequest(target string, req *param.ClientArgs, resp *param.ClientReply) error {
	client, err := t.getPeerClient(target)
	if err != nil {
		return err
	}

	pbReq := &pb.ClientRequestRequest{
		ClientId:    req.ClientID,
		SequenceNum: req.SequenceNum,
		Command:     req.Command,
	}

	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()

	pbResp, err := client.ClientRequest(ctx, pbReq)
	if err != nil {
		return err
	}

	resp.Success = pbResp.Success
	resp.Result = pbResp.Result
	resp.NotLeader = pbResp.NotLeader
	resp.LeaderHint = int(pbResp.LeaderHint)

	return nil
}

// --- Server side implementation ---

func (t *Transport) RequestVote(ctx context.Context, req *pb.RequestVoteRequest) (*pb.RequestVoteResponse, error) {
	args := &param.RequestVoteArgs{
		Term:         req.Term,
		CandidateID:  int(req.CandidateId),
		LastLogIndex: req.LastLogIndex,
		LastLogTerm:  req.LastLogTerm,
	}
	reply := &param.RequestVoteReply{}

	if err := t.raft.RequestVote(args, reply); err != nil {
		return nil, err
	}

	return &pb.RequestVoteResponse{
		Term:        reply.Term,
		VoteGranted: reply.VoteGranted,
	}, nil
}

func (t *Transport) AppendEntries(ctx context.Context, req *pb.AppendEntriesRequest) (*pb.AppendEntriesResponse, error) {
	entries := make([]param.LogEntry, len(req.Entries))
	for i, entry := range req.Entries {
		entries[i] = param.LogEntry{
			Index:   entry.Index,
			Term:    entry.Term,
			Command: entry.Command,
		}
	}

	args := &param.AppendEntriesArgs{
		Term:         req.Term,
		LeaderID:     int(req.LeaderId),
		PrevLogIndex: req.PrevLogIndex,
		PrevLogTerm:  req.PrevLogTerm,
		Entries:      entries,
		LeaderCommit: req.LeaderCommit,
	}
	reply := &param.AppendEntriesReply{}

	if err := t.raft.AppendEntries(args, reply); err != nil {
		return nil, err
	}

	return &pb.AppendEntriesResponse{
		Term:          reply.Term,
		Success:       reply.Success,
		ConflictIndex: reply.ConflictIndex,
		ConflictTerm:  reply.ConflictTerm,
	}, nil
}

func (t *Transport) ClientRequest(ctx context.Context, req *pb.ClientRequestRequest) (*pb.ClientRequestResponse, error) {
	args := &param.ClientArgs{
		ClientID:    req.ClientId,
		SequenceNum: req.SequenceNum,
		Command:     req.Command,
	}
	reply := &param.ClientReply{}

	if err := t.raft.ClientRequest(args, reply); err != nil {
		return nil, err
	}

	return &pb.ClientRequestResponse{
		Success:    reply.Success,
		Result:     reply.Result,
		NotLeader:  reply.NotLeader,
		LeaderHint: int64(reply.LeaderHint),
	}, nil
}
