package tcp

import (
	"errors"
	"log"
	"net"
	"net/rpc"
	"strconv"
	"sync"
	"time"

	"github.com/xwhuang/raft-ledger/param"
	"github.com/xwhuang/raft-ledger/transport"
)

// dialTimeout 是建立到对端节点 TCP 连接的超时时间。
const dialTimeout = 5 * time.Second

// Transport 实现了 Transport 接口，通过 TCP 和 net/rpc 进行通信。
type Transport struct {
	localAddr string
	listener  net.Listener
	raft      transport.RPCServer
	server    *rpc.Server

	mu        sync.RWMutex
	peers     map[string]*rpc.Client // 缓存 RPC 客户端连接
	resolvers map[int]string         // 节点 ID 到地址的映射
}

// NewTCPTransport 创建一个新的 Transport 实例并开始在 localAddr 上监听。
// 调用方需要先 RegisterRaft 再 Start，才能对外提供 RPC 服务；
// 只发起出站调用的使用方（例如客户端）可以跳过这两步。
func NewTCPTransport(localAddr string) (*Transport, error) {
	listener, err := net.Listen("tcp", localAddr)
	if err != nil {
		return nil, err
	}

	return &Transport{
		localAddr: listener.Addr().String(),
		listener:  listener,
		server:    rpc.NewServer(),
		peers:     make(map[string]*rpc.Client),
		resolvers: make(map[int]string),
	}, nil
}

// Addr 返回监听的实际地址。
func (t *Transport) Addr() string {
	return t.localAddr
}

// SetPeers 设置节点 ID 到地址的映射。
func (t *Transport) SetPeers(peers map[int]string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.resolvers = make(map[int]string)
	for id, addr := range peers {
		t.resolvers[id] = addr
	}

	// 地址变更后，缓存的连接可能已经失效，全部丢弃
	for target, client := range t.peers {
		client.Close()
		delete(t.peers, target)
	}
}

// RegisterRaft 注册本地的 Raft 节点，用于处理接收到的 RPC 请求。
func (t *Transport) RegisterRaft(raftInstance transport.RPCServer) {
	t.raft = raftInstance
}

// Start 注册 RaftRPC 服务并在后台开始接受连接。
func (t *Transport) Start() error {
	if t.raft == nil {
		return errors.New("raft instance not registered")
	}

	if err := t.server.Register(&transport.RaftRPC{Raft: t.raft}); err != nil {
		return err
	}

	go t.acceptConnections()

	log.Printf("[TCPTransport] Listening on %s", t.localAddr)
	return nil
}

// acceptConnections 循环接受并处理新的 TCP 连接。
func (t *Transport) acceptConnections() {
	for {
		conn, err := t.listener.Accept()
		if err != nil {
			// 如果监听器关闭了，就退出循环
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("[TCPTransport] Accept error on %s: %v", t.localAddr, err)
			continue
		}
		// 为每个连接启动一个新的 goroutine 来提供 RPC 服务
		go t.server.ServeConn(conn)
	}
}

// Close 关闭监听器和所有缓存的客户端连接。
func (t *Transport) Close() error {
	t.mu.Lock()
	for target, client := range t.peers {
		client.Close()
		delete(t.peers, target)
	}
	t.mu.Unlock()
	return t.listener.Close()
}

// resolveAddr 将目标解析为拨号地址。
// target 可以是 SetPeers 登记过的节点 ID，也可以直接是一个网络地址。
func (t *Transport) resolveAddr(target string) string {
	if id, err := strconv.Atoi(target); err == nil {
		t.mu.RLock()
		addr, ok := t.resolvers[id]
		t.mu.RUnlock()
		if ok {
			return addr
		}
	}
	return target
}

// getPeerClient 获取或创建一个到目标节点的 RPC 客户端。
func (t *Transport) getPeerClient(target string) (*rpc.Client, error) {
	t.mu.RLock()
	client, ok := t.peers[target]
	t.mu.RUnlock()

	// 如果客户端存在并且没有关闭，则复用它
	if ok && client != nil {
		return client, nil
	}

	// 否则，建立新连接
	addr := t.resolveAddr(target)

	t.mu.Lock()
	defer t.mu.Unlock()

	// 再次检查，防止在等待锁的过程中其他 goroutine 已经创建了连接
	if client, ok := t.peers[target]; ok && client != nil {
		return client, nil
	}

	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, err
	}
	client = rpc.NewClient(conn)
	t.peers[target] = client
	return client, nil
}

// remoteCall 是一个通用的 RPC 调用函数。
func (t *Transport) remoteCall(target, method string, args interface{}, reply interface{}) error {
	client, err := t.getPeerClient(target)
	if err != nil {
		return err
	}

	// 进行 RPC 调用
	if err := client.Call(method, args, reply); err != nil {
		// 如果是连接已关闭等错误，说明缓存的 client 失效了
		if errors.Is(err, rpc.ErrShutdown) {
			t.mu.Lock()
			delete(t.peers, target)
			t.mu.Unlock()
		}
		return err
	}
	return nil
}

// SendRequestVote 发送 RequestVote RPC 请求。
func (t *Transport) SendRequestVote(target string, req *param.RequestVoteArgs, resp *param.RequestVoteReply) error {
	return t.remoteCall(target, "RaftRPC.RequestVote", req, resp)
}

// SendAppendEntries 发送 AppendEntries RPC 请求。
func (t *Transport) SendAppendEntries(target string, req *param.AppendEntriesArgs, resp *param.AppendEntriesReply) error {
	return t.remoteCall(target, "RaftRPC.AppendEntries", req, resp)
}

// SendClientRequest 发送客户端请求到指定的 Raft 节点。
func (t *Transport) SendClientRequest(target string, req *param.ClientArgs, resp *param.ClientReply) error {
	return t.remoteCall(target, "RaftRPC.ClientRequest", req, resp)
}
