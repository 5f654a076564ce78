// Package gossip 实现集群成员发现：每个节点维护一张成员表，
// 周期性地和一个随机存活节点做 push-pull 交换，通过心跳计数器
// 的单调递增来判断成员存活。它独立于共识层，不参与日志复制。
package gossip

import (
	"errors"
	"log"
	"math/rand"
	"net"
	"net/rpc"
	"sort"
	"sync"
	"time"
)

// MemberState 表示成员的存活状态。
type MemberState int

const (
	Alive MemberState = iota
	Suspect
	Dead
)

func (s MemberState) String() string {
	switch s {
	case Alive:
		return "alive"
	case Suspect:
		return "suspect"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// 默认的协议周期参数。
const (
	defaultGossipInterval = 500 * time.Millisecond
	defaultSuspectAfter   = 3 * time.Second
	defaultDeadAfter      = 10 * time.Second
	dialTimeout           = 2 * time.Second
)

// Member 是成员表中的一项。
type Member struct {
	ID        int
	Addr      string
	Heartbeat uint64
	LastSeen  time.Time
	State     MemberState
}

// Gossiper 维护本节点视角下的成员表并驱动 gossip 协议。
type Gossiper struct {
	id        int
	localAddr string

	listener net.Listener
	server   *rpc.Server

	mu      sync.RWMutex
	members map[int]*Member

	gossipInterval time.Duration
	suspectAfter   time.Duration
	deadAfter      time.Duration

	quit chan struct{}
}

// NewGossiper 创建一个 Gossiper 并开始在 localAddr 上监听。
// seeds 是初始已知的成员 (ID -> 地址)，可以包含也可以不包含本节点。
func NewGossiper(id int, localAddr string, seeds map[int]string) (*Gossiper, error) {
	listener, err := net.Listen("tcp", localAddr)
	if err != nil {
		return nil, err
	}

	g := &Gossiper{
		id:             id,
		localAddr:      listener.Addr().String(),
		listener:       listener,
		server:         rpc.NewServer(),
		members:        make(map[int]*Member),
		gossipInterval: defaultGossipInterval,
		suspectAfter:   defaultSuspectAfter,
		deadAfter:      defaultDeadAfter,
		quit:           make(chan struct{}),
	}

	now := time.Now()
	g.members[id] = &Member{ID: id, Addr: g.localAddr, LastSeen: now, State: Alive}
	for sid, addr := range seeds {
		if sid == id {
			continue
		}
		g.members[sid] = &Member{ID: sid, Addr: addr, LastSeen: now, State: Alive}
	}

	if err := g.server.Register(&GossipRPC{g: g}); err != nil {
		listener.Close()
		return nil, err
	}

	return g, nil
}

// Addr 返回监听的实际地址。
func (g *Gossiper) Addr() string {
	return g.localAddr
}

// Start 启动 RPC 服务和 gossip 循环。
func (g *Gossiper) Start() {
	go g.acceptConnections()
	go g.gossipLoop()
	log.Printf("[Gossip] Node %d started on %s", g.id, g.localAddr)
}

// Stop 停止 gossip 循环并关闭监听器。
func (g *Gossiper) Stop() {
	close(g.quit)
	g.listener.Close()
}

func (g *Gossiper) acceptConnections() {
	for {
		conn, err := g.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("[Gossip] Accept error on %s: %v", g.localAddr, err)
			continue
		}
		go g.server.ServeConn(conn)
	}
}

func (g *Gossiper) gossipLoop() {
	ticker := time.NewTicker(g.gossipInterval)
	defer ticker.Stop()

	for {
		select {
		case <-g.quit:
			return
		case <-ticker.C:
			g.tick()
		}
	}
}

// tick 是一轮 gossip：递增自己的心跳，检查超时成员，
// 然后和一个随机存活节点交换成员表。
func (g *Gossiper) tick() {
	g.mu.Lock()
	self := g.members[g.id]
	self.Heartbeat++
	self.LastSeen = time.Now()
	g.checkLivenessLocked()
	target := g.pickPeerLocked()
	snapshot := g.snapshotLocked()
	g.mu.Unlock()

	if target == nil {
		return
	}

	g.exchangeWith(target, snapshot)
}

// checkLivenessLocked 将超时未更新的成员降级为 suspect / dead。
// 需要持有 g.mu。
func (g *Gossiper) checkLivenessLocked() {
	now := time.Now()
	for id, m := range g.members {
		if id == g.id {
			continue
		}
		silence := now.Sub(m.LastSeen)
		switch {
		case silence > g.deadAfter:
			if m.State != Dead {
				log.Printf("[Gossip] Node %d marks member %d dead (silent for %v)", g.id, id, silence.Round(time.Millisecond))
				m.State = Dead
			}
		case silence > g.suspectAfter:
			if m.State == Alive {
				log.Printf("[Gossip] Node %d suspects member %d (silent for %v)", g.id, id, silence.Round(time.Millisecond))
				m.State = Suspect
			}
		}
	}
}

// pickPeerLocked 随机挑选一个非 Dead 的其他成员。需要持有 g.mu。
func (g *Gossiper) pickPeerLocked() *Member {
	candidates := make([]*Member, 0, len(g.members))
	for id, m := range g.members {
		if id == g.id || m.State == Dead {
			continue
		}
		candidates = append(candidates, m)
	}
	if len(candidates) == 0 {
		return nil
	}
	picked := candidates[rand.Intn(len(candidates))]
	return &Member{ID: picked.ID, Addr: picked.Addr}
}

// snapshotLocked 复制当前成员表。需要持有 g.mu。
func (g *Gossiper) snapshotLocked() []Member {
	table := make([]Member, 0, len(g.members))
	for _, m := range g.members {
		table = append(table, *m)
	}
	return table
}

// exchangeWith 和目标节点做一次 push-pull 交换。
func (g *Gossiper) exchangeWith(target *Member, table []Member) {
	conn, err := net.DialTimeout("tcp", target.Addr, dialTimeout)
	if err != nil {
		// 拨号失败不是致命的，超时机制最终会把对方标记为 suspect
		return
	}
	client := rpc.NewClient(conn)
	defer client.Close()

	args := &ExchangeArgs{From: g.id, Table: table}
	reply := &ExchangeReply{}
	if err := client.Call("GossipRPC.Exchange", args, reply); err != nil {
		return
	}

	g.merge(reply.Table)
}

// merge 按心跳计数器取最大值合并远端的成员表。
func (g *Gossiper) merge(table []Member) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	for _, remote := range table {
		if remote.ID == g.id {
			continue
		}
		local, ok := g.members[remote.ID]
		if !ok {
			m := remote
			m.LastSeen = now
			m.State = Alive
			g.members[remote.ID] = &m
			log.Printf("[Gossip] Node %d discovered member %d at %s", g.id, remote.ID, remote.Addr)
			continue
		}
		if remote.Heartbeat > local.Heartbeat {
			local.Heartbeat = remote.Heartbeat
			local.Addr = remote.Addr
			local.LastSeen = now
			local.State = Alive
		}
	}
}

// Members 返回成员表的一份快照，按 ID 排序。
func (g *Gossiper) Members() []Member {
	g.mu.RLock()
	table := g.snapshotLocked()
	g.mu.RUnlock()

	sort.Slice(table, func(i, j int) bool { return table[i].ID < table[j].ID })
	return table
}

// Alive 返回当前认为存活的成员 ID，按升序排列。
func (g *Gossiper) Alive() []int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ids := make([]int, 0, len(g.members))
	for id, m := range g.members {
		if m.State == Alive {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// ExchangeArgs 是一次 push-pull 交换的请求：发送方的完整成员表。
type ExchangeArgs struct {
	From  int
	Table []Member
}

// ExchangeReply 携带应答方的完整成员表。
type ExchangeReply struct {
	Table []Member
}

// GossipRPC 是注册到 net/rpc 的服务包装。
type GossipRPC struct {
	g *Gossiper
}

// Exchange 处理远端发来的成员表：先合并，再把本地表回传。
func (r *GossipRPC) Exchange(args *ExchangeArgs, reply *ExchangeReply) error {
	r.g.merge(args.Table)

	r.g.mu.Lock()
	// 收到交换请求本身就是发送方存活的证据
	if m, ok := r.g.members[args.From]; ok {
		m.LastSeen = time.Now()
		if m.State != Dead {
			m.State = Alive
		}
	}
	table := r.g.snapshotLocked()
	r.g.mu.Unlock()

	reply.Table = table
	return nil
}
