package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xwhuang/raft-ledger/bank"
	"github.com/xwhuang/raft-ledger/gossip"
	"github.com/xwhuang/raft-ledger/param"
	"github.com/xwhuang/raft-ledger/raft"
	"github.com/xwhuang/raft-ledger/storage"
	"github.com/xwhuang/raft-ledger/transport"
	grpctrans "github.com/xwhuang/raft-ledger/transport/grpc"
	tcptrans "github.com/xwhuang/raft-ledger/transport/tcp"
)

// Config holds the server configuration
type Config struct {
	NodeID        int
	PeersStr      string
	GossipStr     string
	DataDir       string
	TransportType string
	StorageType   string
}

var config Config

func main() {
	var rootCmd = &cobra.Command{
		Use:   "ledger-server",
		Short: "A replicated bank ledger node backed by Raft",
		Run:   runServer,
	}

	rootCmd.Flags().IntVar(&config.NodeID, "id", 1, "Node ID")
	rootCmd.Flags().StringVar(&config.PeersStr, "peers", "1=127.0.0.1:8001,2=127.0.0.1:8002,3=127.0.0.1:8003", "Comma-separated list of peer ID=Address pairs")
	rootCmd.Flags().StringVar(&config.GossipStr, "gossip", "", "Comma-separated list of gossip ID=Address pairs (empty disables membership gossip)")
	rootCmd.Flags().StringVar(&config.DataDir, "data", "ledger-data", "Directory to store raft data")
	rootCmd.Flags().StringVar(&config.TransportType, "transport", transport.GrpcTransport, "Transport type: tcp or grpc")
	rootCmd.Flags().StringVar(&config.StorageType, "storage", storage.WALStorage, "Storage type: inmemory or wal")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(_ *cobra.Command, _ []string) {
	srv, err := NewServer(config)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	waitForSignal(srv)
}

// serverTransport 是服务端所需的完整传输层接口。
type serverTransport interface {
	transport.Transport
	Addr() string
	SetPeers(peers map[int]string)
	RegisterRaft(raftInstance transport.RPCServer)
	Start() error
	Close() error
}

// newTransport 根据类型构造传输层实现。
func newTransport(transportType, addr string) (serverTransport, error) {
	switch transportType {
	case transport.TCPTransport:
		return tcptrans.NewTCPTransport(addr)
	case transport.GrpcTransport:
		return grpctrans.NewTransport(addr)
	default:
		return nil, fmt.Errorf("unknown transport type: %s", transportType)
	}
}

// Server represents the ledger server instance
type Server struct {
	config     Config
	raft       *raft.Raft
	transport  serverTransport
	store      storage.Storage
	gossiper   *gossip.Gossiper
	commitChan chan param.CommitEntry
}

// NewServer creates a new Server instance
func NewServer(cfg Config) (*Server, error) {
	// 1. Parse peers
	peerMap, peerIDs, myAddr, err := parsePeers(cfg.PeersStr, cfg.NodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse peers: %w", err)
	}

	// 2. Initialize storage and the ledger state machine
	store, err := storage.NewStorage(cfg.StorageType, cfg.DataDir, cfg.NodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	ledger := bank.NewLedger()

	// 3. Initialize transport
	trans, err := newTransport(cfg.TransportType, myAddr)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize transport: %w", err)
	}
	trans.SetPeers(peerMap)

	// 4. Optionally set up the membership gossip layer
	var gossiper *gossip.Gossiper
	if cfg.GossipStr != "" {
		gossipMap, _, myGossipAddr, err := parsePeers(cfg.GossipStr, cfg.NodeID)
		if err != nil {
			store.Close()
			trans.Close()
			return nil, fmt.Errorf("failed to parse gossip peers: %w", err)
		}
		gossiper, err = gossip.NewGossiper(cfg.NodeID, myGossipAddr, gossipMap)
		if err != nil {
			store.Close()
			trans.Close()
			return nil, fmt.Errorf("failed to initialize gossip: %w", err)
		}
	}

	// 5. Create Raft node
	commitChan := make(chan param.CommitEntry, 100)
	rf := raft.NewRaft(cfg.NodeID, peerIDs, store, ledger, trans, commitChan)

	return &Server{
		config:     cfg,
		raft:       rf,
		transport:  trans,
		store:      store,
		gossiper:   gossiper,
		commitChan: commitChan,
	}, nil
}

// Start starts the ledger server components
func (s *Server) Start() error {
	// Register Raft to transport
	s.transport.RegisterRaft(s.raft)

	// Start transport service
	log.Printf("Starting %s transport service on %s", s.config.TransportType, s.transport.Addr())
	if err := s.transport.Start(); err != nil {
		return fmt.Errorf("failed to start transport service: %w", err)
	}

	// Start membership gossip if configured
	if s.gossiper != nil {
		s.gossiper.Start()
		go s.reportMembership()
	}

	// Start Raft node
	go s.raft.Run()

	// Handle committed entries
	go s.handleCommits()

	log.Printf("Ledger node %d started", s.config.NodeID)
	return nil
}

// reportMembership 周期性地输出 gossip 层观察到的存活成员。
func (s *Server) reportMembership() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		log.Printf("Node %d gossip view: alive members %v", s.config.NodeID, s.gossiper.Alive())
	}
}

// Stop stops the ledger server
func (s *Server) Stop() {
	log.Println("Shutting down...")
	if s.gossiper != nil {
		s.gossiper.Stop()
	}
	s.raft.Stop()
	if err := s.transport.Close(); err != nil {
		log.Printf("Failed to close transport: %v", err)
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("Failed to close store: %v", err)
		}
	}
	log.Println("Node stopped")
}

func (s *Server) handleCommits() {
	for entry := range s.commitChan {
		log.Printf("Node %d committed entry: index=%d term=%d command=%s", s.config.NodeID, entry.Index, entry.Term, entry.Command)
	}
}

func waitForSignal(srv *Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	srv.Stop()
}

// parsePeers 解析 "id=addr,..." 形式的节点列表。
// 返回的 peerIDs 不包含本节点自身。
func parsePeers(peersStr string, nodeID int) (map[int]string, []int, string, error) {
	peerMap := make(map[int]string)
	peerIDs := make([]int, 0)
	for _, p := range strings.Split(peersStr, ",") {
		parts := strings.Split(p, "=")
		if len(parts) != 2 {
			return nil, nil, "", fmt.Errorf("invalid peer format: %s", p)
		}
		var pid int
		if _, err := fmt.Sscanf(parts[0], "%d", &pid); err != nil {
			return nil, nil, "", fmt.Errorf("invalid peer ID: %s", parts[0])
		}
		peerMap[pid] = parts[1]
		if pid != nodeID {
			peerIDs = append(peerIDs, pid)
		}
	}

	myAddr, ok := peerMap[nodeID]
	if !ok {
		return nil, nil, "", fmt.Errorf("my ID %d not found in peers list", nodeID)
	}
	return peerMap, peerIDs, myAddr, nil
}
