package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xwhuang/raft-ledger/client"
	"github.com/xwhuang/raft-ledger/transport"
	grpctrans "github.com/xwhuang/raft-ledger/transport/grpc"
	tcptrans "github.com/xwhuang/raft-ledger/transport/tcp"
)

var (
	peersStr      string
	transportType string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "ledger-client",
		Short: "A client for the replicated bank ledger",
	}

	rootCmd.PersistentFlags().StringVar(&peersStr, "peers", "1=127.0.0.1:8001,2=127.0.0.1:8002,3=127.0.0.1:8003", "Comma-separated list of peer ID=Address pairs")
	rootCmd.PersistentFlags().StringVar(&transportType, "transport", transport.GrpcTransport, "Transport type: tcp or grpc")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "deposit <account> <amount>",
			Short: "Deposit an amount (in cents) into an account",
			Args:  cobra.ExactArgs(2),
			Run: func(cmd *cobra.Command, args []string) {
				amount := parseAmount(args[1])
				runOp(func(c *client.Client) (string, error) {
					return c.Deposit(args[0], amount)
				})
			},
		},
		&cobra.Command{
			Use:   "withdraw <account> <amount>",
			Short: "Withdraw an amount (in cents) from an account",
			Args:  cobra.ExactArgs(2),
			Run: func(cmd *cobra.Command, args []string) {
				amount := parseAmount(args[1])
				runOp(func(c *client.Client) (string, error) {
					return c.Withdraw(args[0], amount)
				})
			},
		},
		&cobra.Command{
			Use:   "transfer <from> <to> <amount>",
			Short: "Transfer an amount (in cents) between accounts",
			Args:  cobra.ExactArgs(3),
			Run: func(cmd *cobra.Command, args []string) {
				amount := parseAmount(args[2])
				runOp(func(c *client.Client) (string, error) {
					return c.Transfer(args[0], args[1], amount)
				})
			},
		},
		&cobra.Command{
			Use:   "balance <account>",
			Short: "Query the balance of an account",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				runOp(func(c *client.Client) (string, error) {
					return c.Balance(args[0])
				})
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func parseAmount(s string) int64 {
	amount, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		log.Fatalf("Invalid amount %q: %v", s, err)
	}
	return amount
}

// clientTransport 是客户端所需的传输层接口，只发起出站调用。
type clientTransport interface {
	transport.Transport
	SetPeers(peers map[int]string)
	Close() error
}

// newClientTransport 构造一个只用于出站调用的传输层。
// 使用端口 0 让系统自动分配一个临时端口。
func newClientTransport(transportType string) (clientTransport, error) {
	const clientAddr = "127.0.0.1:0"
	switch transportType {
	case transport.TCPTransport:
		return tcptrans.NewTCPTransport(clientAddr)
	case transport.GrpcTransport:
		return grpctrans.NewTransport(clientAddr)
	default:
		return nil, fmt.Errorf("unknown transport type: %s", transportType)
	}
}

// runOp 建立到集群的连接并执行一个账本操作。
func runOp(op func(c *client.Client) (string, error)) {
	// 1. 解析 peers
	peerMap := make(map[int]string)
	for _, p := range strings.Split(peersStr, ",") {
		parts := strings.Split(p, "=")
		if len(parts) != 2 {
			log.Fatalf("Invalid peer format: %s", p)
		}
		var id int
		if _, err := fmt.Sscanf(parts[0], "%d", &id); err != nil {
			log.Fatalf("Invalid peer ID: %s", parts[0])
		}
		peerMap[id] = parts[1]
	}

	// 2. 初始化网络传输
	trans, err := newClientTransport(transportType)
	if err != nil {
		log.Fatalf("Failed to initialize transport: %v", err)
	}

	// 必须设置 Peers 映射，否则 Transport 不知道如何连接目标节点
	trans.SetPeers(peerMap)
	defer trans.Close()

	// 3. 创建客户端实例并执行操作
	c := client.NewClient(peerMap, trans)

	result, err := op(c)
	if err != nil {
		fmt.Printf("❌ Failed to execute command: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Success! Result: %s\n", result)
}
