package param

// State 定义节点的状态（Consensus Module State）
type State int

const (
	Follower State = iota
	Candidate
	Leader
	Dead // 表示节点已终止（用于优雅关闭）
)

func (s State) String() string {
	switch s {
	case Follower:
		return "Follower"
	case Candidate:
		return "Candidate"
	case Leader:
		return "Leader"
	case Dead:
		return "Dead"
	default:
		return "Unknown"
	}
}

// HardState 定义需要持久化的状态（必须稳定存储）
type HardState struct {
	CurrentTerm uint64 // 当前任期号
	VotedFor    uint64 // 当前任期内投票给的候选者ID（0表示未投票）
}
