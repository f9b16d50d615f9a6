// Package agent 研究助理门面：组合模型、工具、记忆、评估与会话持久化。
package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"research-agent/internal/agent/evaluator"
	"research-agent/internal/agent/orchestrator"
	"research-agent/internal/agent/planner"
	"research-agent/internal/agent/session"
	"research-agent/internal/memory"
	"research-agent/internal/model/llm"
	"research-agent/internal/tool/builtin"
	"research-agent/internal/tool/registry"
	"research-agent/pkg/config"
	"research-agent/pkg/log"
	"research-agent/pkg/metrics"
)

// ResearchResult 单次研究的对外结果
type ResearchResult struct {
	Query      string             `json:"query"`
	Response   string             `json:"response"`
	Evaluation evaluator.Result   `json:"evaluation"`
	ToolsUsed  []string           `json:"tools_used"`
	Elapsed    float64            `json:"elapsed"` // 秒
	Findings   int                `json:"findings"`
	State      orchestrator.State `json:"state"`
}

// Status Agent 当前状态概览
type Status struct {
	SessionID    string                         `json:"session_id"`
	Turns        int                            `json:"turns"`
	Model        string                         `json:"model"`
	Provider     string                         `json:"provider"`
	Conversation memory.ConversationStats       `json:"conversation"`
	Findings     int                            `json:"findings"`
	Evaluation   evaluator.SessionStats         `json:"evaluation"`
	ToolStats    map[string]registry.UsageStats `json:"tool_stats"`
}

// Agent 研究助理
type Agent struct {
	mu        sync.Mutex
	client    llm.Client
	orch      *orchestrator.Orchestrator
	reg       *registry.Registry
	mem       *memory.Store
	tracker   *evaluator.Tracker
	store     session.Store
	logger    *log.Logger
	sessionID string
	createdAt time.Time
	turns     int
}

// New 根据配置组装 Agent
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Agent, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Discard()
	}

	client, err := llm.NewClient(cfg.Model.Mode, cfg.Model.Model, cfg.Model.APIKey, logger)
	if err != nil {
		return nil, fmt.Errorf("agent: 初始化模型失败: %w", err)
	}
	if cfg.RateLimits.RequestsPerMinute > 0 {
		client = llm.NewRateLimitedClient(client, cfg.RateLimits.RequestsPerMinute, cfg.RateLimits.Burst)
	}

	reg := registry.New()
	builtin.RegisterBuiltin(reg)

	mem := memory.NewStore(cfg.Memory.MaxMessages)
	p := planner.NewPlanner(client, reg.Names())
	orch := orchestrator.New(client, p, reg, mem, logger, cfg.ModelTimeout())

	store, err := newSessionStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("agent 初始化完成",
		"model", client.Model(),
		"provider", client.Provider(),
		"tools", reg.Names(),
		"session_store", cfg.Session.Store)

	return &Agent{
		client:    client,
		orch:      orch,
		reg:       reg,
		mem:       mem,
		tracker:   evaluator.NewTracker(),
		store:     store,
		logger:    logger,
		sessionID: session.NewID(),
		createdAt: time.Now(),
	}, nil
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	switch cfg.Session.Store {
	case "", "file":
		path := cfg.Session.Path
		if path == "" {
			path = "logs/session.json"
		}
		return session.NewFileStore(path), nil
	case "postgres":
		store, err := session.NewStorePg(ctx, cfg.Session.DSN)
		if err != nil {
			return nil, fmt.Errorf("agent: 连接会话存储失败: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("agent: 未知会话存储类型 %q", cfg.Session.Store)
	}
}

// Research 处理一个研究问题：规划、执行工具、综合响应并评分
func (a *Agent) Research(ctx context.Context, query string) (*ResearchResult, error) {
	turn, err := a.orch.Run(ctx, query)
	if err != nil {
		return nil, err
	}

	eval := evaluator.Evaluate(turn.Response, turn.Elapsed, turn.ToolsUsed)
	a.tracker.Record(eval)
	metrics.TurnScore.Set(eval.OverallScore)

	a.mu.Lock()
	a.turns++
	a.mu.Unlock()

	a.logger.Info("研究轮次完成",
		"state", turn.State,
		"tools", turn.ToolsUsed,
		"score", eval.OverallScore,
		"elapsed", turn.Elapsed)

	return &ResearchResult{
		Query:      query,
		Response:   turn.Response,
		Evaluation: eval,
		ToolsUsed:  turn.ToolsUsed,
		Elapsed:    turn.Elapsed,
		Findings:   len(turn.Findings),
		State:      turn.State,
	}, nil
}

// GetStatus 返回当前会话状态
func (a *Agent) GetStatus() Status {
	a.mu.Lock()
	turns := a.turns
	a.mu.Unlock()

	return Status{
		SessionID:    a.sessionID,
		Turns:        turns,
		Model:        a.client.Model(),
		Provider:     a.client.Provider(),
		Conversation: a.mem.Conversation.Stats(),
		Findings:     a.mem.Research.Count(),
		Evaluation:   a.tracker.Stats(),
		ToolStats:    a.reg.Stats(),
	}
}

// SaveSession 将当前会话快照写入存储
func (a *Agent) SaveSession(ctx context.Context) error {
	a.mu.Lock()
	snap := &session.Snapshot{
		ID:          a.sessionID,
		CreatedAt:   a.createdAt,
		SavedAt:     time.Now(),
		TurnCount:   a.turns,
		Memory:      a.mem.Snapshot(),
		Evaluations: a.tracker.Results(),
		ToolStats:   a.reg.Stats(),
	}
	a.mu.Unlock()

	if err := a.store.Put(ctx, snap); err != nil {
		return fmt.Errorf("agent: 保存会话失败: %w", err)
	}
	a.logger.Info("会话已保存", "session_id", snap.ID, "turns", snap.TurnCount)
	return nil
}

// LoadSession 从存储恢复会话；id 为空时加载最近保存的会话。
// 没有可恢复的会话时保持当前状态并返回 false。
func (a *Agent) LoadSession(ctx context.Context, id string) (bool, error) {
	snap, err := a.store.Get(ctx, id)
	if err != nil {
		return false, fmt.Errorf("agent: 加载会话失败: %w", err)
	}
	if snap == nil {
		return false, nil
	}

	a.mu.Lock()
	a.sessionID = snap.ID
	a.createdAt = snap.CreatedAt
	a.turns = snap.TurnCount
	a.mu.Unlock()

	a.mem.Restore(snap.Memory)
	a.tracker.Restore(snap.Evaluations)
	a.reg.RestoreStats(snap.ToolStats)

	a.logger.Info("会话已恢复", "session_id", snap.ID, "turns", snap.TurnCount)
	return true, nil
}

// SessionID 当前会话 ID
func (a *Agent) SessionID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessionID
}
