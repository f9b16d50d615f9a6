package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"research-agent/internal/agent"
	"research-agent/pkg/config"
	"research-agent/pkg/log"
)

const version = "research-agent cli 0.1.0"

func main() {
	cmd := "demo"
	args := os.Args[1:]
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	switch cmd {
	case "version":
		fmt.Println(version)
	case "config":
		runConfig()
	case "demo":
		runDemo()
	case "interactive", "chat":
		runInteractive()
	case "status":
		runStatus()
	case "ask":
		if len(args) < 1 {
			fmt.Fprintln(os.Stderr, "Usage: research-agent ask <question>")
			os.Exit(1)
		}
		runAsk(strings.Join(args, " "))
	case "help", "-h", "--help":
		printUsage()
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: research-agent <command> [args]")
	fmt.Println("  demo            - 运行演示（默认）：两个内置研究问题")
	fmt.Println("  interactive     - 交互式研究会话（quit 退出）")
	fmt.Println("  ask <question>  - 单次研究问题")
	fmt.Println("  status          - 显示上次保存会话的统计")
	fmt.Println("  config          - 显示配置概要")
	fmt.Println("  version         - 显示版本")
}

func loadConfig() *config.Config {
	path := os.Getenv("RESEARCH_CONFIG")
	if path == "" {
		path = config.DefaultConfigPath
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "配置不合法: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func newAgent(ctx context.Context, cfg *config.Config) *agent.Agent {
	logger, err := log.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	a, err := agent.New(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化 Agent 失败: %v\n", err)
		os.Exit(1)
	}
	return a
}

func runConfig() {
	cfg := loadConfig()
	fmt.Printf("model.mode=%s\n", cfg.Model.Mode)
	fmt.Printf("model.model=%s\n", cfg.Model.Model)
	fmt.Printf("memory.max_messages=%d\n", cfg.Memory.MaxMessages)
	fmt.Printf("session.store=%s\n", cfg.Session.Store)
	if cfg.Session.Store != "postgres" {
		fmt.Printf("session.path=%s\n", cfg.Session.Path)
	}
}

var demoQueries = []string{
	"What is quantum computing and how does it work?",
	"Analyze NVIDIA's latest earnings and market position",
}

func runDemo() {
	ctx := context.Background()
	cfg := loadConfig()
	a := newAgent(ctx, cfg)

	fmt.Println("=== Research Agent Demo ===")
	for _, q := range demoQueries {
		fmt.Printf("\n问题: %s\n", q)
		res, err := a.Research(ctx, q)
		if err != nil {
			fmt.Fprintf(os.Stderr, "研究失败: %v\n", err)
			continue
		}
		printResult(res)
	}

	printStatus(a)
	if err := a.SaveSession(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "保存会话失败: %v\n", err)
	}
}

func runAsk(question string) {
	ctx := context.Background()
	a := newAgent(ctx, loadConfig())
	res, err := a.Research(ctx, question)
	if err != nil {
		fmt.Fprintf(os.Stderr, "研究失败: %v\n", err)
		os.Exit(1)
	}
	printResult(res)
}

func runStatus() {
	ctx := context.Background()
	a := newAgent(ctx, loadConfig())
	ok, err := a.LoadSession(ctx, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载会话失败: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		fmt.Println("没有已保存的会话")
		return
	}
	printStatus(a)
}

func runInteractive() {
	ctx := context.Background()
	a := newAgent(ctx, loadConfig())

	// 尝试恢复上次会话
	if ok, err := a.LoadSession(ctx, ""); err != nil {
		fmt.Fprintf(os.Stderr, "恢复会话失败: %v\n", err)
	} else if ok {
		fmt.Printf("已恢复会话 %s\n", a.SessionID())
	}

	fmt.Println("输入研究问题，或 status / save / quit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch line {
		case "quit", "exit":
			if err := a.SaveSession(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "保存会话失败: %v\n", err)
			}
			fmt.Println("bye")
			return
		case "status":
			printStatus(a)
			continue
		case "save":
			if err := a.SaveSession(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "保存会话失败: %v\n", err)
			} else {
				fmt.Println("会话已保存")
			}
			continue
		}
		res, err := a.Research(ctx, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "研究失败: %v\n", err)
			continue
		}
		printResult(res)
	}
}

func printResult(res *agent.ResearchResult) {
	fmt.Printf("\n%s\n", res.Response)
	fmt.Printf("\n[评分 %.1f | 耗时 %.2fs | 工具 %s | 发现 %d 条]\n",
		res.Evaluation.OverallScore, res.Elapsed,
		strings.Join(res.ToolsUsed, ","), res.Findings)
}

func printStatus(a *agent.Agent) {
	st := a.GetStatus()
	fmt.Println("\n=== Session Status ===")
	fmt.Printf("session_id=%s turns=%d model=%s/%s\n", st.SessionID, st.Turns, st.Provider, st.Model)
	fmt.Printf("conversation: %d turns (%d user / %d agent)\n",
		st.Conversation.TurnCount, st.Conversation.UserTurns, st.Conversation.AgentTurns)
	fmt.Printf("findings: %d\n", st.Findings)
	ev := st.Evaluation
	if ev.TotalEvaluations > 0 {
		fmt.Printf("score: avg %.1f (min %.1f / max %.1f), avg response %.2fs\n",
			ev.AverageScore, ev.MinScore, ev.MaxScore, ev.AverageResponseTime)
	}
	for name, s := range st.ToolStats {
		fmt.Printf("tool %-16s calls=%d failures=%d avg=%.3fs\n",
			name, s.Invocations, s.Failures, s.AvgSeconds())
	}
}
