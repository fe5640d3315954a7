package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tanpawarit/goodfoods-reservation-agent/agent/agents/orchestrator"
	contractx "github.com/tanpawarit/goodfoods-reservation-agent/agent/contract"
	"github.com/tanpawarit/goodfoods-reservation-agent/agent/llm"
	"github.com/tanpawarit/goodfoods-reservation-agent/agent/prompt"
	toolx "github.com/tanpawarit/goodfoods-reservation-agent/agent/tool"
	configx "github.com/tanpawarit/goodfoods-reservation-agent/pkg/config"
)

const welcome = "Welcome to GoodFoods! Ask me to find restaurants, check availability, or book a table. Type \"exit\" to quit."

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the reservation assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			appCfg, err := loadAppConfig(opts)
			if err != nil {
				return err
			}
			llmCfg, err := configx.New[llm.Config]("LLM")
			if err != nil {
				return err
			}
			agentCfg, err := configx.New[orchestrator.Config]("AGENT")
			if err != nil {
				return err
			}

			store, closeStore, err := openStore(ctx, appCfg)
			if err != nil {
				return err
			}
			defer closeStore()

			dispatcher, err := toolx.NewDispatcher(store)
			if err != nil {
				return err
			}
			gateway, err := llm.NewGateway(ctx, *llmCfg)
			if err != nil {
				return err
			}
			system, err := prompt.SystemPrompt()
			if err != nil {
				return err
			}

			agentCfg.SystemPrompt = system
			agentCfg.Tools = dispatcher.Specs()
			agent, err := orchestrator.New(gateway, dispatcher, *agentCfg)
			if err != nil {
				return err
			}

			return runREPL(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), agent, appCfg.HistoryLimit)
		},
	}
}

func runREPL(ctx context.Context, in io.Reader, out io.Writer, agent *orchestrator.Orchestrator, historyLimit int) error {
	fmt.Fprintln(out, welcome)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nyou> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := scanner.Text()
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "exit", "quit":
			return nil
		}

		fmt.Fprint(out, "goodfoods> ")
		// Turn failures are already rendered as error events.
		_, _ = agent.HandleMessage(ctx, line, render(out))
		fmt.Fprintln(out)

		agent.History().Trim(historyLimit)

		if ctx.Err() != nil {
			return nil
		}
	}
}

// render prints events as they arrive: status and tool results on their own
// lines, text fragments inline.
func render(out io.Writer) contractx.EventSink {
	return func(ev contractx.Event) {
		switch ev.Kind {
		case contractx.EventStatus:
			fmt.Fprintf(out, "\n  [%s]\n", ev.Text)
		case contractx.EventToolResult:
			args, _ := json.Marshal(ev.ToolResult.Arguments)
			fmt.Fprintf(out, "  -> %s %s\n%s\n\n", ev.ToolResult.ToolName, args, indent(ev.ToolResult.Result, "     "))
		case contractx.EventText:
			fmt.Fprint(out, ev.Text)
		case contractx.EventError:
			fmt.Fprintf(out, "\n%s", ev.Text)
		}
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
