package orchestratornode

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/goodfoods-reservation-agent/agent/contract"
	toolx "github.com/tanpawarit/goodfoods-reservation-agent/agent/tool"
)

// ExecuteTools runs the requested calls one by one in the order given. Each
// tool-result event is emitted before the next call starts. On cancellation
// the calls that already ran are committed with their results, so history
// keeps every tool call paired with a result.
func ExecuteTools(ctx context.Context, in *TurnState, exec toolx.Executor) (*TurnState, error) {
	calls := in.Completion.ToolCalls

	names := contractx.ToolNames(calls)
	in.Emit.Emit(contractx.StatusEvent(fmt.Sprintf("Using tools: %s...", strings.Join(names, ", "))))

	results := make([]contractx.Message, 0, len(calls))
	for i, call := range calls {
		if err := ctx.Err(); err != nil {
			if i > 0 {
				commit(in, calls[:i], results)
			}
			return nil, err
		}

		args := toolx.ParseArguments(call.Arguments)
		result := exec(ctx, call.Name, args)

		log.Debug().Str("tool", call.Name).Str("call_id", call.ID).Msg("tool call finished")

		in.Emit.Emit(contractx.ToolResultEventOf(call.Name, args, result))
		results = append(results, contractx.ToolResultMessage(call.ID, result))
	}
	commit(in, calls, results)
	return in, nil
}

func commit(in *TurnState, calls []contractx.ToolCall, results []contractx.Message) {
	entries := make([]contractx.Message, 0, len(results)+1)
	entries = append(entries, contractx.AssistantMessage(in.Completion.Content, calls...))
	entries = append(entries, results...)
	in.History.Append(entries...)
	in.ToolsExecuted = true
}
