package orchestratornode

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/goodfoods-reservation-agent/agent/contract"
)

func Complete(ctx context.Context, in *TurnState, gateway contractx.Gateway) (*TurnState, error) {
	if in == nil || in.History == nil {
		return nil, fmt.Errorf("%w: turn state is nil", contractx.ErrValidation)
	}

	in.Iteration++
	in.Completion = contractx.Completion{}
	in.Empty = false

	tools := in.offeredTools()
	completion, err := gateway.Complete(ctx, in.History.Messages(), tools)
	if errors.Is(err, contractx.ErrEmptyCompletion) {
		log.Warn().Int("iteration", in.Iteration).Msg("completion returned no choices")
		in.Empty = true
		return in, nil
	}
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("iteration", in.Iteration).
		Int("tools_offered", len(tools)).
		Int("tool_calls", len(completion.ToolCalls)).
		Msg("completion received")

	in.Completion = completion
	return in, nil
}

// Route picks the node that handles the completion just received.
func Route(in *TurnState) string {
	switch {
	case in.Empty:
		return NodeApologize
	case in.Completion.HasToolCalls():
		return NodeExecuteTools
	default:
		return NodeStreamReply
	}
}

const (
	NodeComplete     = "complete"
	NodeExecuteTools = "execute_tools"
	NodeStreamReply  = "stream_reply"
	NodeApologize    = "apologize"
)
