package orchestratornode

import (
	"context"
	"errors"
	"io"
	"strings"

	contractx "github.com/tanpawarit/goodfoods-reservation-agent/agent/contract"
)

// StreamReply asks for the final answer in streaming mode and forwards each
// fragment as it arrives. A partial reply is not committed to history when
// the stream fails.
func StreamReply(ctx context.Context, in *TurnState, gateway contractx.Gateway) (*TurnState, error) {
	stream, err := gateway.Stream(ctx, in.History.Messages(), in.offeredTools())
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var reply strings.Builder
	for {
		part, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if part == "" {
			continue
		}
		reply.WriteString(part)
		in.Emit.Emit(contractx.TextEvent(part))
	}

	in.Reply = reply.String()
	if in.Reply != "" {
		in.History.Append(contractx.AssistantMessage(in.Reply))
	}
	in.Done = true
	return in, nil
}
