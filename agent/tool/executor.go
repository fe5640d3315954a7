package tool

import (
	"context"
	"fmt"
	"sync/atomic"

	contractx "github.com/tanpawarit/goodfoods-reservation-agent/agent/contract"
)

// Executor runs one tool through a dispatcher and returns the text the model
// should see. Protocol errors are folded into that text.
type Executor func(ctx context.Context, name string, args map[string]any) string

func NewExecutor(d contractx.Dispatcher) Executor {
	var seq atomic.Int64

	return func(ctx context.Context, name string, args map[string]any) string {
		resp := d.Handle(ctx, contractx.NewToolCallRequest(seq.Add(1), name, args))
		if resp.Error != nil {
			return fmt.Sprintf("Error executing %s: %s", name, resp.Error.Message)
		}

		switch result := resp.Result.(type) {
		case contractx.ToolCallResult:
			return result.FirstText()
		case *contractx.ToolCallResult:
			if result != nil {
				return result.FirstText()
			}
		}
		return fmt.Sprintf("Error executing %s: unexpected result payload", name)
	}
}
