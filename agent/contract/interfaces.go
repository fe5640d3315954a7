package contract

import "context"

// Gateway is the completion capability the orchestrator drives. Implementations
// return ErrEmptyCompletion when the provider answers without any choice.
type Gateway interface {
	Complete(ctx context.Context, history []Message, tools []ToolSpec) (Completion, error)
	Stream(ctx context.Context, history []Message, tools []ToolSpec) (FragmentStream, error)
}

// FragmentStream yields text deltas in order until io.EOF. It cannot be restarted.
type FragmentStream interface {
	Recv() (string, error)
	Close() error
}

// Dispatcher routes tool-protocol requests. Failures are reported inside the
// response envelope, never as a Go error.
type Dispatcher interface {
	Handle(ctx context.Context, req RPCRequest) RPCResponse
}
