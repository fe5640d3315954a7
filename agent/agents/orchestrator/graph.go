package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	nodex "github.com/tanpawarit/goodfoods-reservation-agent/agent/nodes"
)

// compileIterationGraph builds one loop iteration:
// complete -> (execute_tools | stream_reply | apologize) -> END.
func (o *Orchestrator) compileIterationGraph(
	ctx context.Context,
) (compose.Runnable[*nodex.TurnState, *nodex.TurnState], error) {
	graph := compose.NewGraph[*nodex.TurnState, *nodex.TurnState]()

	if err := graph.AddLambdaNode(nodex.NodeComplete,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (*nodex.TurnState, error) {
			return nodex.Complete(ctx, in, o.gateway)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeComplete, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeExecuteTools,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (*nodex.TurnState, error) {
			return nodex.ExecuteTools(ctx, in, o.executor)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeExecuteTools, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeStreamReply,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (*nodex.TurnState, error) {
			return nodex.StreamReply(ctx, in, o.gateway)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeStreamReply, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeApologize,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (*nodex.TurnState, error) {
			return nodex.Apologize(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeApologize, err)
	}

	if err := graph.AddEdge(compose.START, nodex.NodeComplete); err != nil {
		return nil, fmt.Errorf("add edge %s->%s: %w", compose.START, nodex.NodeComplete, err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.TurnState) (string, error) {
			return nodex.Route(in), nil
		},
		map[string]bool{
			nodex.NodeExecuteTools: true,
			nodex.NodeStreamReply:  true,
			nodex.NodeApologize:    true,
		},
	)
	if err := graph.AddBranch(nodex.NodeComplete, branch); err != nil {
		return nil, fmt.Errorf("add branch %s: %w", nodex.NodeComplete, err)
	}

	for _, node := range []string{nodex.NodeExecuteTools, nodex.NodeStreamReply, nodex.NodeApologize} {
		if err := graph.AddEdge(node, compose.END); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", node, compose.END, err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.iteration"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
