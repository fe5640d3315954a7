package orchestrator

import (
	"context"
	"errors"
	"sync"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/goodfoods-reservation-agent/agent/contract"
	nodex "github.com/tanpawarit/goodfoods-reservation-agent/agent/nodes"
	statex "github.com/tanpawarit/goodfoods-reservation-agent/agent/state"
	toolx "github.com/tanpawarit/goodfoods-reservation-agent/agent/tool"
)

const defaultMaxIterations = 5

type Config struct {
	MaxIterations int `envconfig:"MAX_ITERATIONS" split_words:"true" default:"5"`

	SystemPrompt string               `ignored:"true"`
	Tools        []contractx.ToolSpec `ignored:"true"`
}

// Orchestrator owns one conversation. Turns are processed one at a time.
type Orchestrator struct {
	gateway  contractx.Gateway
	executor toolx.Executor
	tools    []contractx.ToolSpec

	history       *statex.History
	maxIterations int

	graphRunner compose.Runnable[*nodex.TurnState, *nodex.TurnState]

	mu sync.Mutex
}

func New(
	gateway contractx.Gateway,
	dispatcher contractx.Dispatcher,
	cfg Config,
) (*Orchestrator, error) {
	if gateway == nil {
		return nil, errors.New("completion gateway is required")
	}
	if dispatcher == nil {
		return nil, errors.New("tool dispatcher is required")
	}

	maxIterations := cfg.MaxIterations
	if maxIterations <= 0 {
		maxIterations = defaultMaxIterations
	}
	tools := cfg.Tools
	if tools == nil {
		tools = toolx.Catalog()
	}

	o := &Orchestrator{
		gateway:       gateway,
		executor:      toolx.NewExecutor(dispatcher),
		tools:         tools,
		history:       statex.NewHistory(cfg.SystemPrompt),
		maxIterations: maxIterations,
	}

	graphRunner, err := o.compileIterationGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// History exposes the conversation log, e.g. for trimming between turns.
func (o *Orchestrator) History() *statex.History {
	return o.history
}

// HandleMessage runs one turn and returns the reply text. Every failure is
// also emitted as a single error event; history stays usable afterwards.
func (o *Orchestrator) HandleMessage(ctx context.Context, text string, emit contractx.EventSink) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if d := nodex.Intercept(text, o.history); d.Kind == nodex.ShortCircuit {
		log.Info().Str("reply", d.Reply).Msg("turn short-circuited")
		emit.Emit(contractx.TextEvent(d.Reply))
		o.history.Append(contractx.AssistantMessage(d.Reply))
		return d.Reply, nil
	}

	o.history.Append(contractx.UserMessage(text))

	reply, err := o.runLoop(ctx, emit)
	if err != nil {
		log.Error().Err(err).Msg("turn failed")
		emit.Emit(contractx.ErrorEvent(err))
		return "", err
	}
	return reply, nil
}

func (o *Orchestrator) runLoop(ctx context.Context, emit contractx.EventSink) (string, error) {
	st := &nodex.TurnState{
		History: o.history,
		Tools:   o.tools,
		Emit:    emit,
	}

	for st.Iteration < o.maxIterations {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		out, err := o.graphRunner.Invoke(ctx, st)
		if err != nil {
			return "", err
		}
		st = out

		if st.Done {
			log.Info().
				Int("iterations", st.Iteration).
				Bool("tools_executed", st.ToolsExecuted).
				Msg("turn completed")
			return st.Reply, nil
		}
	}

	log.Warn().Int("iterations", st.Iteration).Msg("turn hit iteration limit")
	emit.Emit(contractx.TextEvent(nodex.ApologyRephrase))
	return nodex.ApologyRephrase, nil
}
