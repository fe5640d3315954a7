package orchestratornode

import (
	contractx "github.com/tanpawarit/goodfoods-reservation-agent/agent/contract"
	statex "github.com/tanpawarit/goodfoods-reservation-agent/agent/state"
)

const (
	ApologyMalformed = "I apologize, but I encountered an issue processing your request."
	ApologyRephrase  = "I apologize, but I'm having trouble completing your request. Please try rephrasing."
)

// TurnState flows through one loop iteration of a turn. The orchestrator
// carries it across iterations, resetting Completion each time.
type TurnState struct {
	History *statex.History
	Tools   []contractx.ToolSpec
	Emit    contractx.EventSink

	Iteration     int
	ToolsExecuted bool

	Completion contractx.Completion
	// Empty marks a completion that came back without choices.
	Empty bool

	Reply string
	Done  bool
}

// offeredTools is the catalog for the next gateway call: every tool until one
// has run this turn, none afterwards.
func (st *TurnState) offeredTools() []contractx.ToolSpec {
	if st.ToolsExecuted {
		return nil
	}
	return st.Tools
}
