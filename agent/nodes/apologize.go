package orchestratornode

import contractx "github.com/tanpawarit/goodfoods-reservation-agent/agent/contract"

func Apologize(in *TurnState) (*TurnState, error) {
	in.Emit.Emit(contractx.TextEvent(ApologyMalformed))
	in.Reply = ApologyMalformed
	in.Done = true
	return in, nil
}
