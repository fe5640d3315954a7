package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/goodfoods-reservation-agent/agent/contract"
)

// EinoGateway adapts an eino tool-calling chat model to contract.Gateway.
type EinoGateway struct {
	model  einomodel.ToolCallingChatModel
	policy retryPolicy
}

var _ contractx.Gateway = (*EinoGateway)(nil)

func NewEinoGateway(chatModel einomodel.ToolCallingChatModel, cfg Config) (*EinoGateway, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	return &EinoGateway{model: chatModel, policy: cfg.retryPolicy()}, nil
}

func (g *EinoGateway) Complete(ctx context.Context, history []contractx.Message, tools []contractx.ToolSpec) (contractx.Completion, error) {
	chat, err := g.bind(tools)
	if err != nil {
		return contractx.Completion{}, err
	}
	input := toSchemaMessages(history)

	var out *schema.Message
	err = g.policy.do(ctx, "complete", func(ctx context.Context) error {
		attemptCtx, cancel := g.policy.attempt(ctx)
		defer cancel()

		msg, err := chat.Generate(attemptCtx, input)
		if err != nil {
			return classify(ctx, err)
		}
		out = msg
		return nil
	})
	if err != nil {
		if isEmptyChoices(err) {
			return contractx.Completion{}, fmt.Errorf("%w: %v", contractx.ErrEmptyCompletion, err)
		}
		return contractx.Completion{}, fmt.Errorf("%w: %w", contractx.ErrModelInvoke, err)
	}
	if out == nil {
		return contractx.Completion{}, contractx.ErrEmptyCompletion
	}
	return fromSchemaMessage(out), nil
}

func (g *EinoGateway) Stream(ctx context.Context, history []contractx.Message, tools []contractx.ToolSpec) (contractx.FragmentStream, error) {
	chat, err := g.bind(tools)
	if err != nil {
		return nil, err
	}
	input := toSchemaMessages(history)

	var stream *einoStream
	err = g.policy.do(ctx, "stream", func(ctx context.Context) error {
		attemptCtx, cancel := g.policy.attempt(ctx)

		reader, err := chat.Stream(attemptCtx, input)
		if err != nil {
			cancel()
			return classify(ctx, err)
		}
		stream = &einoStream{reader: reader, cancel: cancel}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", contractx.ErrModelInvoke, err)
	}
	return stream, nil
}

func (g *EinoGateway) bind(tools []contractx.ToolSpec) (einomodel.ToolCallingChatModel, error) {
	if len(tools) == 0 {
		return g.model, nil
	}
	bound, err := g.model.WithTools(toToolInfos(tools))
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools: %v", contractx.ErrModelInvoke, err)
	}
	return bound, nil
}

type einoStream struct {
	reader *schema.StreamReader[*schema.Message]
	cancel context.CancelFunc
}

func (s *einoStream) Recv() (string, error) {
	for {
		msg, err := s.reader.Recv()
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		if err != nil {
			return "", fmt.Errorf("%w: stream recv: %w", contractx.ErrModelInvoke, err)
		}
		if msg != nil && msg.Content != "" {
			return msg.Content, nil
		}
	}
}

func (s *einoStream) Close() error {
	s.reader.Close()
	s.cancel()
	return nil
}

func isEmptyChoices(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "empty choices") || strings.Contains(msg, "no choices")
}

func toSchemaMessages(history []contractx.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case contractx.RoleSystem:
			out = append(out, schema.SystemMessage(m.Content))
		case contractx.RoleUser:
			out = append(out, schema.UserMessage(m.Content))
		case contractx.RoleAssistant:
			out = append(out, schema.AssistantMessage(m.Content, toSchemaToolCalls(m.ToolCalls)))
		case contractx.RoleTool:
			out = append(out, schema.ToolMessage(m.Content, m.ToolCallID))
		}
	}
	return out
}

func toSchemaToolCalls(calls []contractx.ToolCall) []schema.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]schema.ToolCall, 0, len(calls))
	for _, c := range calls {
		out = append(out, schema.ToolCall{
			ID:   c.ID,
			Type: "function",
			Function: schema.FunctionCall{
				Name:      c.Name,
				Arguments: c.Arguments,
			},
		})
	}
	return out
}

func fromSchemaMessage(msg *schema.Message) contractx.Completion {
	out := contractx.Completion{Content: msg.Content}
	for _, tc := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, contractx.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return out
}

func toToolInfos(specs []contractx.ToolSpec) []*schema.ToolInfo {
	out := make([]*schema.ToolInfo, 0, len(specs))
	for _, spec := range specs {
		out = append(out, &schema.ToolInfo{
			Name:        spec.Name,
			Desc:        spec.Description,
			ParamsOneOf: schema.NewParamsOneOfByParams(toParameterInfos(spec.Params)),
		})
	}
	return out
}

func toParameterInfos(params []contractx.ParamSpec) map[string]*schema.ParameterInfo {
	out := make(map[string]*schema.ParameterInfo, len(params))
	for _, p := range params {
		info := &schema.ParameterInfo{
			Type:     dataType(p.Type),
			Desc:     p.Description,
			Required: p.Required,
		}
		if p.Type == contractx.ParamObject {
			info.SubParams = toParameterInfos(p.Properties)
		}
		out[p.Name] = info
	}
	return out
}

func dataType(t contractx.ParamType) schema.DataType {
	switch t {
	case contractx.ParamInteger:
		return schema.Integer
	case contractx.ParamNumber:
		return schema.Number
	case contractx.ParamObject:
		return schema.Object
	default:
		return schema.String
	}
}
