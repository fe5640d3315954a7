package llm

import (
	"context"
	"errors"
	"fmt"
	"io"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"
	contractx "github.com/tanpawarit/goodfoods-reservation-agent/agent/contract"
)

// OpenAIGateway talks to any OpenAI-compatible endpoint through openai-go.
// SDK-level retries are disabled; retryPolicy owns them.
type OpenAIGateway struct {
	client      *openaisdk.Client
	model       string
	maxTokens   int
	temperature float32
	policy      retryPolicy
}

var _ contractx.Gateway = (*OpenAIGateway)(nil)

func NewOpenAIGateway(client *openaisdk.Client, cfg Config) (*OpenAIGateway, error) {
	if client == nil {
		return nil, errors.New("openai client is required")
	}
	return &OpenAIGateway{
		client:      client,
		model:       cfg.Model,
		maxTokens:   cfg.MaxCompletionToken,
		temperature: cfg.Temperature,
		policy:      cfg.retryPolicy(),
	}, nil
}

func (g *OpenAIGateway) Complete(ctx context.Context, history []contractx.Message, tools []contractx.ToolSpec) (contractx.Completion, error) {
	params := g.params(history, tools)

	var resp *openaisdk.ChatCompletion
	err := g.policy.do(ctx, "complete", func(ctx context.Context) error {
		attemptCtx, cancel := g.policy.attempt(ctx)
		defer cancel()

		out, err := g.client.Chat.Completions.New(attemptCtx, params, option.WithMaxRetries(0))
		if err != nil {
			return classify(ctx, err)
		}
		resp = out
		return nil
	})
	if err != nil {
		return contractx.Completion{}, fmt.Errorf("%w: %w", contractx.ErrModelInvoke, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return contractx.Completion{}, contractx.ErrEmptyCompletion
	}

	msg := resp.Choices[0].Message
	out := contractx.Completion{Content: msg.Content}
	for _, tc := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, contractx.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return out, nil
}

func (g *OpenAIGateway) Stream(ctx context.Context, history []contractx.Message, tools []contractx.ToolSpec) (contractx.FragmentStream, error) {
	params := g.params(history, tools)

	var stream *openaiStream
	err := g.policy.do(ctx, "stream", func(ctx context.Context) error {
		attemptCtx, cancel := g.policy.attempt(ctx)

		s := g.client.Chat.Completions.NewStreaming(attemptCtx, params, option.WithMaxRetries(0))
		if err := s.Err(); err != nil {
			_ = s.Close()
			cancel()
			return classify(ctx, err)
		}
		stream = &openaiStream{stream: s, cancel: cancel}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", contractx.ErrModelInvoke, err)
	}
	return stream, nil
}

func (g *OpenAIGateway) params(history []contractx.Message, tools []contractx.ToolSpec) openaisdk.ChatCompletionNewParams {
	params := openaisdk.ChatCompletionNewParams{
		Model:       openaisdk.ChatModel(g.model),
		Messages:    toOpenAIMessages(history),
		Temperature: openaisdk.Float(float64(g.temperature)),
	}
	if g.maxTokens > 0 {
		params.MaxCompletionTokens = openaisdk.Int(int64(g.maxTokens))
	}
	if len(tools) > 0 {
		params.Tools = toOpenAITools(tools)
	}
	return params
}

type openaiStream struct {
	stream *ssestream.Stream[openaisdk.ChatCompletionChunk]
	cancel context.CancelFunc
}

func (s *openaiStream) Recv() (string, error) {
	for s.stream.Next() {
		chunk := s.stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			return delta, nil
		}
	}
	if err := s.stream.Err(); err != nil {
		return "", fmt.Errorf("%w: stream recv: %w", contractx.ErrModelInvoke, err)
	}
	return "", io.EOF
}

func (s *openaiStream) Close() error {
	err := s.stream.Close()
	s.cancel()
	return err
}

func toOpenAIMessages(history []contractx.Message) []openaisdk.ChatCompletionMessageParamUnion {
	out := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case contractx.RoleSystem:
			out = append(out, openaisdk.SystemMessage(m.Content))
		case contractx.RoleUser:
			out = append(out, openaisdk.UserMessage(m.Content))
		case contractx.RoleTool:
			out = append(out, openaisdk.ToolMessage(m.Content, m.ToolCallID))
		case contractx.RoleAssistant:
			if len(m.ToolCalls) == 0 {
				out = append(out, openaisdk.AssistantMessage(m.Content))
				continue
			}
			asst := openaisdk.ChatCompletionAssistantMessageParam{}
			if m.Content != "" {
				asst.Content.OfString = openaisdk.String(m.Content)
			}
			for _, c := range m.ToolCalls {
				asst.ToolCalls = append(asst.ToolCalls, openaisdk.ChatCompletionMessageToolCallParam{
					ID: c.ID,
					Function: openaisdk.ChatCompletionMessageToolCallFunctionParam{
						Name:      c.Name,
						Arguments: c.Arguments,
					},
				})
			}
			out = append(out, openaisdk.ChatCompletionMessageParamUnion{OfAssistant: &asst})
		}
	}
	return out
}

func toOpenAITools(specs []contractx.ToolSpec) []openaisdk.ChatCompletionToolParam {
	out := make([]openaisdk.ChatCompletionToolParam, 0, len(specs))
	for _, spec := range specs {
		out = append(out, openaisdk.ChatCompletionToolParam{
			Function: openaisdk.FunctionDefinitionParam{
				Name:        spec.Name,
				Description: openaisdk.String(spec.Description),
				Parameters:  openaisdk.FunctionParameters(spec.InputSchema()),
			},
		})
	}
	return out
}
