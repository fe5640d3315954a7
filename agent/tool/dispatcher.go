package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/goodfoods-reservation-agent/agent/booking"
	contractx "github.com/tanpawarit/goodfoods-reservation-agent/agent/contract"
	"github.com/xeipuuv/gojsonschema"
)

// Dispatcher serves the tool protocol on top of a booking store. Tool-level
// problems (missing fields, unknown ids, no capacity) come back as content;
// only routing and internal failures become protocol errors.
type Dispatcher struct {
	store    booking.Store
	specs    []contractx.ToolSpec
	schemas  map[string]*gojsonschema.Schema
	handlers map[string]handler
}

var _ contractx.Dispatcher = (*Dispatcher)(nil)

func NewDispatcher(store booking.Store) (*Dispatcher, error) {
	if store == nil {
		return nil, errors.New("booking store is required")
	}

	specs := Catalog()
	schemas, err := compileSchemas(specs)
	if err != nil {
		return nil, err
	}

	d := &Dispatcher{
		store:   store,
		specs:   specs,
		schemas: schemas,
	}
	d.handlers = map[string]handler{
		ToolSearchRestaurants:  d.searchRestaurants,
		ToolGetAvailability:    d.getAvailability,
		ToolMakeReservation:    d.makeReservation,
		ToolCancelReservation:  d.cancelReservation,
		ToolGetRecommendations: d.getRecommendations,
	}
	return d, nil
}

// Specs returns the catalog this dispatcher serves.
func (d *Dispatcher) Specs() []contractx.ToolSpec {
	return append([]contractx.ToolSpec(nil), d.specs...)
}

func (d *Dispatcher) Handle(ctx context.Context, req contractx.RPCRequest) (resp contractx.RPCResponse) {
	logger := log.With().Str("method", req.Method).Interface("request_id", req.ID).Logger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("tool dispatcher recovered from panic")
			resp = contractx.ErrorResponse(req.ID, contractx.CodeInternalError, fmt.Sprintf("Internal error: %v", r))
		}
	}()

	var (
		result any
		err    error
	)
	switch req.Method {
	case contractx.MethodToolsList:
		result = d.listTools()
	case contractx.MethodToolsCall:
		result, err = d.callTool(ctx, req.Params)
	case contractx.MethodResourcesList:
		result = listResources()
	case contractx.MethodResourcesRead:
		result, err = d.readResource(ctx, req.Params)
	default:
		logger.Warn().Msg("unknown tool protocol method")
		return contractx.ErrorResponse(req.ID, contractx.CodeMethodNotFound, "Method not found: "+req.Method)
	}

	if err != nil {
		logger.Error().Err(err).Msg("tool protocol request failed")
		return contractx.ErrorResponse(req.ID, contractx.CodeInternalError, "Internal error: "+err.Error())
	}
	return contractx.ResultResponse(req.ID, result)
}

func (d *Dispatcher) listTools() contractx.ToolListResult {
	tools := make([]contractx.ToolDescriptor, 0, len(d.specs))
	for _, spec := range d.specs {
		tools = append(tools, spec.Descriptor())
	}
	return contractx.ToolListResult{Tools: tools}
}

func (d *Dispatcher) callTool(ctx context.Context, params map[string]any) (contractx.ToolCallResult, error) {
	p := args(params)
	name := p.str("name")

	h, ok := d.handlers[name]
	if !ok {
		return contractx.ToolCallResult{}, fmt.Errorf("%w: %s", contractx.ErrUnknownTool, name)
	}

	a := toArgs(params["arguments"]).clone()
	for _, spec := range d.specs {
		if spec.Name == name {
			coerceNumbers(spec.Params, a)
			break
		}
	}

	text, err := h(ctx, a)
	if err != nil {
		return contractx.ToolCallResult{}, fmt.Errorf("tool=%s: %w", name, err)
	}

	log.Debug().Str("tool", name).Int("result_len", len(text)).Msg("tool executed")
	return contractx.TextResult(strings.TrimRight(text, "\n")), nil
}
