package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/tanpawarit/goodfoods-reservation-agent/agent/booking"
	contractx "github.com/tanpawarit/goodfoods-reservation-agent/agent/contract"
	nodex "github.com/tanpawarit/goodfoods-reservation-agent/agent/nodes"
	toolx "github.com/tanpawarit/goodfoods-reservation-agent/agent/tool"
)

type fakeGateway struct {
	completions []contractx.Completion
	completeErr error
	parts       []string
	streamErr   error

	completeCalls int
	streamCalls   int
	offered       []int
	streamOffered []int
	histories     [][]contractx.Message
}

func (f *fakeGateway) Complete(_ context.Context, history []contractx.Message, tools []contractx.ToolSpec) (contractx.Completion, error) {
	f.completeCalls++
	f.offered = append(f.offered, len(tools))
	f.histories = append(f.histories, history)
	if f.completeErr != nil {
		return contractx.Completion{}, f.completeErr
	}
	if len(f.completions) == 0 {
		return contractx.Completion{}, fmt.Errorf("no completion left at call=%d", f.completeCalls)
	}
	idx := f.completeCalls - 1
	if idx >= len(f.completions) {
		idx = len(f.completions) - 1
	}
	return f.completions[idx], nil
}

func (f *fakeGateway) Stream(_ context.Context, _ []contractx.Message, tools []contractx.ToolSpec) (contractx.FragmentStream, error) {
	f.streamCalls++
	f.streamOffered = append(f.streamOffered, len(tools))
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	return &fakeStream{parts: append([]string(nil), f.parts...)}, nil
}

type fakeStream struct {
	parts  []string
	closed bool
}

func (s *fakeStream) Recv() (string, error) {
	if len(s.parts) == 0 {
		return "", io.EOF
	}
	part := s.parts[0]
	s.parts = s.parts[1:]
	return part, nil
}

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

type fakeDispatcher struct {
	reqs []contractx.RPCRequest
}

func (f *fakeDispatcher) Handle(_ context.Context, req contractx.RPCRequest) contractx.RPCResponse {
	f.reqs = append(f.reqs, req)
	name, _ := req.Params["name"].(string)
	return contractx.ResultResponse(req.ID, contractx.TextResult("result of "+name))
}

type recorder struct {
	events []contractx.Event
}

func (r *recorder) sink() contractx.EventSink {
	return func(ev contractx.Event) { r.events = append(r.events, ev) }
}

func (r *recorder) kinds() []contractx.EventKind {
	out := make([]contractx.EventKind, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

func (r *recorder) text() string {
	var sb strings.Builder
	for _, ev := range r.events {
		if ev.Kind == contractx.EventText {
			sb.WriteString(ev.Text)
		}
	}
	return sb.String()
}

func toolCall(id, name, args string) contractx.Completion {
	return contractx.Completion{ToolCalls: []contractx.ToolCall{{ID: id, Name: name, Arguments: args}}}
}

func newTestOrchestrator(t *testing.T, gw contractx.Gateway, d contractx.Dispatcher) *Orchestrator {
	t.Helper()

	o, err := New(gw, d, Config{SystemPrompt: "system"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return o
}

func TestNewRequiresDependencies(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, &fakeDispatcher{}, Config{}); err == nil {
		t.Fatal("New() with nil gateway should fail")
	}
	if _, err := New(&fakeGateway{}, nil, Config{}); err == nil {
		t.Fatal("New() with nil dispatcher should fail")
	}
}

func TestHandleMessageDirectAnswer(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{
		completions: []contractx.Completion{{Content: "ignored"}},
		parts:       []string{"Hello! ", "How can I help ", "with dining today?"},
	}
	o := newTestOrchestrator(t, gw, &fakeDispatcher{})
	rec := &recorder{}

	reply, err := o.HandleMessage(context.Background(), "What can you help me with today?", rec.sink())
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	want := "Hello! How can I help with dining today?"
	if reply != want || rec.text() != want {
		t.Fatalf("reply = %q, streamed = %q, want %q", reply, rec.text(), want)
	}
	if len(rec.events) != 3 {
		t.Fatalf("events = %d, want one per fragment", len(rec.events))
	}
	if gw.offered[0] != len(toolx.Catalog()) || gw.streamOffered[0] != len(toolx.Catalog()) {
		t.Fatalf("tools offered = %v/%v, want full catalog before any tool ran", gw.offered, gw.streamOffered)
	}

	msgs := o.History().Messages()
	if len(msgs) != 3 {
		t.Fatalf("history len = %d, want system+user+assistant", len(msgs))
	}
	if msgs[1].Role != contractx.RoleUser || msgs[2].Content != want {
		t.Fatalf("unexpected history: %+v", msgs)
	}
}

func TestHandleMessageToolRoundTrip(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{
		completions: []contractx.Completion{
			{ToolCalls: []contractx.ToolCall{
				{ID: "c1", Name: "search_restaurants", Arguments: `{"cuisine":"Italian"}`},
				{ID: "c2", Name: "get_recommendations", Arguments: `{}`},
			}},
			{Content: "done"},
		},
		parts: []string{"Found **Bella**."},
	}
	d := &fakeDispatcher{}
	o := newTestOrchestrator(t, gw, d)
	rec := &recorder{}

	if _, err := o.HandleMessage(context.Background(), "Find Italian restaurants downtown", rec.sink()); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	wantKinds := []contractx.EventKind{contractx.EventStatus, contractx.EventToolResult, contractx.EventToolResult, contractx.EventText}
	if fmt.Sprint(rec.kinds()) != fmt.Sprint(wantKinds) {
		t.Fatalf("event kinds = %v, want %v", rec.kinds(), wantKinds)
	}
	if rec.events[0].Text != "Using tools: search_restaurants, get_recommendations..." {
		t.Fatalf("status = %q", rec.events[0].Text)
	}
	first := rec.events[1].ToolResult
	if first.ToolName != "search_restaurants" || first.Arguments["cuisine"] != "Italian" || first.Result != "result of search_restaurants" {
		t.Fatalf("tool result event = %+v", first)
	}
	if len(d.reqs) != 2 || d.reqs[0].Method != contractx.MethodToolsCall {
		t.Fatalf("dispatcher requests = %+v", d.reqs)
	}

	if gw.offered[0] == 0 || gw.offered[1] != 0 || gw.streamOffered[0] != 0 {
		t.Fatalf("tools offered = %v stream=%v, want catalog only before tools ran", gw.offered, gw.streamOffered)
	}

	msgs := o.History().Messages()
	roles := make([]contractx.Role, 0, len(msgs))
	for _, m := range msgs {
		roles = append(roles, m.Role)
	}
	wantRoles := []contractx.Role{
		contractx.RoleSystem, contractx.RoleUser, contractx.RoleAssistant,
		contractx.RoleTool, contractx.RoleTool, contractx.RoleAssistant,
	}
	if fmt.Sprint(roles) != fmt.Sprint(wantRoles) {
		t.Fatalf("history roles = %v, want %v", roles, wantRoles)
	}
	if msgs[3].ToolCallID != "c1" || msgs[4].ToolCallID != "c2" {
		t.Fatalf("tool results not keyed to calls: %+v", msgs[3:5])
	}
}

func TestHandleMessageLoopBound(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{completions: []contractx.Completion{toolCall("c", "search_restaurants", `{}`)}}
	o := newTestOrchestrator(t, gw, &fakeDispatcher{})
	rec := &recorder{}

	reply, err := o.HandleMessage(context.Background(), "Find me something good to eat tonight", rec.sink())
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply != nodex.ApologyRephrase {
		t.Fatalf("reply = %q, want rephrase apology", reply)
	}
	if gw.completeCalls != 5 || gw.streamCalls != 0 {
		t.Fatalf("gateway calls = %d complete / %d stream, want 5 / 0", gw.completeCalls, gw.streamCalls)
	}
	last := rec.events[len(rec.events)-1]
	if last.Kind != contractx.EventText || last.Text != nodex.ApologyRephrase {
		t.Fatalf("last event = %+v", last)
	}
}

func TestHandleMessageFinalAnswerOnLastIteration(t *testing.T) {
	t.Parallel()

	call := toolCall("c", "search_restaurants", `{}`)
	gw := &fakeGateway{
		completions: []contractx.Completion{call, call, call, call, {Content: "final"}},
		parts:       []string{"final"},
	}
	o := newTestOrchestrator(t, gw, &fakeDispatcher{})
	rec := &recorder{}

	reply, err := o.HandleMessage(context.Background(), "Find me something good to eat tonight", rec.sink())
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply != "final" || strings.Contains(rec.text(), "apologize") {
		t.Fatalf("reply = %q, streamed = %q", reply, rec.text())
	}
}

func TestHandleMessageShortCircuit(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{}
	d := &fakeDispatcher{}
	o := newTestOrchestrator(t, gw, d)
	rec := &recorder{}

	reply, err := o.HandleMessage(context.Background(), "Any other recommendations?", rec.sink())
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply != nodex.ReplyWhichRecommendation || rec.text() != nodex.ReplyWhichRecommendation {
		t.Fatalf("reply = %q", reply)
	}
	if gw.completeCalls != 0 || gw.streamCalls != 0 || len(d.reqs) != 0 {
		t.Fatalf("short-circuit reached gateway/dispatcher: %d/%d/%d", gw.completeCalls, gw.streamCalls, len(d.reqs))
	}

	msgs := o.History().Messages()
	if len(msgs) != 2 || msgs[1].Role != contractx.RoleAssistant {
		t.Fatalf("history = %+v, want system + canned assistant reply", msgs)
	}
}

func TestHandleMessageEmptyCompletion(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{completeErr: fmt.Errorf("wrapped: %w", contractx.ErrEmptyCompletion)}
	o := newTestOrchestrator(t, gw, &fakeDispatcher{})
	rec := &recorder{}

	reply, err := o.HandleMessage(context.Background(), "Book a table for two at Bella tonight", rec.sink())
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply != nodex.ApologyMalformed || rec.text() != nodex.ApologyMalformed {
		t.Fatalf("reply = %q", reply)
	}
	if gw.completeCalls != 1 {
		t.Fatalf("complete calls = %d, want 1", gw.completeCalls)
	}
}

func TestHandleMessageGatewayFailure(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{completeErr: errors.New("401 unauthorized")}
	o := newTestOrchestrator(t, gw, &fakeDispatcher{})
	rec := &recorder{}

	if _, err := o.HandleMessage(context.Background(), "Book a table for two at Bella tonight", rec.sink()); err == nil {
		t.Fatal("HandleMessage() expected error")
	}
	if len(rec.events) != 1 || rec.events[0].Kind != contractx.EventError {
		t.Fatalf("events = %+v, want a single error event", rec.events)
	}
	if !strings.HasPrefix(rec.events[0].Text, "Error processing message: ") {
		t.Fatalf("error text = %q", rec.events[0].Text)
	}

	gw.completeErr = nil
	gw.completions = []contractx.Completion{{Content: "ok"}}
	gw.parts = []string{"Sure."}
	reply, err := o.HandleMessage(context.Background(), "Book a table for two at Bella tonight", nil)
	if err != nil || reply != "Sure." {
		t.Fatalf("next turn = %q, %v; history should stay usable", reply, err)
	}
}

func TestHandleMessageStreamFailureCommitsNothing(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{
		completions: []contractx.Completion{{Content: "x"}},
		streamErr:   errors.New("connection reset"),
	}
	o := newTestOrchestrator(t, gw, &fakeDispatcher{})

	if _, err := o.HandleMessage(context.Background(), "Recommend a quiet place for dinner", nil); err == nil {
		t.Fatal("HandleMessage() expected error")
	}
	msgs := o.History().Messages()
	if last := msgs[len(msgs)-1]; last.Role != contractx.RoleUser {
		t.Fatalf("last history entry = %+v, want the user message", last)
	}
}

func TestHandleMessageCancelledContext(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{completions: []contractx.Completion{{Content: "x"}}}
	o := newTestOrchestrator(t, gw, &fakeDispatcher{})
	rec := &recorder{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.HandleMessage(ctx, "Find me something good to eat tonight", rec.sink())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("HandleMessage() error = %v, want context.Canceled", err)
	}
	if gw.completeCalls != 0 {
		t.Fatalf("complete calls = %d, want 0", gw.completeCalls)
	}
	if len(rec.events) != 1 || rec.events[0].Kind != contractx.EventError {
		t.Fatalf("events = %+v", rec.events)
	}
}

func TestHandleMessageBadArgumentsDegradeToEmpty(t *testing.T) {
	t.Parallel()

	store := booking.NewMemoryStore()
	dispatcher, err := toolx.NewDispatcher(store)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}
	gw := &fakeGateway{
		completions: []contractx.Completion{
			toolCall("c1", toolx.ToolMakeReservation, `{not json`),
			{Content: "x"},
		},
		parts: []string{"I need a few more details."},
	}
	o := newTestOrchestrator(t, gw, dispatcher)
	rec := &recorder{}

	if _, err := o.HandleMessage(context.Background(), "Book me a table at rest_001 please", rec.sink()); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	ev := rec.events[1].ToolResult
	if len(ev.Arguments) != 0 {
		t.Fatalf("arguments = %v, want empty", ev.Arguments)
	}
	want := "Missing required parameters: restaurant_id, date, time, party_size, customer_name"
	if ev.Result != want {
		t.Fatalf("result = %q, want %q", ev.Result, want)
	}
}

func TestHandleMessageEndToEndBooking(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := booking.NewMemoryStore()
	if err := store.AddRestaurant(ctx, booking.Restaurant{
		ID:              "rest_001",
		Name:            "Bella Vista",
		Cuisine:         "Italian",
		Location:        "Downtown",
		Address:         "12 Main St, Downtown",
		SeatingCapacity: 4,
		PriceRange:      booking.PriceModerate,
		Rating:          4.6,
	}); err != nil {
		t.Fatalf("AddRestaurant() error = %v", err)
	}
	dispatcher, err := toolx.NewDispatcher(store)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}

	book := func(name string, party int) contractx.Completion {
		return toolCall("c_"+name, toolx.ToolMakeReservation, fmt.Sprintf(
			`{"restaurant_id":"rest_001","date":"2025-06-01","time":"19:00","party_size":%d,"customer_name":%q}`, party, name))
	}
	gw := &fakeGateway{
		completions: []contractx.Completion{book("Alice", 4), {Content: "x"}},
		parts:       []string{"Booked."},
	}
	o := newTestOrchestrator(t, gw, dispatcher)

	rec := &recorder{}
	if _, err := o.HandleMessage(ctx, "Book Bella Vista for 4 on June 1 at 7pm, name Alice", rec.sink()); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if got := rec.events[1].ToolResult.Result; !strings.HasPrefix(got, "Reservation confirmed!") {
		t.Fatalf("first booking result = %q", got)
	}

	gw.completions = []contractx.Completion{book("Bob", 1), {Content: "x"}}
	gw.completeCalls = 0
	rec = &recorder{}
	if _, err := o.HandleMessage(ctx, "Also book Bella Vista for 1 on June 1 at 7pm, name Bob", rec.sink()); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if got := rec.events[1].ToolResult.Result; !strings.HasPrefix(got, "Unable to create reservation.") {
		t.Fatalf("second booking result = %q", got)
	}
}

type cancelAfterFirst struct {
	next   contractx.Dispatcher
	cancel context.CancelFunc
}

func (c *cancelAfterFirst) Handle(ctx context.Context, req contractx.RPCRequest) contractx.RPCResponse {
	resp := c.next.Handle(ctx, req)
	c.cancel()
	return resp
}

func TestHandleMessageCancelMidToolsKeepsCommittedCalls(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := booking.NewMemoryStore()
	if err := store.AddRestaurant(ctx, booking.Restaurant{
		ID:              "rest_001",
		Name:            "Bella Vista",
		Cuisine:         "Italian",
		Location:        "Downtown",
		Address:         "12 Main St, Downtown",
		SeatingCapacity: 4,
		PriceRange:      booking.PriceModerate,
		Rating:          4.6,
	}); err != nil {
		t.Fatalf("AddRestaurant() error = %v", err)
	}
	dispatcher, err := toolx.NewDispatcher(store)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}

	gw := &fakeGateway{
		completions: []contractx.Completion{{ToolCalls: []contractx.ToolCall{
			{ID: "c1", Name: toolx.ToolMakeReservation, Arguments: `{"restaurant_id":"rest_001","date":"2025-06-01","time":"19:00","party_size":4,"customer_name":"Alice"}`},
			{ID: "c2", Name: toolx.ToolSearchRestaurants, Arguments: `{}`},
		}}},
	}
	o := newTestOrchestrator(t, gw, &cancelAfterFirst{next: dispatcher, cancel: cancel})

	if _, err := o.HandleMessage(ctx, "Book Bella Vista for 4 on June 1 at 7pm, name Alice", nil); err == nil {
		t.Fatal("HandleMessage() expected error")
	}

	msgs := o.History().Messages()
	if len(msgs) != 4 {
		t.Fatalf("history len = %d, want system+user+assistant+tool: %+v", len(msgs), msgs)
	}
	assistant, result := msgs[2], msgs[3]
	if assistant.Role != contractx.RoleAssistant || len(assistant.ToolCalls) != 1 || assistant.ToolCalls[0].ID != "c1" {
		t.Fatalf("assistant entry = %+v, want only the executed call", assistant)
	}
	if result.Role != contractx.RoleTool || result.ToolCallID != "c1" || !strings.HasPrefix(result.Content, "Reservation confirmed!") {
		t.Fatalf("tool entry = %+v", result)
	}

	ok, err := store.CheckAvailability(context.Background(), "rest_001", "2025-06-01", "19:00", 1)
	if err != nil {
		t.Fatalf("CheckAvailability() error = %v", err)
	}
	if ok {
		t.Fatal("booking made before cancellation should hold the slot")
	}
}
