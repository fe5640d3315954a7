package state

import (
	"strings"
	"sync"

	contractx "github.com/tanpawarit/goodfoods-reservation-agent/agent/contract"
)

// History is the ordered conversation log. When created with a system prompt
// the system entry stays at index 0 through every trim.
type History struct {
	mu      sync.RWMutex
	entries []contractx.Message
}

func NewHistory(systemPrompt string) *History {
	h := &History{}
	if systemPrompt != "" {
		h.entries = append(h.entries, contractx.SystemMessage(systemPrompt))
	}
	return h
}

func (h *History) Append(msgs ...contractx.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, msgs...)
}

// Messages returns a copy safe to hand to a gateway.
func (h *History) Messages() []contractx.Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]contractx.Message, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Trim keeps at most limit entries: the leading system entry (if any) plus
// the most recent ones. Tool results orphaned from their assistant call at
// the cut are dropped too. limit <= 0 disables trimming.
func (h *History) Trim(limit int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if limit <= 0 || len(h.entries) <= limit {
		return
	}

	var head []contractx.Message
	body := h.entries
	if len(body) > 0 && body[0].Role == contractx.RoleSystem {
		head = body[:1]
		body = body[1:]
		limit--
	}
	if limit < 0 {
		limit = 0
	}
	tail := body[len(body)-limit:]
	for len(tail) > 0 && tail[0].Role == contractx.RoleTool {
		tail = tail[1:]
	}

	trimmed := make([]contractx.Message, 0, len(head)+len(tail))
	trimmed = append(trimmed, head...)
	trimmed = append(trimmed, tail...)
	h.entries = trimmed
}

// Mentions reports whether any non-system entry contains substr, case-insensitively.
func (h *History) Mentions(substr string) bool {
	needle := strings.ToLower(substr)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, m := range h.entries {
		if m.Role == contractx.RoleSystem {
			continue
		}
		if strings.Contains(strings.ToLower(m.Content), needle) {
			return true
		}
	}
	return false
}
