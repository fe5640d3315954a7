package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/goodfoods-reservation-agent/agent/contract"
)

var (
	//go:embed template/system.txt
	systemRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	System string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		System: strings.TrimSpace(systemRaw),
	}
}

// SystemPrompt returns the system entry every conversation starts with.
func SystemPrompt() (string, error) {
	p := LoadPromptSet().System
	if p == "" {
		return "", fmt.Errorf("%w: system", contractx.ErrPromptMissing)
	}
	return p, nil
}
