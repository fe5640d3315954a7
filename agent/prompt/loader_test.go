package prompt

import (
	"strings"
	"testing"
)

func TestSystemPrompt(t *testing.T) {
	t.Parallel()

	got, err := SystemPrompt()
	if err != nil {
		t.Fatalf("SystemPrompt() error = %v", err)
	}
	for _, want := range []string{"GoodFoods", "SCOPE", "**Restaurant Name**"} {
		if !strings.Contains(got, want) {
			t.Fatalf("SystemPrompt() missing %q", want)
		}
	}
	if got != strings.TrimSpace(got) {
		t.Fatal("SystemPrompt() should be trimmed")
	}
}
