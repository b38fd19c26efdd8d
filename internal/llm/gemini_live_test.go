package llm

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestGeminiClient_Live(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set, skipping live Gemini test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := NewGeminiClient(ctx, apiKey, "gemini-2.5-flash")
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	defer client.Close()

	resp, err := client.GenerateContent(ctx, "Answer with a single JSON object.", `Return {"ok": true}`)
	if err != nil {
		t.Fatalf("GenerateContent failed: %v", err)
	}
	if !strings.Contains(resp.Content, "ok") {
		t.Errorf("unexpected content %q", resp.Content)
	}
	if resp.Usage.TotalTokens == 0 {
		t.Error("expected token usage to be reported")
	}
}
