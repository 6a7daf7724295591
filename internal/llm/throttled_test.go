package llm

import (
	"context"
	"testing"
	"time"
)

type stubTextGenerator struct {
	calls int
}

func (s *stubTextGenerator) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	s.calls++
	return ContentResponse{Content: "ok"}, nil
}

func TestThrottledTextGenerator(t *testing.T) {
	t.Run("PassesThrough", func(t *testing.T) {
		stub := &stubTextGenerator{}
		gen := NewThrottledTextGenerator(stub, 60)

		resp, err := gen.GenerateContent(context.Background(), "hello")
		if err != nil {
			t.Fatalf("GenerateContent failed: %v", err)
		}
		if resp.Content != "ok" {
			t.Errorf("Expected content 'ok', got '%s'", resp.Content)
		}
		if stub.calls != 1 {
			t.Errorf("Expected 1 call to the real generator, got %d", stub.calls)
		}
	})

	t.Run("WaitBoundedByContext", func(t *testing.T) {
		stub := &stubTextGenerator{}
		gen := NewThrottledTextGenerator(stub, 1)

		// First call drains the bucket.
		if _, err := gen.GenerateContent(context.Background(), "first"); err != nil {
			t.Fatalf("First call failed: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := gen.GenerateContent(ctx, "second")
		if err == nil {
			t.Fatal("Expected an error when the context expires before capacity frees up, got nil")
		}
		if stub.calls != 1 {
			t.Errorf("Expected the real generator to not be called again, got %d calls", stub.calls)
		}
	})
}
