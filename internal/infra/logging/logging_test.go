package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestWithAttachesContextFields(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	ctx := WithTraceID(context.Background(), "trace-1")
	ctx = WithUserID(ctx, "user-1")
	ctx = WithSessID(ctx, "sess-1")

	With(ctx, &base).Info().Msg("request handled")

	out := buf.String()
	for _, want := range []string{`"trace_id":"trace-1"`, `"user_id":"user-1"`, `"session_id":"sess-1"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log line %q missing %s", out, want)
		}
	}
}

func TestWithEmptyContext(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	With(context.Background(), &base).Info().Msg("bare")

	out := buf.String()
	for _, field := range []string{"trace_id", "user_id", "session_id"} {
		if strings.Contains(out, field) {
			t.Fatalf("log line %q has unexpected field %s", out, field)
		}
	}
}

func TestTraceDurationLogsStartAndFinish(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	TraceDuration(&base, "ChatUC.SendMessage")()

	out := buf.String()
	if !strings.Contains(out, `"message":"start"`) || !strings.Contains(out, `"message":"finish"`) {
		t.Fatalf("trace output missing start/finish: %q", out)
	}
	if !strings.Contains(out, `"method":"ChatUC.SendMessage"`) {
		t.Fatalf("trace output missing method: %q", out)
	}
}
