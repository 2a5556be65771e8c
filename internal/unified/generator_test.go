package unified

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"unified-ai-chat/internal/domain/ports/adapter"
)

type fakeClient struct {
	reply string
	err   error
	calls int
	last  string
}

func (f *fakeClient) Generate(ctx context.Context, prompt string, uc adapter.UserContext) (string, error) {
	f.calls++
	f.last = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

var _ adapter.ProviderClient = (*fakeClient)(nil)

func newTestGenerator(mode Mode, clients map[string]adapter.ProviderClient) *Generator {
	log := zerolog.Nop()
	sim := NewSimulator(rand.New(rand.NewSource(1)))
	return NewGenerator(mode, DefaultProviders(), clients, sim, &log)
}

func TestAdjustPrompt(t *testing.T) {
	if got := adjustPrompt("你好", StyleFormal); got != "请以专业、严谨的方式回答：你好" {
		t.Fatalf("formal prompt = %q", got)
	}
	if got := adjustPrompt("你好", StyleCasual); got != "请以友好、轻松的方式回答：你好" {
		t.Fatalf("casual prompt = %q", got)
	}
	if got := adjustPrompt("你好", StyleCreative); got != "请以创新、富有想象力的方式回答：你好" {
		t.Fatalf("creative prompt = %q", got)
	}
	if got := adjustPrompt("你好", Style("unknown")); got != "你好" {
		t.Fatalf("unknown style should leave prompt unchanged, got %q", got)
	}
}

func TestGenerateSimulationMode(t *testing.T) {
	g := newTestGenerator(ModeSimulated, nil)
	replies := g.Generate(context.Background(), "测试消息", []string{ProviderDeepSeek, ProviderMiniMax}, "u1")
	if len(replies) != 2 {
		t.Fatalf("got %d replies, want 2", len(replies))
	}
	for _, r := range replies {
		// Simulator output is random: assert template-set membership,
		// rendered from the original (unadjusted) message.
		if !contains(Templates(r.Provider, "测试消息"), r.Text) {
			t.Fatalf("reply %q not in %s template set", r.Text, r.Provider)
		}
	}
}

func TestGenerateLiveCallUsesAdjustedPrompt(t *testing.T) {
	c := &fakeClient{reply: "live answer"}
	g := newTestGenerator(ModeLive, map[string]adapter.ProviderClient{ProviderDeepSeek: c})

	replies := g.Generate(context.Background(), "问题", []string{ProviderDeepSeek}, "u1")
	if len(replies) != 1 || replies[0].Text != "live answer" {
		t.Fatalf("unexpected replies: %+v", replies)
	}
	if c.last != "请以专业、严谨的方式回答：问题" {
		t.Fatalf("client got prompt %q, want style-prefixed prompt", c.last)
	}
	if replies[0].Prompt != c.last {
		t.Fatalf("Reply.Prompt = %q, want the prompt actually sent", replies[0].Prompt)
	}
}

func TestGenerateFailedCallFallsBackToSimulator(t *testing.T) {
	c := &fakeClient{err: adapter.NewCallError(ProviderMiniMax, adapter.KindTransport, errors.New("dial tcp: timeout"))}
	g := newTestGenerator(ModeLive, map[string]adapter.ProviderClient{ProviderMiniMax: c})

	replies := g.Generate(context.Background(), "你好", []string{ProviderMiniMax}, "u1")
	if len(replies) != 1 {
		t.Fatalf("got %d replies, want 1", len(replies))
	}
	if !contains(Templates(ProviderMiniMax, "你好"), replies[0].Text) {
		t.Fatalf("failed call should fall back to simulator, got %q", replies[0].Text)
	}
	if c.calls != 1 {
		t.Fatalf("client called %d times, want 1", c.calls)
	}
}

func TestGenerateMissingClientSimulates(t *testing.T) {
	// Live mode but only deepseek has a client: minimax simulates.
	c := &fakeClient{reply: "deep"}
	g := newTestGenerator(ModeLive, map[string]adapter.ProviderClient{ProviderDeepSeek: c})

	replies := g.Generate(context.Background(), "嗨", []string{ProviderDeepSeek, ProviderMiniMax}, "u1")
	if len(replies) != 2 {
		t.Fatalf("got %d replies, want 2", len(replies))
	}
	if replies[0].Text != "deep" {
		t.Fatalf("live reply = %q", replies[0].Text)
	}
	if !contains(Templates(ProviderMiniMax, "嗨"), replies[1].Text) {
		t.Fatalf("clientless provider should simulate, got %q", replies[1].Text)
	}
}

func TestSimulatorUnknownProvider(t *testing.T) {
	sim := NewSimulator(rand.New(rand.NewSource(1)))
	if got := sim.Reply("nope", "msg"); got != "AI回复：msg" {
		t.Fatalf("unknown provider reply = %q", got)
	}
}
