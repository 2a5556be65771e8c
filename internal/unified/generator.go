package unified

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"unified-ai-chat/internal/domain/ports/adapter"
	"unified-ai-chat/internal/infra/metrics"
)

// Mode is the operating mode, resolved once at startup and injected.
type Mode string

const (
	ModeLive      Mode = "live"
	ModeSimulated Mode = "simulated"
)

// Reply is one provider's contribution to a request. Transient; only used
// to build the integrated response.
type Reply struct {
	Provider    string
	Prompt      string // adjusted prompt actually sent
	Text        string
	Personality string
	Style       Style
}

// stylePrefixes are prepended to the user message before a live call.
var stylePrefixes = map[Style]string{
	StyleFormal:   "请以专业、严谨的方式回答：%s",
	StyleCasual:   "请以友好、轻松的方式回答：%s",
	StyleCreative: "请以创新、富有想象力的方式回答：%s",
}

// Generator produces one Reply per selected provider. Live-call failures
// degrade to the simulator for that provider only; the generator itself
// never fails.
type Generator struct {
	mode      Mode
	providers map[string]ProviderDescriptor
	clients   map[string]adapter.ProviderClient
	sim       *Simulator
	log       *zerolog.Logger
}

func NewGenerator(mode Mode, providers map[string]ProviderDescriptor, clients map[string]adapter.ProviderClient, sim *Simulator, log *zerolog.Logger) *Generator {
	return &Generator{mode: mode, providers: providers, clients: clients, sim: sim, log: log}
}

func (g *Generator) Generate(ctx context.Context, message string, selected []string, userID string) []Reply {
	replies := make([]Reply, 0, len(selected))
	for _, id := range selected {
		desc, ok := g.providers[id]
		if !ok {
			continue
		}
		adjusted := adjustPrompt(message, desc.Style)
		text := g.generateOne(ctx, id, desc, adjusted, message, userID)
		replies = append(replies, Reply{
			Provider:    id,
			Prompt:      adjusted,
			Text:        text,
			Personality: desc.Personality,
			Style:       desc.Style,
		})
	}
	return replies
}

func (g *Generator) generateOne(ctx context.Context, id string, desc ProviderDescriptor, prompt, message, userID string) string {
	if g.mode == ModeSimulated {
		metrics.IncSimulatedReply(id, "simulation_mode")
		return g.sim.Reply(id, message)
	}

	client, ok := g.clients[id]
	if !ok {
		metrics.IncSimulatedReply(id, "no_client")
		return g.sim.Reply(id, message)
	}

	start := time.Now()
	text, err := client.Generate(ctx, prompt, adapter.UserContext{
		UserID:    userID,
		StyleHint: string(desc.Style),
	})
	latency := int(time.Since(start).Milliseconds())
	metrics.ObserveProviderCall(id, latency, err == nil)
	if err != nil {
		g.log.Warn().Err(err).Str("provider", id).Msg("provider call failed, using simulator")
		metrics.IncSimulatedReply(id, "call_failed")
		return g.sim.Reply(id, message)
	}
	return text
}

// adjustPrompt prefixes the fixed style instruction; unknown styles leave
// the message unchanged.
func adjustPrompt(message string, style Style) string {
	tpl, ok := stylePrefixes[style]
	if !ok {
		return message
	}
	return fmt.Sprintf(tpl, message)
}
