package unified

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"unified-ai-chat/internal/domain/ports/adapter"
	"unified-ai-chat/internal/infra/metrics"
)

// Result is the caller-facing shape of one orchestrated request.
type Result struct {
	Response      string    `json:"response"`
	ProvidersUsed []string  `json:"ai_models_used"`
	Context       Context   `json:"context"`
	Timestamp     time.Time `json:"timestamp"`
}

// ModelsInfo describes the configured provider set for the models endpoint.
type ModelsInfo struct {
	Models            map[string]ProviderDescriptor `json:"models"`
	TotalModels       int                           `json:"total_models"`
	Description       string                        `json:"description"`
	SimulationMode    bool                          `json:"simulation_mode"`
	AvailableServices []string                      `json:"available_services"`
}

// preferenceStore is the in-memory per-session preference map. Nothing is
// persisted; losing it on restart is acceptable.
type preferenceStore struct {
	mu sync.RWMutex
	m  map[string]map[string]any
}

func (p *preferenceStore) Get(sessionID string) (map[string]any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	prefs, ok := p.m[sessionID]
	return prefs, ok
}

func (p *preferenceStore) set(sessionID string, prefs map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m[sessionID] = prefs
}

// Service composes analyzer, selector, generator, integrator and history
// into one request/response cycle. It is the only entry point the web and
// socket layers call. All state is owned by the instance; there are no
// package-level registries.
type Service struct {
	providers map[string]ProviderDescriptor
	clients   map[string]adapter.ProviderClient
	mode      Mode

	analyzer  *Analyzer
	selector  *Selector
	generator *Generator
	history   *HistoryStore
	prefs     *preferenceStore

	log *zerolog.Logger
}

// New builds the orchestrator. clients may be empty; combined with
// ModeSimulated that is the fully-local configuration. The rand source
// seeds both the selector's diversity roll and the simulator's template
// pick; pass a seeded source in tests.
func New(mode Mode, clients map[string]adapter.ProviderClient, rng *rand.Rand, log *zerolog.Logger) *Service {
	if clients == nil {
		clients = map[string]adapter.ProviderClient{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	providers := DefaultProviders()
	sim := NewSimulator(rng)
	return &Service{
		providers: providers,
		clients:   clients,
		mode:      mode,
		analyzer:  NewAnalyzer(),
		selector:  NewSelector(rng),
		generator: NewGenerator(mode, providers, clients, sim, log),
		history:   NewHistoryStore(),
		prefs:     &preferenceStore{m: map[string]map[string]any{}},
		log:       log,
	}
}

// Handle runs one full orchestration cycle. It never returns an error:
// any failure is absorbed into a fallback reply so the end user always
// sees a plausible response.
func (s *Service) Handle(ctx context.Context, message, sessionID, userID string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Str("session_id", sessionID).Msg("orchestration failed")
			res = s.fallback(message, fmt.Sprintf("%v", r))
		}
	}()

	actx := s.analyzer.Analyze(message, sessionID, s.history, s.prefs)
	selected := s.selector.Select(actx, s.available())
	if len(selected) == 0 {
		return s.fallback(message, "no providers available")
	}
	for _, id := range selected {
		metrics.IncProviderSelected(id)
	}

	replies := s.generator.Generate(ctx, message, selected, userID)
	response := Integrate(replies, s.providers)

	s.history.Append(sessionID, Turn{
		UserMessage: message,
		AIResponse:  response,
		Context:     actx,
		Timestamp:   time.Now().UTC(),
	})

	return Result{
		Response:      response,
		ProvidersUsed: selected,
		Context:       actx,
		Timestamp:     time.Now().UTC(),
	}
}

// available lists the providers the selector may pick: every configured
// descriptor in simulation mode, otherwise only those with a live client.
func (s *Service) available() []string {
	if s.mode == ModeSimulated {
		return append([]string(nil), providerOrder...)
	}
	out := make([]string, 0, len(s.clients))
	for _, id := range providerOrder {
		if _, ok := s.clients[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func (s *Service) fallback(message, reason string) Result {
	metrics.IncOrchestrationFallback()
	return Result{
		Response:      fmt.Sprintf("抱歉，我遇到了一些问题。让我重新思考一下：%s", message),
		ProvidersUsed: []string{ProviderFallback},
		Context:       Context{Error: reason, History: []Turn{}},
		Timestamp:     time.Now().UTC(),
	}
}

// SetPreferences stores a per-session preference blob for later analysis.
func (s *Service) SetPreferences(sessionID string, prefs map[string]any) {
	if len(prefs) == 0 {
		return
	}
	s.prefs.set(sessionID, prefs)
}

// History returns the session's in-memory turn log.
func (s *Service) History(sessionID string) []Turn {
	return s.history.Get(sessionID)
}

// Info reports the descriptor table and operating mode.
func (s *Service) Info() ModelsInfo {
	services := make([]string, 0, len(s.clients))
	for _, id := range providerOrder {
		if _, ok := s.clients[id]; ok {
			services = append(services, id)
		}
	}
	return ModelsInfo{
		Models:            s.providers,
		TotalModels:       len(s.providers),
		Description:       "统一AI服务整合了多个AI模型，提供多样化的聊天体验",
		SimulationMode:    s.mode == ModeSimulated,
		AvailableServices: services,
	}
}
