package unified

// Style drives prompt prefixing and simulator template selection.
type Style string

const (
	StyleFormal   Style = "formal"
	StyleCasual   Style = "casual"
	StyleCreative Style = "creative"
)

// Provider identifiers. The set is closed: selection rules reference these
// ids directly (deepseek = deep reasoning, minimax = friendly, stepchat =
// creative). "fallback" is a pseudo-id reported when orchestration fails.
const (
	ProviderDeepSeek = "deepseek"
	ProviderMiniMax  = "minimax"
	ProviderStepChat = "stepchat"
	ProviderFallback = "fallback"
)

// ProviderDescriptor is static per-vendor configuration, loaded once at
// startup and immutable thereafter.
type ProviderDescriptor struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Personality string  `json:"personality"`
	Style       Style   `json:"style"`
	Temperature float64 `json:"temperature"`
}

// providerOrder fixes iteration order everywhere a deterministic walk over
// the descriptor table is needed (maps don't keep one).
var providerOrder = []string{ProviderDeepSeek, ProviderMiniMax, ProviderStepChat}

// DefaultProviders returns the built-in descriptor table.
func DefaultProviders() map[string]ProviderDescriptor {
	return map[string]ProviderDescriptor{
		ProviderDeepSeek: {
			ID:          ProviderDeepSeek,
			Name:        "DeepSeek",
			Description: "深度思考型AI，擅长逻辑分析和复杂推理",
			Personality: "严谨、理性、善于分析",
			Style:       StyleFormal,
			Temperature: 0.7,
		},
		ProviderMiniMax: {
			ID:          ProviderMiniMax,
			Name:        "MiniMax",
			Description: "友好对话型AI，擅长日常交流和情感表达",
			Personality: "友好、幽默、善于倾听",
			Style:       StyleCasual,
			Temperature: 0.8,
		},
		ProviderStepChat: {
			ID:          ProviderStepChat,
			Name:        "StepChat",
			Description: "创意灵感型AI，擅长创新思维和艺术表达",
			Personality: "创意、开放、富有想象力",
			Style:       StyleCreative,
			Temperature: 0.9,
		},
	}
}
