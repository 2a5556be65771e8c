package unified

import (
	"fmt"
	"math/rand"
	"sync"
)

// simulatorTemplates holds the fixed reply templates per provider; %s is
// replaced with the original (unadjusted) user message.
var simulatorTemplates = map[string][]string{
	ProviderDeepSeek: {
		"从技术角度来看，%s 这个问题需要深入分析。",
		"基于我的理解，%s 涉及多个层面的考虑。",
		"让我从逻辑角度分析一下：%s",
		"这个问题很有趣，%s 让我为您详细解释。",
		"从专业角度来说，%s 需要综合考虑多个因素。",
		"根据我的分析，%s 可以从以下几个维度来理解。",
		"从技术层面看，%s 是一个值得深入研究的话题。",
	},
	ProviderMiniMax: {
		"哈哈，%s 这个问题很有意思呢！",
		"我理解您的想法，%s 确实值得讨论。",
		"谢谢您分享这个想法，%s 让我想想...",
		"哇，%s 这个想法很棒！",
		"我完全理解您的感受，%s 我们一起探讨一下吧！",
		"这真是个有趣的问题，%s 让我来帮您分析一下。",
		"我很高兴您问这个问题，%s 让我为您详细解答。",
	},
	ProviderStepChat: {
		"✨ 关于 %s，我有一个创意想法！",
		"🌟 让我们用全新的视角来看待 %s",
		"💡 这让我想到了一个有趣的解决方案：%s",
		"🎨 从艺术的角度，%s 可以这样理解...",
		"🚀 让我们跳出常规思维，%s 其实可以这样思考...",
		"🌈 这是一个充满可能性的问题，%s 让我为您展开想象！",
		"🎭 从创意的角度看，%s 有很多有趣的可能性。",
	},
}

// Simulator produces deterministic-template replies without calling any
// provider. The template choice is uniform-random; seed the source in tests.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulator(rng *rand.Rand) *Simulator {
	return &Simulator{rng: rng}
}

// Reply renders one template for the provider with the original message.
func (s *Simulator) Reply(providerID, message string) string {
	templates, ok := simulatorTemplates[providerID]
	if !ok {
		return fmt.Sprintf("AI回复：%s", message)
	}
	s.mu.Lock()
	i := s.rng.Intn(len(templates))
	s.mu.Unlock()
	return fmt.Sprintf(templates[i], message)
}

// Templates returns the provider's template set rendered with message.
// Tests assert membership against this set rather than exact strings.
func Templates(providerID, message string) []string {
	templates, ok := simulatorTemplates[providerID]
	if !ok {
		return []string{fmt.Sprintf("AI回复：%s", message)}
	}
	out := make([]string, 0, len(templates))
	for _, t := range templates {
		out = append(out, fmt.Sprintf(t, message))
	}
	return out
}
