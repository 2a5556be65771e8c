package unified

import (
	"math/rand"
	"sync"
)

// diversityChance is the probability of appending a second provider when
// exactly one was selected by the fixed rules.
const diversityChance = 0.3

// Selector maps an analyzed context plus the available provider set to an
// ordered list of providers to invoke. The same provider may appear twice
// (deliberate diversity weighting); callers must tolerate duplicates.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector builds a selector around the given random source. rng must
// not be shared with other users; the selector serializes access itself.
func NewSelector(rng *rand.Rand) *Selector {
	return &Selector{rng: rng}
}

// Select applies the fixed rule order. The result is never empty when
// available is non-empty, and empty iff available is empty.
func (s *Selector) Select(c Context, available []string) []string {
	var selected []string

	// 1. Complex questions go to the deep-reasoning provider.
	if c.Complexity == ComplexityComplex && contains(available, ProviderDeepSeek) {
		selected = append(selected, ProviderDeepSeek)
	}

	// 2. Positive sentiment gets the friendly provider, negative gets the
	// creative one for a fresh angle.
	switch c.Sentiment {
	case SentimentPositive:
		if contains(available, ProviderMiniMax) {
			selected = append(selected, ProviderMiniMax)
		}
	case SentimentNegative:
		if contains(available, ProviderStepChat) {
			selected = append(selected, ProviderStepChat)
		}
	}

	// 3. Topic routing; may duplicate rule 1's pick.
	switch c.Topic {
	case "technology":
		if contains(available, ProviderDeepSeek) {
			selected = append(selected, ProviderDeepSeek)
		}
	case "entertainment":
		if contains(available, ProviderStepChat) {
			selected = append(selected, ProviderStepChat)
		}
	}

	// 4. Guarantee at least one provider, by fixed priority.
	if len(selected) == 0 {
		for _, id := range []string{ProviderMiniMax, ProviderDeepSeek, ProviderStepChat} {
			if contains(available, id) {
				selected = append(selected, id)
				break
			}
		}
	}

	// 5. Occasionally add a second provider for diversity.
	if len(selected) == 1 {
		s.mu.Lock()
		roll := s.rng.Float64()
		var pick = -1
		remaining := remainingOf(available, selected)
		if roll < diversityChance && len(remaining) > 0 {
			pick = s.rng.Intn(len(remaining))
		}
		s.mu.Unlock()
		if pick >= 0 {
			selected = append(selected, remaining[pick])
		}
	}

	return selected
}

func contains(set []string, id string) bool {
	for _, s := range set {
		if s == id {
			return true
		}
	}
	return false
}

func remainingOf(available, selected []string) []string {
	var out []string
	for _, id := range available {
		if !contains(selected, id) {
			out = append(out, id)
		}
	}
	return out
}
