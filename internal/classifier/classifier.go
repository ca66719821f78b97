package classifier

import (
	"context"
	"math/rand"
	"strings"
	"sync"
)

// Input carries everything a labeling backend may inspect. Backends read
// nothing but their inputs.
type Input struct {
	FileName string
	Content  []byte
}

// Classifier proposes a label for an uploaded document. Implementations must
// return a label from the provided set or an empty string, never a label
// outside it. An empty label set always yields an empty label.
type Classifier interface {
	Classify(ctx context.Context, input Input, labels []string) (string, error)
}

// RandomChoice draws uniformly from the allowed labels. The random source is
// injected so callers can fix a seed and get deterministic picks.
type RandomChoice struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomChoice builds the default classifier from a random source.
func NewRandomChoice(src rand.Source) *RandomChoice {
	return &RandomChoice{rng: rand.New(src)}
}

// Classify picks one of the labels at random.
func (c *RandomChoice) Classify(ctx context.Context, input Input, labels []string) (string, error) {
	if len(labels) == 0 {
		return "", nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return labels[c.rng.Intn(len(labels))], nil
}

// RuleBased matches labels against the file name and textual content. The
// first label (in set order) found in either wins; no match yields an empty
// label.
type RuleBased struct{}

// NewRuleBased builds the keyword-matching classifier.
func NewRuleBased() *RuleBased {
	return &RuleBased{}
}

// Classify scans name and content for each allowed label.
func (c *RuleBased) Classify(ctx context.Context, input Input, labels []string) (string, error) {
	if len(labels) == 0 {
		return "", nil
	}
	name := strings.ToLower(input.FileName)
	content := strings.ToLower(string(input.Content))
	for _, label := range labels {
		needle := strings.ToLower(label)
		if strings.Contains(name, needle) || strings.Contains(content, needle) {
			return label, nil
		}
		// "driver_license.png" should still match "Driver License".
		compact := strings.ReplaceAll(needle, " ", "_")
		if strings.Contains(name, compact) {
			return label, nil
		}
	}
	return "", nil
}
