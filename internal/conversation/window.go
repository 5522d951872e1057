package conversation

import (
	"log/slog"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// Encodings are read from the files embedded in the loader, never fetched.
func init() {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// perMessageOverhead approximates the role and framing tokens chat APIs add.
const perMessageOverhead = 4

// Estimator counts tokens for a piece of text.
type Estimator interface {
	Count(text string) int
}

type tiktokenEstimator struct {
	enc *tiktoken.Tiktoken
}

func (e *tiktokenEstimator) Count(text string) int {
	return len(e.enc.Encode(text, nil, nil))
}

// HeuristicEstimator assumes four characters per token.
type HeuristicEstimator struct{}

func (HeuristicEstimator) Count(text string) int {
	return (len(text) + 3) / 4
}

var (
	estimatorMu    sync.Mutex
	estimatorCache = map[string]Estimator{}
)

// NewEstimator loads the named tiktoken encoding, falling back to the
// character heuristic when the encoding cannot be loaded.
func NewEstimator(encoding string) Estimator {
	if encoding == "" {
		return HeuristicEstimator{}
	}

	estimatorMu.Lock()
	defer estimatorMu.Unlock()

	if est, ok := estimatorCache[encoding]; ok {
		return est
	}

	var est Estimator
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		slog.Warn("Token encoding unavailable, using heuristic estimate", "encoding", encoding, "error", err)
		est = HeuristicEstimator{}
	} else {
		est = &tiktokenEstimator{enc: enc}
	}
	estimatorCache[encoding] = est
	return est
}

// Window selects the part of a conversation that is sent to the model.
type Window struct {
	budget    int
	estimator Estimator
}

// NewWindow returns a window holding at most budget tokens. A budget of
// zero or less disables windowing.
func NewWindow(budget int, estimator Estimator) *Window {
	if estimator == nil {
		estimator = HeuristicEstimator{}
	}
	return &Window{budget: budget, estimator: estimator}
}

// Select returns the messages to send. The first message is always kept.
// Older groups are dropped from the front until the rest fits; an assistant
// message and its tool results form one group. The newest group is kept
// even when it alone exceeds the budget.
func (w *Window) Select(msgs []Message) []Message {
	if w == nil || w.budget <= 0 || len(msgs) <= 1 {
		return msgs
	}

	head := msgs[0]
	groups := group(msgs[1:])

	costs := make([]int, len(groups))
	total := w.cost(head)
	for i, g := range groups {
		for _, m := range g {
			costs[i] += w.cost(m)
		}
		total += costs[i]
	}

	start := 0
	for total > w.budget && start < len(groups)-1 {
		total -= costs[start]
		start++
	}
	if start == 0 {
		return msgs
	}

	slog.Debug("History windowed", "dropped_groups", start, "kept_groups", len(groups)-start, "tokens", total, "budget", w.budget)

	out := []Message{head}
	for _, g := range groups[start:] {
		out = append(out, g...)
	}
	return out
}

func (w *Window) cost(m Message) int {
	n := perMessageOverhead + w.estimator.Count(m.Text())
	if asst, ok := m.(AssistantMessage); ok {
		for _, tc := range asst.ToolCalls {
			n += w.estimator.Count(tc.Name) + w.estimator.Count(string(tc.Arguments))
		}
	}
	return n
}

// group splits messages so that tool results stay with the assistant
// message that requested them.
func group(msgs []Message) [][]Message {
	var groups [][]Message
	for _, m := range msgs {
		if _, ok := m.(ToolResultMessage); ok && len(groups) > 0 {
			groups[len(groups)-1] = append(groups[len(groups)-1], m)
			continue
		}
		groups = append(groups, []Message{m})
	}
	return groups
}
