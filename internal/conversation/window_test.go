package conversation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordEstimator counts whitespace separated words.
type wordEstimator struct{}

func (wordEstimator) Count(text string) int { return len(strings.Fields(text)) }

func longConversation() []Message {
	conv := New("first question")
	for i := 0; i < 3; i++ {
		conv.Append(AssistantMessage{Content: strings.Repeat("w ", 10), ToolCalls: []ToolCall{{ID: "c", Name: "t"}}})
		conv.messages = append(conv.messages, ToolResultMessage{CallID: "c", Content: strings.Repeat("r ", 10)})
	}
	conv.Append(AssistantMessage{Content: "final"})
	return conv.Messages()
}

func TestWindow_DisabledReturnsAll(t *testing.T) {
	msgs := longConversation()
	assert.Equal(t, msgs, NewWindow(0, wordEstimator{}).Select(msgs))
}

func TestWindow_FitsReturnsAll(t *testing.T) {
	msgs := longConversation()
	assert.Equal(t, msgs, NewWindow(10000, wordEstimator{}).Select(msgs))
}

func TestWindow_DropsOldestGroupsKeepsFirstMessage(t *testing.T) {
	msgs := longConversation()
	// each tool group costs 15+14 = 29, head 6, final 5
	out := NewWindow(45, wordEstimator{}).Select(msgs)

	require.Len(t, out, 4)
	assert.Equal(t, "first question", Text(out[0]))
	_, isAssistant := out[1].(AssistantMessage)
	assert.True(t, isAssistant)
	_, isResult := out[2].(ToolResultMessage)
	assert.True(t, isResult)
	assert.Equal(t, "final", Text(out[3]))
}

func TestWindow_NeverSplitsToolGroup(t *testing.T) {
	msgs := longConversation()
	for budget := 1; budget < 120; budget++ {
		out := NewWindow(budget, wordEstimator{}).Select(msgs)
		for i, m := range out {
			if _, ok := m.(ToolResultMessage); ok {
				require.Greater(t, i, 0)
				prev := out[i-1]
				_, okAsst := prev.(AssistantMessage)
				_, okRes := prev.(ToolResultMessage)
				assert.True(t, okAsst || okRes, "budget %d: orphaned tool result at %d", budget, i)
			}
		}
	}
}

func TestWindow_KeepsNewestGroupOverBudget(t *testing.T) {
	msgs := longConversation()
	out := NewWindow(1, wordEstimator{}).Select(msgs)

	require.Len(t, out, 2)
	assert.Equal(t, "final", Text(out[1]))
}

func TestHeuristicEstimator(t *testing.T) {
	assert.Equal(t, 0, HeuristicEstimator{}.Count(""))
	assert.Equal(t, 1, HeuristicEstimator{}.Count("abcd"))
	assert.Equal(t, 2, HeuristicEstimator{}.Count("abcde"))
}

func TestNewEstimator_EmptyEncodingUsesHeuristic(t *testing.T) {
	_, ok := NewEstimator("").(HeuristicEstimator)
	assert.True(t, ok)
}

func TestNewEstimator_LoadsEncodingOffline(t *testing.T) {
	est := NewEstimator("cl100k_base")
	_, ok := est.(*tiktokenEstimator)
	require.True(t, ok)
	assert.Equal(t, 2, est.Count("hello world"))
	assert.Same(t, est, NewEstimator("cl100k_base"))
}
