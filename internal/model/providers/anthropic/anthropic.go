package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/viswa-prakash/estatebot/internal/model/contract"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultMaxTokens = 1024

type Provider struct {
	client anthropic.Client
}

func New(apiKey, baseURL string) *Provider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Provider{client: anthropic.NewClient(opts...)}
}

func (p *Provider) Name() string {
	return "anthropic"
}

func (p *Provider) Generate(ctx context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	system, messages := buildMessages(req.Messages)

	var tools []anthropic.ToolUnionParam
	for _, t := range req.Tools {
		schema := anthropic.ToolInputSchemaParam{Properties: map[string]interface{}{}}
		if props, ok := t.Parameters["properties"].(map[string]interface{}); ok {
			schema.Properties = props
		}
		if required, ok := t.Parameters["required"].([]string); ok {
			schema.Required = required
		}
		tool := anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: schema,
		}
		tools = append(tools, anthropic.ToolUnionParam{OfTool: &tool})
	}

	modelName := req.Model
	if modelName == "" {
		modelName = string(anthropic.ModelClaude3_7SonnetLatest)
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(modelName),
		MaxTokens: int64(maxTokens),
		System:    system,
		Messages:  messages,
		Tools:     tools,
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}

	resp := &contract.CompletionResponse{}
	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			resp.Content += b.Text
		case anthropic.ToolUseBlock:
			inputJSON, err := json.Marshal(b.Input)
			if err != nil {
				return nil, fmt.Errorf("anthropic tool input: %w", err)
			}
			resp.ToolCalls = append(resp.ToolCalls, &contract.ToolCall{
				ID:    b.ID,
				Name:  b.Name,
				Input: string(inputJSON),
			})
		}
	}

	return resp, nil
}

func buildMessages(msgs []contract.Message) ([]anthropic.TextBlockParam, []anthropic.MessageParam) {
	var (
		system   []anthropic.TextBlockParam
		messages []anthropic.MessageParam
		results  []anthropic.ContentBlockParamUnion
	)

	// Tool results for one assistant turn must travel in a single user message.
	flushResults := func() {
		if len(results) > 0 {
			messages = append(messages, anthropic.NewUserMessage(results...))
			results = nil
		}
	}

	for _, m := range msgs {
		if m.Role == contract.RoleTool {
			results = append(results, anthropic.NewToolResultBlock(m.ToolCallID, m.Content, m.IsError))
			continue
		}
		flushResults()

		switch m.Role {
		case contract.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		case contract.RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			if strings.TrimSpace(m.Content) != "" {
				blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			}
			for _, tc := range m.ToolCalls {
				var input map[string]interface{}
				if err := json.Unmarshal([]byte(tc.Input), &input); err != nil || input == nil {
					input = map[string]interface{}{}
				}
				blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, input, tc.Name))
			}
			if len(blocks) > 0 {
				messages = append(messages, anthropic.NewAssistantMessage(blocks...))
			}
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	flushResults()
	return system, messages
}
