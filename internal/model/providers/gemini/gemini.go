package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/viswa-prakash/estatebot/internal/model/contract"

	"google.golang.org/genai"
)

type Provider struct {
	client *genai.Client
}

func New(ctx context.Context, apiKey string) (*Provider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &Provider{client: client}, nil
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) Generate(ctx context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	var (
		system   []string
		contents []*genai.Content
	)

	for _, m := range req.Messages {
		switch m.Role {
		case contract.RoleSystem:
			system = append(system, m.Content)
		case contract.RoleTool:
			var obj map[string]any
			if err := json.Unmarshal([]byte(m.Content), &obj); err != nil || obj == nil {
				obj = map[string]any{"output": m.Content}
			}
			contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{{
				FunctionResponse: &genai.FunctionResponse{ID: m.ToolCallID, Name: m.Name, Response: obj},
			}}})
		case contract.RoleAssistant:
			var parts []*genai.Part
			if strings.TrimSpace(m.Content) != "" {
				parts = append(parts, &genai.Part{Text: m.Content})
			}
			for _, tc := range m.ToolCalls {
				var args map[string]any
				_ = json.Unmarshal([]byte(tc.Input), &args)
				parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{ID: tc.ID, Name: tc.Name, Args: args}})
			}
			if len(parts) > 0 {
				contents = append(contents, &genai.Content{Role: "model", Parts: parts})
			}
		default:
			contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: m.Content}}})
		}
	}

	genCfg := &genai.GenerateContentConfig{}
	if len(system) > 0 {
		genCfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: strings.Join(system, "\n\n")}}}
	}
	if req.Temperature > 0 {
		genCfg.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	if len(req.Tools) > 0 {
		var decls []*genai.FunctionDeclaration
		for _, t := range req.Tools {
			b, err := json.Marshal(t.Parameters)
			if err != nil {
				return nil, fmt.Errorf("gemini tool schema %s: %w", t.Name, err)
			}
			var schema genai.Schema
			if err := json.Unmarshal(b, &schema); err != nil {
				return nil, fmt.Errorf("gemini tool schema %s: %w", t.Name, err)
			}
			decls = append(decls, &genai.FunctionDeclaration{Name: t.Name, Description: t.Description, Parameters: &schema})
		}
		genCfg.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	resp, err := p.client.Models.GenerateContent(ctx, req.Model, contents, genCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	out := &contract.CompletionResponse{}
	if resp == nil {
		return out, nil
	}

	for _, fc := range resp.FunctionCalls() {
		argsJSON, err := json.Marshal(fc.Args)
		if err != nil {
			return nil, fmt.Errorf("gemini function args: %w", err)
		}
		id := fc.ID
		if id == "" {
			id = fmt.Sprintf("call_%d", len(out.ToolCalls)+1)
		}
		out.ToolCalls = append(out.ToolCalls, &contract.ToolCall{ID: id, Name: fc.Name, Input: string(argsJSON)})
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				out.Content += part.Text
			}
		}
	}

	return out, nil
}
