package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	estateErrors "github.com/viswa-prakash/estatebot/internal/errors"
	toolcore "github.com/viswa-prakash/estatebot/internal/tool"
)

const (
	defaultWebSearchBaseURL    = "https://serpapi.com/search"
	defaultWebSearchEngine     = "google"
	defaultWebSearchMaxResults = 5
	maxWebSearchResultsHardCap = 10
	maxSnippetRunes            = 400
)

type webSearchInput struct {
	Query      string `json:"query"`
	Location   string `json:"location"`
	MaxResults int    `json:"max_results"`
}

type serpAPIResponse struct {
	Error     string `json:"error"`
	AnswerBox *struct {
		Title   string `json:"title"`
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
	} `json:"answer_box"`
	KnowledgeGraph *struct {
		Title       string `json:"title"`
		Type        string `json:"type"`
		Description string `json:"description"`
	} `json:"knowledge_graph"`
	OrganicResults []struct {
		Position int    `json:"position"`
		Title    string `json:"title"`
		Link     string `json:"link"`
		Snippet  string `json:"snippet"`
		Date     string `json:"date"`
	} `json:"organic_results"`
}

type webSearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
	Date    string `json:"date,omitempty"`
}

// WebSearchTool queries SerpAPI for listings, prices and market news.
type WebSearchTool struct {
	Client     *http.Client
	BaseURL    string
	APIKey     string
	Engine     string
	MaxResults int
}

func init() {
	toolcore.RegisterBuiltin("web_search", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		timeout := options.SearchTimeout
		if timeout <= 0 {
			timeout = toolcore.DefaultBuiltinHTTPTimeout
		}
		baseURL := strings.TrimSpace(options.SearchBaseURL)
		if baseURL == "" {
			baseURL = defaultWebSearchBaseURL
		}
		engine := strings.TrimSpace(options.SearchEngine)
		if engine == "" {
			engine = defaultWebSearchEngine
		}
		maxResults := options.SearchMaxResults
		if maxResults <= 0 {
			maxResults = defaultWebSearchMaxResults
		}

		return &WebSearchTool{
			Client:     &http.Client{Timeout: timeout},
			BaseURL:    baseURL,
			APIKey:     options.SearchAPIKey,
			Engine:     engine,
			MaxResults: maxResults,
		}, nil
	})
}

func (t *WebSearchTool) Name() string {
	return "web_search"
}

func (t *WebSearchTool) Description() string {
	return "Search the web for properties, prices, market trends and real-estate news. Returns a direct answer when available plus the top results."
}

func (t *WebSearchTool) ToolMetadata() toolcore.ToolMetadata {
	return toolcore.ToolMetadata{
		Source: "builtin",
		Capabilities: []string{
			"web.search",
			"research.market",
			"http.get",
		},
		Risk: toolcore.RiskLow,
	}
}

func (t *WebSearchTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "Search query text",
				"minLength":   1,
			},
			"location": map[string]interface{}{
				"type":        "string",
				"description": "Optional location to search from (e.g. \"Austin, Texas\")",
			},
			"max_results": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum number of results to return (default 5, max 10)",
			},
		},
		"required": []string{"query"},
	}
}

func (t *WebSearchTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var args webSearchInput
	if err := json.Unmarshal(input, &args); err != nil {
		return nil, estateErrors.InvalidInput(fmt.Sprintf("web_search arguments: %v", err))
	}
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return nil, estateErrors.InvalidInput("query is required")
	}
	if strings.TrimSpace(t.APIKey) == "" {
		return nil, estateErrors.MissingCredential("web_search requires SERPAPI_API_KEY")
	}

	maxResults := effectiveMaxResults(args.MaxResults, t.MaxResults)

	params := url.Values{}
	params.Set("engine", t.engine())
	params.Set("q", query)
	params.Set("num", strconv.Itoa(maxResults))
	params.Set("api_key", t.APIKey)
	if loc := strings.TrimSpace(args.Location); loc != "" {
		params.Set("location", loc)
	}

	client := t.Client
	if client == nil {
		client = &http.Client{Timeout: toolcore.DefaultBuiltinHTTPTimeout}
	}
	baseURL := t.BaseURL
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultWebSearchBaseURL
	}

	body, err := getJSONBody(ctx, client, baseURL, params)
	var parsed serpAPIResponse
	if len(body) > 0 {
		if jsonErr := json.Unmarshal(body, &parsed); jsonErr != nil && err == nil {
			return nil, estateErrors.Upstream(fmt.Sprintf("decode search response: %v", jsonErr))
		}
	}
	if parsed.Error != "" {
		return nil, estateErrors.Upstream("search failed: " + parsed.Error)
	}
	if err != nil {
		return nil, err
	}

	return json.Marshal(summarizeSearch(query, parsed, maxResults))
}

func (t *WebSearchTool) engine() string {
	if strings.TrimSpace(t.Engine) == "" {
		return defaultWebSearchEngine
	}
	return t.Engine
}

func summarizeSearch(query string, resp serpAPIResponse, maxResults int) map[string]interface{} {
	out := map[string]interface{}{"query": query}

	if ab := resp.AnswerBox; ab != nil {
		switch {
		case strings.TrimSpace(ab.Answer) != "":
			out["answer"] = strings.TrimSpace(ab.Answer)
		case strings.TrimSpace(ab.Snippet) != "":
			out["answer"] = truncateRunes(strings.TrimSpace(ab.Snippet), maxSnippetRunes)
		}
	}
	if kg := resp.KnowledgeGraph; kg != nil && strings.TrimSpace(kg.Description) != "" {
		out["knowledge_graph"] = map[string]string{
			"title":       kg.Title,
			"type":        kg.Type,
			"description": truncateRunes(strings.TrimSpace(kg.Description), maxSnippetRunes),
		}
	}

	results := make([]webSearchResult, 0, maxResults)
	for _, r := range resp.OrganicResults {
		if len(results) >= maxResults {
			break
		}
		if strings.TrimSpace(r.Link) == "" {
			continue
		}
		results = append(results, webSearchResult{
			Title:   strings.TrimSpace(r.Title),
			URL:     r.Link,
			Snippet: truncateRunes(strings.TrimSpace(r.Snippet), maxSnippetRunes),
			Date:    r.Date,
		})
	}
	out["results"] = results

	if _, ok := out["answer"]; !ok && len(results) == 0 {
		if _, ok := out["knowledge_graph"]; !ok {
			out["message"] = "No good search result found"
		}
	}
	return out
}

func effectiveMaxResults(requested int, toolDefault int) int {
	value := requested
	if value <= 0 {
		value = toolDefault
	}
	if value <= 0 {
		value = defaultWebSearchMaxResults
	}
	if value > maxWebSearchResultsHardCap {
		value = maxWebSearchResultsHardCap
	}
	return value
}
