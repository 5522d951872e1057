package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	estateErrors "github.com/viswa-prakash/estatebot/internal/errors"
	toolcore "github.com/viswa-prakash/estatebot/internal/tool"

	"golang.org/x/time/rate"
)

const (
	defaultCurrencyBaseURL = "https://www.alphavantage.co/query"
	defaultCurrencyRPM     = 5
)

var currencyCodeRe = regexp.MustCompile(`^[A-Z0-9]{3,10}$`)

type currencyInput struct {
	FromCurrency string `json:"from_currency"`
	ToCurrency   string `json:"to_currency"`
}

type alphaVantageRate struct {
	FromCode      string `json:"1. From_Currency Code"`
	FromName      string `json:"2. From_Currency Name"`
	ToCode        string `json:"3. To_Currency Code"`
	ToName        string `json:"4. To_Currency Name"`
	ExchangeRate  string `json:"5. Exchange Rate"`
	LastRefreshed string `json:"6. Last Refreshed"`
	TimeZone      string `json:"7. Time Zone"`
	BidPrice      string `json:"8. Bid Price"`
	AskPrice      string `json:"9. Ask Price"`
}

type alphaVantageResponse struct {
	Rate         *alphaVantageRate `json:"Realtime Currency Exchange Rate"`
	ErrorMessage string            `json:"Error Message"`
	Note         string            `json:"Note"`
	Information  string            `json:"Information"`
}

// CurrencyExchangeTool reads realtime exchange rates from Alpha Vantage.
type CurrencyExchangeTool struct {
	Client  *http.Client
	BaseURL string
	APIKey  string
	Limiter *rate.Limiter
}

func init() {
	toolcore.RegisterBuiltin("currency_exchange", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		timeout := options.CurrencyTimeout
		if timeout <= 0 {
			timeout = toolcore.DefaultBuiltinHTTPTimeout
		}
		baseURL := strings.TrimSpace(options.CurrencyBaseURL)
		if baseURL == "" {
			baseURL = defaultCurrencyBaseURL
		}
		rpm := options.CurrencyRequestsPerMinute
		if rpm <= 0 {
			rpm = defaultCurrencyRPM
		}

		return &CurrencyExchangeTool{
			Client:  &http.Client{Timeout: timeout},
			BaseURL: baseURL,
			APIKey:  options.CurrencyAPIKey,
			Limiter: NewRequestLimiter(rpm),
		}, nil
	})
}

// NewRequestLimiter allows rpm requests per minute with a burst of rpm.
func NewRequestLimiter(rpm int) *rate.Limiter {
	if rpm <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm)
}

func (t *CurrencyExchangeTool) Name() string {
	return "currency_exchange"
}

func (t *CurrencyExchangeTool) Description() string {
	return "Get the realtime exchange rate between two currencies (ISO codes such as USD, EUR, INR; crypto codes such as BTC also work)."
}

func (t *CurrencyExchangeTool) ToolMetadata() toolcore.ToolMetadata {
	return toolcore.ToolMetadata{
		Source: "builtin",
		Capabilities: []string{
			"finance.fx",
			"http.get",
		},
		Risk: toolcore.RiskLow,
	}
}

func (t *CurrencyExchangeTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"from_currency": map[string]interface{}{
				"type":        "string",
				"description": "Currency code to convert from, e.g. USD",
				"minLength":   1,
			},
			"to_currency": map[string]interface{}{
				"type":        "string",
				"description": "Currency code to convert to, e.g. EUR",
				"minLength":   1,
			},
		},
		"required": []string{"from_currency", "to_currency"},
	}
}

func (t *CurrencyExchangeTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var args currencyInput
	if err := json.Unmarshal(input, &args); err != nil {
		return nil, estateErrors.InvalidInput(fmt.Sprintf("currency_exchange arguments: %v", err))
	}
	from, err := normalizeCurrencyCode(args.FromCurrency)
	if err != nil {
		return nil, err
	}
	to, err := normalizeCurrencyCode(args.ToCurrency)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(t.APIKey) == "" {
		return nil, estateErrors.MissingCredential("currency_exchange requires ALPHA_VANTAGE_API_KEY")
	}

	if t.Limiter != nil {
		if err := t.Limiter.Wait(ctx); err != nil {
			return nil, estateErrors.Transient(fmt.Sprintf("exchange-rate request throttled: %v", err))
		}
	}

	client := t.Client
	if client == nil {
		client = &http.Client{Timeout: toolcore.DefaultBuiltinHTTPTimeout}
	}
	baseURL := t.BaseURL
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultCurrencyBaseURL
	}

	params := url.Values{}
	params.Set("function", "CURRENCY_EXCHANGE_RATE")
	params.Set("from_currency", from)
	params.Set("to_currency", to)
	params.Set("apikey", t.APIKey)

	body, err := getJSONBody(ctx, client, baseURL, params)
	if err != nil {
		return nil, err
	}

	var resp alphaVantageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, estateErrors.Upstream(fmt.Sprintf("decode exchange-rate response: %v", err))
	}

	switch {
	case resp.ErrorMessage != "":
		return nil, estateErrors.Upstream("exchange-rate lookup failed: " + resp.ErrorMessage)
	case resp.Note != "":
		return nil, estateErrors.Transient("exchange-rate service limit: " + resp.Note)
	case resp.Information != "":
		return nil, estateErrors.Upstream("exchange-rate service: " + resp.Information)
	case resp.Rate == nil || strings.TrimSpace(resp.Rate.ExchangeRate) == "":
		return nil, estateErrors.Upstream(fmt.Sprintf("no exchange rate returned for %s/%s", from, to))
	}

	r := resp.Rate
	return json.Marshal(map[string]string{
		"from_currency":  r.FromCode,
		"from_name":      r.FromName,
		"to_currency":    r.ToCode,
		"to_name":        r.ToName,
		"exchange_rate":  r.ExchangeRate,
		"bid_price":      r.BidPrice,
		"ask_price":      r.AskPrice,
		"last_refreshed": r.LastRefreshed,
		"time_zone":      r.TimeZone,
	})
}

func normalizeCurrencyCode(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if !currencyCodeRe.MatchString(normalized) {
		return "", estateErrors.InvalidInput(fmt.Sprintf("invalid currency code %q", code))
	}
	return normalized, nil
}
