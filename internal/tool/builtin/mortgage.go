package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	estateErrors "github.com/viswa-prakash/estatebot/internal/errors"
	"github.com/viswa-prakash/estatebot/internal/mortgage"
	toolcore "github.com/viswa-prakash/estatebot/internal/tool"
)

type mortgageInput struct {
	Loan  *float64 `json:"loan"`
	Rate  *float64 `json:"rate"`
	Years *float64 `json:"years"`
}

// MortgageCalculatorTool computes the monthly payment of a fixed-rate loan.
type MortgageCalculatorTool struct{}

func init() {
	toolcore.RegisterBuiltin("mortgage_calculator", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		return &MortgageCalculatorTool{}, nil
	})
}

func (t *MortgageCalculatorTool) Name() string {
	return "mortgage_calculator"
}

func (t *MortgageCalculatorTool) Description() string {
	return "Calculate the monthly payment of a fixed-rate mortgage from the loan amount, the annual interest rate in percent and the term in years."
}

func (t *MortgageCalculatorTool) ToolMetadata() toolcore.ToolMetadata {
	return toolcore.ToolMetadata{
		Source:       "builtin",
		Capabilities: []string{"math.compute", "finance.mortgage"},
		Risk:         toolcore.RiskLow,
	}
}

func (t *MortgageCalculatorTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"loan": map[string]interface{}{
				"type":             "number",
				"description":      "Loan principal",
				"exclusiveMinimum": 0,
			},
			"rate": map[string]interface{}{
				"type":        "number",
				"description": "Annual interest rate in percent, e.g. 7 for 7%",
				"minimum":     0,
			},
			"years": map[string]interface{}{
				"type":             "number",
				"description":      "Loan term in years",
				"exclusiveMinimum": 0,
			},
		},
		"required": []string{"loan", "rate", "years"},
	}
}

func (t *MortgageCalculatorTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var args mortgageInput
	if err := json.Unmarshal(input, &args); err != nil {
		return nil, estateErrors.InvalidInput(fmt.Sprintf("mortgage_calculator arguments: %v", err))
	}

	var missing []string
	if args.Loan == nil {
		missing = append(missing, "loan")
	}
	if args.Rate == nil {
		missing = append(missing, "rate")
	}
	if args.Years == nil {
		missing = append(missing, "years")
	}
	if len(missing) > 0 {
		return nil, estateErrors.InvalidInput("missing " + strings.Join(missing, ", "))
	}

	summary, err := mortgage.Summarize(mortgage.Loan{Principal: *args.Loan, AnnualRatePercent: *args.Rate, Years: *args.Years})
	if err != nil {
		return nil, err
	}

	return json.Marshal(fmt.Sprintf("Monthly Payment: $%.2f\nTotal of %d payments: $%.2f\nTotal interest: $%.2f",
		summary.MonthlyPayment, summary.Payments, summary.TotalPaid, summary.TotalInterest))
}
