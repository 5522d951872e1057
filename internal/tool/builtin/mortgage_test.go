package builtin

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	estateErrors "github.com/viswa-prakash/estatebot/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMortgageCalculatorTool_Execute(t *testing.T) {
	tool := &MortgageCalculatorTool{}

	raw, err := tool.Execute(context.Background(), json.RawMessage(`{"loan":500000,"rate":7,"years":25}`))
	require.NoError(t, err)

	var out string
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.True(t, strings.HasPrefix(out, "Monthly Payment: $3533.90\n"), out)
	assert.Contains(t, out, "Total of 300 payments")
}

func TestMortgageCalculatorTool_Execute_ZeroRate(t *testing.T) {
	tool := &MortgageCalculatorTool{}

	raw, err := tool.Execute(context.Background(), json.RawMessage(`{"loan":300000,"rate":0,"years":30}`))
	require.NoError(t, err)

	var out string
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.True(t, strings.HasPrefix(out, "Monthly Payment: $833.33\n"), out)
	assert.Contains(t, out, "Total interest: $0.00")
}

func TestMortgageCalculatorTool_Execute_Invalid(t *testing.T) {
	tool := &MortgageCalculatorTool{}

	for _, input := range []string{
		`{"loan":500000,"rate":7}`,
		`{"loan":0,"rate":7,"years":25}`,
		`{"loan":1000,"rate":-2,"years":25}`,
		`{"loan":"lots","rate":7,"years":25}`,
	} {
		_, err := tool.Execute(context.Background(), json.RawMessage(input))
		require.Error(t, err, input)
		assert.True(t, errors.Is(err, estateErrors.ErrInvalidInput), input)
	}
}
