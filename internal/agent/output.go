package agent

import (
	"encoding/json"
)

// toolOutputText unwraps JSON string outputs so the model sees plain text.
func toolOutputText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
