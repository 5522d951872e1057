package tool

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// ValidateInput checks if the JSON input matches the tool's parameter schema.
// This is a lightweight implementation of JSON Schema validation covering the
// keywords the built-in tools declare.
func ValidateInput(schema map[string]interface{}, input json.RawMessage) error {
	if len(strings.TrimSpace(string(input))) == 0 {
		input = json.RawMessage(`{}`)
	}

	var inputMap map[string]interface{}
	if err := json.Unmarshal(input, &inputMap); err != nil {
		return fmt.Errorf("invalid JSON input: arguments must be a JSON object: %w", err)
	}
	if inputMap == nil {
		inputMap = map[string]interface{}{}
	}

	return validateObject(schema, inputMap)
}

func validateObject(schema map[string]interface{}, input map[string]interface{}) error {
	for _, fieldName := range requiredFields(schema) {
		if v, exists := input[fieldName]; !exists || v == nil {
			return fmt.Errorf("missing required field: %s", fieldName)
		}
	}

	properties, ok := schema["properties"].(map[string]interface{})
	if !ok {
		return nil
	}

	for key, value := range input {
		propSchema, defined := properties[key]
		if !defined {
			continue
		}

		propSchemaMap, ok := propSchema.(map[string]interface{})
		if !ok {
			continue
		}

		if err := validateType(key, propSchemaMap, value); err != nil {
			return err
		}
	}

	return nil
}

func requiredFields(schema map[string]interface{}) []string {
	switch required := schema["required"].(type) {
	case []string:
		return required
	case []interface{}:
		fields := make([]string, 0, len(required))
		for _, field := range required {
			if name, ok := field.(string); ok {
				fields = append(fields, name)
			}
		}
		return fields
	default:
		return nil
	}
}

func validateType(fieldName string, schema map[string]interface{}, value interface{}) error {
	expectedType, ok := schema["type"].(string)
	if !ok {
		return nil
	}

	switch expectedType {
	case "string":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("field '%s' expected string, got %T", fieldName, value)
		}
		if minLen, ok := numberKeyword(schema, "minLength"); ok && float64(utf8.RuneCountInString(strings.TrimSpace(s))) < minLen {
			return fmt.Errorf("field '%s' must have at least %d characters", fieldName, int(minLen))
		}
	case "number", "integer":
		// JSON unmarshals numbers to float64
		n, ok := value.(float64)
		if !ok {
			return fmt.Errorf("field '%s' expected number, got %T", fieldName, value)
		}
		if expectedType == "integer" && n != math.Trunc(n) {
			return fmt.Errorf("field '%s' expected integer, got %v", fieldName, n)
		}
		if min, ok := numberKeyword(schema, "minimum"); ok && n < min {
			return fmt.Errorf("field '%s' must be >= %v", fieldName, min)
		}
		if min, ok := numberKeyword(schema, "exclusiveMinimum"); ok && n <= min {
			return fmt.Errorf("field '%s' must be > %v", fieldName, min)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("field '%s' expected boolean, got %T", fieldName, value)
		}
	case "array":
		arr, ok := value.([]interface{})
		if !ok {
			return fmt.Errorf("field '%s' expected array, got %T", fieldName, value)
		}
		if itemsSchema, ok := schema["items"].(map[string]interface{}); ok {
			for i, item := range arr {
				if err := validateType(fmt.Sprintf("%s[%d]", fieldName, i), itemsSchema, item); err != nil {
					return err
				}
			}
		}
	case "object":
		obj, ok := value.(map[string]interface{})
		if !ok {
			return fmt.Errorf("field '%s' expected object, got %T", fieldName, value)
		}
		return validateObject(schema, obj)
	}

	return nil
}

func numberKeyword(schema map[string]interface{}, key string) (float64, bool) {
	switch v := schema[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}
