package mcp

import "fmt"

// toolArgs extracts the arguments map from an MCP request payload.
func toolArgs(raw any) (map[string]any, error) {
	argsMap, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid arguments format")
	}
	return argsMap, nil
}

// stringArg extracts a string argument. Required arguments must be
// present and non-empty.
func stringArg(argsMap map[string]any, key string, required bool) (string, error) {
	val, ok := argsMap[key]
	if !ok {
		if required {
			return "", fmt.Errorf("%s parameter is required", key)
		}
		return "", nil
	}
	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	if required && str == "" {
		return "", fmt.Errorf("%s cannot be empty", key)
	}
	return str, nil
}

// boolArg extracts a boolean argument, falling back to defaultVal.
func boolArg(argsMap map[string]any, key string, defaultVal bool) bool {
	if b, ok := argsMap[key].(bool); ok {
		return b
	}
	return defaultVal
}

// arrayArg extracts a string array argument. Non-string elements are
// dropped.
func arrayArg(argsMap map[string]any, key string) []string {
	arr, ok := argsMap[key].([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(arr))
	for _, item := range arr {
		if str, ok := item.(string); ok {
			result = append(result, str)
		}
	}
	return result
}

// clampedIntArg extracts an integer argument (MCP sends numbers as
// float64) clamped to [min, max].
func clampedIntArg(argsMap map[string]any, key string, defaultVal, min, max int) int {
	val := defaultVal
	if f, ok := argsMap[key].(float64); ok {
		val = int(f)
	}
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
