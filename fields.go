package sgv

import (
	"fmt"
	"time"
)

// typed field extraction from decoded JSON objects. encoding/json hands us
// map[string]interface{} with float64 numbers; these helpers validate
// presence and type upfront so the record builders stay flat.

func getStringRequired(parent map[string]interface{}, key string) (string, error) {
	if _, exists := parent[key]; !exists {
		return "", &MissingFieldError{Field: key}
	}

	if typed, ok := parent[key].(string); !ok {
		return "", fmt.Errorf("Expecting a string value for key %s, got '%T' instead", key, parent[key])
	} else {
		return typed, nil
	}
}

func getStringOptional(parent map[string]interface{}, key string) *string {
	if _, exists := parent[key]; exists {
		if value, ok := parent[key].(string); ok {
			return &value
		}
		if parent[key] != nil {
			Log.Warnf("Expecting a string value for key %s, got '%T' instead", key, parent[key])
		}
	}
	return nil
}

func getBoolRequired(parent map[string]interface{}, key string) (bool, error) {
	if _, exists := parent[key]; !exists {
		return false, &MissingFieldError{Field: key}
	}

	if typed, ok := parent[key].(bool); !ok {
		return false, fmt.Errorf("Expecting a bool value for key %s, got '%T' instead", key, parent[key])
	} else {
		return typed, nil
	}
}

func getFloatOptional(parent map[string]interface{}, key string) *float64 {
	if _, exists := parent[key]; exists {
		if value, ok := parent[key].(float64); ok {
			return &value
		}
		if parent[key] != nil {
			Log.Warnf("Expecting a float64 value for key %s, got '%T' instead", key, parent[key])
		}
	}
	return nil
}

func getIntOptional(parent map[string]interface{}, key string) *int {
	if _, exists := parent[key]; exists {
		if value, ok := parent[key].(float64); ok {
			intValue := int(value)
			return &intValue
		} else if value, ok := parent[key].(int); ok {
			return &value
		}
		if parent[key] != nil {
			Log.Warnf("Expecting an int value for key %s, got '%T' instead", key, parent[key])
		}
	}
	return nil
}

func getTimeOptional(parent map[string]interface{}, key string) (*time.Time, error) {
	parsed, err := ParseTimestamp(parent[key])
	if err != nil {
		return nil, err
	}

	if value, ok := parsed.(time.Time); ok {
		return &value, nil
	}

	return nil, nil
}
