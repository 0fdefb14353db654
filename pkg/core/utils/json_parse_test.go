package utils

import (
	"testing"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain json untouched", `{"a":1}`, `{"a":1}`},
		{"generic fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"json tagged fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"leading whitespace", "  ```json\n{\"a\": \"b\"}\n``` ", `{"a": "b"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := StripCodeFence(tc.input)
			if got != tc.expected {
				t.Errorf("StripCodeFence(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestSmartParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid json", `{"risks": ["a", "b"]}`, false},
		{"fenced json", "```json\n{\"risks\": [\"a\"]}\n```", false},
		{"trailing comma repaired", `{"risks": ["a",],}`, false},
		{"single quotes repaired", `{'risks': ['a']}`, false},
		{"pure prose", "I cannot provide a JSON response for this request.", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out map[string]interface{}
			_, err := SmartParse(tc.input, &out)
			if tc.wantErr && err == nil {
				t.Errorf("expected error, got parsed output %v", out)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
