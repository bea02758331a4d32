package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"shelfie/backend/internal/model"
)

// ErrMalformedResponse means the agent output could not be recovered as a JSON array
var ErrMalformedResponse = errors.New("malformed agent response")

// jsonArrayRegex is greedy: first '[' to last ']', across newlines
var jsonArrayRegex = regexp.MustCompile(`(?s)\[.*\]`)

// Extract recovers the JSON array the agent was asked to emit: the bracketed
// span when there is one, otherwise the whole text.
func Extract(text string) ([]any, error) {
	candidate := text
	if match := jsonArrayRegex.FindString(text); match != "" {
		candidate = match
	}

	items, err := decodeArray(candidate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return items, nil
}

// Parse runs Extract and Normalize over raw agent text
func Parse(text string) ([]model.BookRecommendation, error) {
	items, err := Extract(text)
	if err != nil {
		return nil, err
	}
	return Normalize(items), nil
}

func decodeArray(s string) ([]any, error) {
	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(s)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	// Reject trailing content such as a second JSON value
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}

	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON array, got %s", describe(v))
	}
	return items, nil
}

func describe(v any) string {
	switch v.(type) {
	case map[string]any:
		return "an object"
	case nil:
		return "null"
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case bool:
		return "a boolean"
	}
	return fmt.Sprintf("%T", v)
}
