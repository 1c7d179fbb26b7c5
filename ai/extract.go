package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// extractJSON keeps the text between the first open and the last close
// delimiter. Content without such a span is returned unchanged.
func extractJSON(content string, open, close byte) string {
	start := strings.IndexByte(content, open)
	end := strings.LastIndexByte(content, close)
	if start == -1 || end <= start {
		return content
	}
	return content[start : end+1]
}

func decodeJSON(content string, open, close byte, v interface{}) error {
	if err := json.Unmarshal([]byte(extractJSON(content, open, close)), v); err != nil {
		return fmt.Errorf("%w: unparsable output: %v", ErrCollaborator, err)
	}
	return nil
}
