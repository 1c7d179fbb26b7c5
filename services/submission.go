package services

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Submission maps a question id to the selected choice index. A missing
// question is unanswered.
type Submission map[uint]int

// ParseSubmission decodes a JSON object such as {"12": 1, "13": "0"}. A null
// value leaves the question unanswered.
func ParseSubmission(raw []byte) (Submission, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, invalid("answers", "answers are required")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, invalid("answers", "answers must be a JSON object of question id to choice index")
	}
	if fields == nil {
		return nil, invalid("answers", "answers must be a JSON object of question id to choice index")
	}

	submission := make(Submission, len(fields))
	for key, value := range fields {
		id, err := strconv.ParseUint(strings.TrimSpace(key), 10, 64)
		if err != nil || id == 0 {
			return nil, invalid("answers", "%q is not a question id", key)
		}

		index, answered, err := parseChoiceIndex(value)
		if err != nil {
			return nil, invalid("answers", "question %d: %v", id, err)
		}
		if answered {
			submission[uint(id)] = index
		}
	}
	return submission, nil
}

type choiceIndexError string

func (e choiceIndexError) Error() string { return string(e) }

func parseChoiceIndex(value json.RawMessage) (int, bool, error) {
	dec := json.NewDecoder(bytes.NewReader(value))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return 0, false, choiceIndexError("selected choice is not valid JSON")
	}

	switch t := v.(type) {
	case nil:
		return 0, false, nil
	case json.Number:
		n, err := strconv.Atoi(t.String())
		if err != nil {
			return 0, false, choiceIndexError("selected choice " + t.String() + " is not an integer")
		}
		return n, true, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false, choiceIndexError("selected choice " + strconv.Quote(t) + " is not an integer")
		}
		return n, true, nil
	default:
		return 0, false, choiceIndexError("selected choice must be an integer")
	}
}
