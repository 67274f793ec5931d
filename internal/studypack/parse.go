package studypack

import (
	"errors"
	"strings"
)

// ErrNoJSONArray means a response contained no bracketed JSON array.
var ErrNoJSONArray = errors.New("no JSON array found in response")

// ExtractJSONArray returns the span from the first '[' to the last ']' of
// text, tolerating surrounding prose and markdown fences.
func ExtractJSONArray(text string) (string, error) {
	start := strings.IndexByte(text, '[')
	end := strings.LastIndexByte(text, ']')
	if start < 0 || end < start {
		return "", ErrNoJSONArray
	}
	return text[start : end+1], nil
}

// AnswerIndex maps an answer letter to its option index: "A"→0 … "D"→3.
// Any other value yields -1.
func AnswerIndex(letter string) int {
	switch letter {
	case "A":
		return 0
	case "B":
		return 1
	case "C":
		return 2
	case "D":
		return 3
	default:
		return -1
	}
}
