package suggest

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/myrjola/intervalplan/internal/workout"
)

var uuidPattern = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// ParseIDs extracts exercise ids from a free-text model response.
//
// The first well-formed JSON array in text wins and its string elements are returned in order. When there is no such
// array, or it holds no strings, every UUID in text is returned instead, de-duplicated. Finding nothing is a
// [workout.SuggestionParseError].
func ParseIDs(text string) ([]string, error) {
	if ids := firstArrayStrings(text); len(ids) > 0 {
		return ids, nil
	}
	if ids := matchUUIDs(text); len(ids) > 0 {
		return ids, nil
	}
	return nil, workout.NewSuggestionError(workout.SuggestionParseError, errors.New("no exercise ids in response"))
}

func firstArrayStrings(text string) []string {
	for _, candidate := range findArrayCandidates(text) {
		var elements []any
		if err := json.Unmarshal([]byte(candidate), &elements); err != nil {
			continue
		}
		return stringElements(elements)
	}
	// An unclosed bracket in the prose swallows everything after it, so retry from every later bracket.
	for i := range len(text) {
		if text[i] != '[' {
			continue
		}
		var elements []any
		if err := json.NewDecoder(strings.NewReader(text[i:])).Decode(&elements); err != nil {
			continue
		}
		return stringElements(elements)
	}
	return nil
}

func stringElements(elements []any) []string {
	var ids []string
	for _, element := range elements {
		if s, ok := element.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				ids = append(ids, s)
			}
		}
	}
	return ids
}

// findArrayCandidates returns the top-level bracketed substrings of s in order of appearance.
//
// Quotes are only tracked inside brackets so that stray quotes in surrounding prose cannot hide an array. Iterating
// bytes is safe for the ASCII delimiters because UTF-8 continuation bytes never collide with them.
func findArrayCandidates(s string) []string {
	var (
		candidates []string
		depth      int
		start      = -1
		inString   bool
		escape     bool
	)
	for i := range len(s) {
		b := s[i]
		if depth > 0 && inString {
			switch {
			case escape:
				escape = false
			case b == '\\':
				escape = true
			case b == '"':
				inString = false
			}
			continue
		}
		switch b {
		case '"':
			inString = depth > 0
		case '[':
			if depth == 0 {
				start = i
			}
			depth++
		case ']':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				candidates = append(candidates, s[start:i+1])
				start = -1
			}
		}
	}
	return candidates
}

func matchUUIDs(text string) []string {
	var (
		ids  []string
		seen = make(map[uuid.UUID]bool)
	)
	for _, match := range uuidPattern.FindAllString(text, -1) {
		id, err := uuid.Parse(match)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id.String())
	}
	return ids
}
