package chat

import (
	"fmt"
	"strconv"
	"strings"
)

// MatchOption resolves a reply to one of the offered options: exact label
// first, then case-insensitive label, then a 1-based option number.
func MatchOption(text string, options OptionSet) (Option, bool) {
	if o, ok := options.Find(text); ok {
		return o, true
	}

	text = strings.TrimSpace(text)
	for _, o := range options {
		if strings.EqualFold(o.Label, text) {
			return o, true
		}
	}

	return MatchNumberToOption(text, options)
}

// MatchNumberToOption converts a number string ("1", "2", ...) to the
// corresponding option.
func MatchNumberToOption(text string, options OptionSet) (Option, bool) {
	num, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || num < 1 || num > len(options) {
		return Option{}, false
	}
	return options[num-1], true
}

// FormatNumberedMenu creates a numbered text menu for platforms without
// native keyboards.
// Example output: "Pick one\n\n1. Men\n2. Women\n"
func FormatNumberedMenu(text string, options OptionSet) string {
	var sb strings.Builder
	if text != "" {
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}
	for i, o := range options {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, o.Label))
	}
	return sb.String()
}
