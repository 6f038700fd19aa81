package suggestions

import "stocks-tracker-web/models"

// All selects every suggestion.
const All = "all"

var actions = map[string]bool{
	All:           true,
	"Buy":         true,
	"Hold":        true,
	"Sell":        true,
	"Strong Buy":  true,
	"Strong Sell": true,
}

// ValidAction reports whether action is a known filter. Empty means all.
func ValidAction(action string) bool {
	return action == "" || actions[action]
}

// Filter keeps the suggestions whose action equals action, in their
// original order. The input is not modified.
func Filter(list []models.Suggestion, action string) []models.Suggestion {
	out := make([]models.Suggestion, 0, len(list))
	if action == "" || action == All {
		return append(out, list...)
	}
	for _, s := range list {
		if s.Action == action {
			out = append(out, s)
		}
	}
	return out
}
