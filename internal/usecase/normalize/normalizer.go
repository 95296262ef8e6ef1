// Package normalize strips courtesy boilerplate from support text before it is
// embedded or displayed.
package normalize

import "strings"

// defaultPhrases is the boilerplate of the source deployment's support mail:
// Japanese opening/closing courtesy expressions and apology preambles, plus the
// English closings that show up in mixed-language threads. Longer variants come
// before the shorter ones they contain.
var defaultPhrases = []string{
	"いつも大変お世話になっております。",
	"いつも大変お世話になっております",
	"いつもお世話になっております。",
	"いつもお世話になっております",
	"お世話になっております。",
	"お世話になっております",
	"ご迷惑をおかけして申し訳ございません。",
	"ご迷惑をおかけして申し訳ございません",
	"お忙しいところ恐れ入りますが、",
	"お忙しいところ恐れ入りますが",
	"何卒よろしくお願いいたします。",
	"何卒よろしくお願いいたします",
	"よろしくお願いいたします。",
	"よろしくお願いいたします",
	"よろしくお願いします。",
	"よろしくお願いします",
	"Thank you for your continued support.",
	"Thank you for your continued support",
	"Best regards,",
	"Best regards",
}

// leadingSeparators are punctuation runes a phrase removal can leave dangling
// at the start of the text.
const leadingSeparators = "、。，．,.:;！？!?…"

// Normalizer removes a fixed, ordered list of boilerplate phrases.
//
// Normalize is idempotent and never removes text that is not an exact phrase
// occurrence. Phrase removal can splice the surrounding text into a new exact
// occurrence, so each pass repeats until the output is stable; every changing
// pass strictly shortens the text, so the loop terminates.
type Normalizer struct {
	phrases []string
}

// New creates a normalizer over the given phrases, applied in declared order.
// Empty phrases are dropped.
func New(phrases []string) *Normalizer {
	kept := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return &Normalizer{phrases: kept}
}

// Default creates a normalizer with the source deployment's boilerplate list.
func Default() *Normalizer {
	return New(defaultPhrases)
}

// Normalize strips every boilerplate occurrence and trims the leftovers.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}

	for {
		stripped := n.stripOnce(text)
		if stripped == text {
			return stripped
		}
		text = stripped
	}
}

func (n *Normalizer) stripOnce(text string) string {
	for _, p := range n.phrases {
		text = strings.ReplaceAll(text, p, "")
	}
	text = strings.TrimSpace(text)
	text = strings.TrimLeft(text, leadingSeparators)
	return strings.TrimSpace(text)
}
