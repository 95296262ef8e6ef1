// Package transcript reshapes multi-line answers into speaker-tagged turns
// for structured display.
package transcript

import (
	"html"
	"strings"
)

// Speaker attributes a turn to one side of the support exchange.
type Speaker string

const (
	// SpeakerSupport marks a line written by support staff.
	SpeakerSupport Speaker = "support"
	// SpeakerUser marks a line written by the inquiring user.
	SpeakerUser Speaker = "user"
	// SpeakerUnlabeled marks a line with no recognized tag.
	SpeakerUnlabeled Speaker = "unlabeled"
)

// Turn is one speaker-attributed segment of a transcript.
type Turn struct {
	speaker Speaker
	body    string
}

// NewTurn creates a turn.
func NewTurn(speaker Speaker, body string) Turn {
	return Turn{speaker: speaker, body: body}
}

// Speaker returns the attributed speaker.
func (t Turn) Speaker() Speaker { return t.speaker }

// Body returns the turn text with the tag marker stripped.
func (t Turn) Body() string { return t.body }

// Default tag markers of the source transcripts.
const (
	DefaultSupportMarker = "[SUPPORT]"
	DefaultUserMarker    = "[USER]"
)

// Formatter splits answer text into turns. Formatting is pure: the same text
// always yields the same turn sequence.
type Formatter struct {
	supportMarker string
	userMarker    string
	escape        bool
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithMarkers overrides the speaker tag markers.
func WithMarkers(support, user string) Option {
	return func(f *Formatter) {
		f.supportMarker = support
		f.userMarker = user
	}
}

// WithEscape HTML-escapes turn bodies. Escaping happens here, after masking,
// so masking always operates on the meaning-bearing text.
func WithEscape() Option {
	return func(f *Formatter) { f.escape = true }
}

// NewFormatter creates a formatter with the default markers.
func NewFormatter(opts ...Option) *Formatter {
	f := &Formatter{
		supportMarker: DefaultSupportMarker,
		userMarker:    DefaultUserMarker,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format splits text on line boundaries and classifies each line by its tag
// marker, stripping the marker from the body. Input line order is preserved;
// blank lines are dropped.
func (f *Formatter) Format(text string) []Turn {
	if text == "" {
		return nil
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	turns := make([]Turn, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		speaker := SpeakerUnlabeled
		switch {
		case strings.Contains(line, f.supportMarker):
			speaker = SpeakerSupport
			line = strings.ReplaceAll(line, f.supportMarker, "")
		case strings.Contains(line, f.userMarker):
			speaker = SpeakerUser
			line = strings.ReplaceAll(line, f.userMarker, "")
		}

		body := strings.TrimSpace(line)
		if f.escape {
			body = html.EscapeString(body)
		}
		turns = append(turns, NewTurn(speaker, body))
	}
	return turns
}
