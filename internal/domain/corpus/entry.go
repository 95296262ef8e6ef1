// Package corpus holds the immutable question/answer records searched against.
package corpus

// Entry is one historical question/answer pair. Entries are created at corpus
// load time and never mutated; the id is the stable 0-based load order.
type Entry struct {
	id       int
	question string
	answer   string
	genre    string
}

// New creates a corpus entry.
func New(id int, question, answer, genre string) Entry {
	return Entry{id: id, question: question, answer: answer, genre: genre}
}

// ID returns the stable corpus index of the entry.
func (e *Entry) ID() int { return e.id }

// Question returns the historical question text.
func (e *Entry) Question() string { return e.question }

// Answer returns the historical answer text.
func (e *Entry) Answer() string { return e.answer }

// Genre returns the optional genre label, empty when the source had none.
func (e *Entry) Genre() string { return e.genre }
