package lookup

import (
	"github.com/japaniel/kanjikai/pkg/subject"
)

// Status is the state of a lookup as seen by presentation code.
type Status int

const (
	StatusPending Status = iota
	StatusOK
	StatusError
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only view of a cache entry at the time of the call.
// Subject is set only for StatusOK; Err carries the cause for StatusError
// and StatusInvalid and is informational only.
type Snapshot struct {
	Status  Status
	Subject subject.Subject
	Err     error
}

// Kanji returns the subject when it is a kanji.
func (s Snapshot) Kanji() (*subject.Kanji, bool) {
	k, ok := s.Subject.(*subject.Kanji)
	return k, ok && s.Status == StatusOK
}

// Reading returns the subject when it is a reading.
func (s Snapshot) Reading() (*subject.Reading, bool) {
	r, ok := s.Subject.(*subject.Reading)
	return r, ok && s.Status == StatusOK
}

// Found reports whether the lookup settled with a subject. Presentation
// code renders anything other than pending or found as "not found".
func (s Snapshot) Found() bool { return s.Status == StatusOK }
