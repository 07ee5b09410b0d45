package summary

import "errors"

// ErrUnavailable marks results produced while no backend is configured.
var ErrUnavailable = errors.New("summarization unavailable: no backend configured")

// Status tells callers why a Result does or does not carry text.
type Status int

const (
	// StatusOK means the backend answered. Text may still be empty.
	StatusOK Status = iota
	// StatusNoContent means there was nothing to summarize.
	StatusNoContent
	// StatusUnavailable means summarization is switched off (no credential or client).
	StatusUnavailable
	// StatusFailed means the backend call itself failed.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoContent:
		return "no content"
	case StatusUnavailable:
		return "unavailable"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one summarization call.
type Result struct {
	Text   string
	Status Status
	Err    error
}

func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Unavailable is true when the backend could not be used for this call,
// either because it is switched off or because the request failed.
func (r Result) Unavailable() bool {
	return r.Status == StatusUnavailable || r.Status == StatusFailed
}

func ok(text string) Result {
	return Result{Text: text, Status: StatusOK}
}

func unavailable() Result {
	return Result{Status: StatusUnavailable, Err: ErrUnavailable}
}

func failed(err error) Result {
	return Result{Status: StatusFailed, Err: err}
}
