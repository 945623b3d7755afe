// Package viewstate holds the observable state behind each screen. Each
// controller owns one observe.Value that screens subscribe to; all mutation
// goes through controller methods.
package viewstate

// Status is the lifecycle phase of a screen's data.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}
