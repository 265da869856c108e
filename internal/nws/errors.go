package nws

import "fmt"

// ErrorKind classifies why a provider request failed.
type ErrorKind int

const (
	// KindTransport covers DNS, connection, timeout and cancellation failures.
	KindTransport ErrorKind = iota + 1
	// KindStatus means the provider answered with a non-200 status.
	KindStatus
	// KindDecode means the body was not the document we expected.
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport_error"
	case KindStatus:
		return "status_error"
	case KindDecode:
		return "decode_error"
	default:
		return "unknown_error"
	}
}

// FetchError is the single error type returned by every Client method.
type FetchError struct {
	Kind ErrorKind

	// Endpoint is one of the Endpoint* labels and names the lookup stage.
	Endpoint   string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
	case KindDecode:
		return fmt.Sprintf("failed to parse response from %s: %s", e.URL, e.Err)
	default:
		return fmt.Sprintf("request to %s failed: %s", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
