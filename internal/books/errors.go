package books

import (
	"errors"
	"fmt"
)

// Kind classifies why a service call failed.
type Kind int

const (
	KindUnknown Kind = iota
	// KindTransport means the request never produced a response.
	KindTransport
	// KindRejected means the service answered with a non-2xx status.
	KindRejected
	// KindDecode means the response body could not be parsed.
	KindDecode
	// KindInvalid means the payload or the caller's input failed validation.
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindRejected:
		return "rejected"
	case KindDecode:
		return "decode"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Failure is returned by every Client operation that does not succeed.
type Failure struct {
	Op     string
	ID     int64
	Kind   Kind
	Status int
	Err    error
}

func (f *Failure) Error() string {
	subject := f.Op
	if f.ID > 0 {
		subject = fmt.Sprintf("%s %d", f.Op, f.ID)
	}
	switch {
	case f.Kind == KindRejected:
		return fmt.Sprintf("%s: service returned status %d", subject, f.Status)
	case f.Err != nil:
		return fmt.Sprintf("%s: %s: %v", subject, f.Kind, f.Err)
	default:
		return fmt.Sprintf("%s: %s", subject, f.Kind)
	}
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// KindOf extracts the failure kind from err, or KindUnknown.
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindUnknown
}
