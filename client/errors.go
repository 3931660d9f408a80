package client

import (
	"errors"
	"fmt"
)

// Kind classifies why a fetch failed
type Kind int

const (
	// KindNetwork means no response was received (transport error or cancellation)
	KindNetwork Kind = iota + 1
	// KindHTTPStatus means the server answered with a non-2xx status
	KindHTTPStatus
	// KindDecode means the body was not a JSON object
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTPStatus:
		return "http_status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// FetchError is returned by FetchBundle for every failure
type FetchError struct {
	Kind Kind
	// Code is the HTTP status for KindHTTPStatus, zero otherwise
	Code int
	Err  error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("feed endpoint returned status %d", e.Code)
	case KindDecode:
		return fmt.Sprintf("failed to decode feed bundle: %v", e.Err)
	default:
		return fmt.Sprintf("failed to reach feed endpoint: %v", e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

func kindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// IsNetwork reports whether err is a transport-level fetch failure
func IsNetwork(err error) bool { return kindOf(err) == KindNetwork }

// IsHTTPStatus reports whether err is a non-2xx fetch failure
func IsHTTPStatus(err error) bool { return kindOf(err) == KindHTTPStatus }

// IsDecode reports whether err is a malformed-body fetch failure
func IsDecode(err error) bool { return kindOf(err) == KindDecode }

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return 0
}
