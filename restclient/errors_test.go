package restclient

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{
			name:     "api error",
			err:      &APIError{StatusCode: 400, Code: "DUPLICATE_VALUE", Message: "duplicate"},
			contains: "DUPLICATE_VALUE",
		},
		{
			name:     "server error",
			err:      &ServerError{StatusCode: 500},
			contains: "500",
		},
		{
			name:     "unexpected status",
			err:      &UnexpectedStatusError{StatusCode: 502},
			contains: "502",
		},
		{
			name:     "deserialization with element",
			err:      &DeserializationError{Element: "name"},
			contains: `"name"`,
		},
		{
			name:     "transport",
			err:      &TransportError{Err: errors.New("connection refused")},
			contains: "connection refused",
		},
		{
			name:     "refresh",
			err:      &RefreshError{Err: errors.New("invalid_grant")},
			contains: "invalid_grant",
		},
		{
			name:     "request construction",
			err:      &RequestConstructionError{Err: errors.New("bad path")},
			contains: "bad path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if msg := tt.err.Error(); !strings.Contains(msg, tt.contains) {
				t.Errorf("message %q does not contain %q", msg, tt.contains)
			}
		})
	}
}

func TestErrorUnwrapping(t *testing.T) {
	inner := errors.New("root cause")

	for _, err := range []error{
		&RequestConstructionError{Err: inner},
		&TransportError{Err: inner},
		&RefreshError{Err: inner},
		&DeserializationError{Err: inner},
	} {
		if !errors.Is(err, inner) {
			t.Errorf("%T does not unwrap to the inner error", err)
		}
	}
}
