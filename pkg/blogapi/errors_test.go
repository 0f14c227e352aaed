package blogapi

import (
	"errors"
	"io"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{
			name: "server error without cause",
			err:  &APIError{StatusCode: 503, Class: ErrorClassServer, Message: "unavailable"},
			want: "blog api server error (status 503): unavailable",
		},
		{
			name: "network error with cause",
			err:  &APIError{Class: ErrorClassNetwork, Message: "request failed", Err: io.EOF},
			want: "blog api network error (status 0): request failed: EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	err := &APIError{Class: ErrorClassNetwork, Err: io.ErrUnexpectedEOF}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("errors.Is should see the wrapped cause")
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorClass
	}{
		{200, ""},
		{304, ""},
		{400, ErrorClassClient},
		{404, ErrorClassClient},
		{429, ErrorClassClient},
		{500, ErrorClassServer},
		{503, ErrorClassServer},
	}

	for _, tt := range tests {
		if got := classifyStatus(tt.status); got != tt.want {
			t.Errorf("classifyStatus(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestShouldRetry(t *testing.T) {
	if shouldRetry(ErrorClassClient) {
		t.Error("client errors must not be retried")
	}
	if !shouldRetry(ErrorClassServer) || !shouldRetry(ErrorClassNetwork) {
		t.Error("server and network errors should be retried")
	}
}
