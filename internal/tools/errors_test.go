package tools

import (
	"errors"
	"testing"
)

func TestError_Format(t *testing.T) {
	err := NewUnknownToolError("ghost")
	want := "UNKNOWN_TOOL: unknown tool: ghost"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewUpstreamUnavailableError("service is down", cause)

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to reach the cause")
	}

	var terr *Error
	if !errors.As(error(err), &terr) {
		t.Fatal("Expected errors.As to match *Error")
	}
	if terr.Kind != KindUpstreamDown {
		t.Errorf("Expected kind %s, got %s", KindUpstreamDown, terr.Kind)
	}
}

func TestNewErrorResult(t *testing.T) {
	res := NewErrorResult(NewValidationError("argument \"limit\": value 500 is above the maximum of 100"))
	if !res.IsError {
		t.Fatal("Expected IsError to be set")
	}
	if len(res.Content) != 1 {
		t.Fatalf("Expected one content block, got %d", len(res.Content))
	}
}
