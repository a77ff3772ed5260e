package errors

import (
	"errors"
	"math"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidTree, "tree item %d has empty path", 3)

	if err.Code != ErrCodeInvalidTree {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidTree)
	}
	if err.Message != "tree item 3 has empty path" {
		t.Errorf("Message = %v, want %v", err.Message, "tree item 3 has empty path")
	}

	expected := "INVALID_TREE: tree item 3 has empty path"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(ErrCodeNetwork, cause, "failed to fetch tree")

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeInvalidURL, "bad"), ErrCodeInvalidURL, true},
		{"non-matching code", New(ErrCodeInvalidURL, "bad"), ErrCodeNetwork, false},
		{"wrapped outer code", Wrap(ErrCodeAnalysisFailed, New(ErrCodeNotFound, "inner"), "outer"), ErrCodeAnalysisFailed, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil error", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeNotFound, "repository not found")); got != "repository not found" {
		t.Errorf("UserMessage() = %q, want %q", got, "repository not found")
	}
	if got := UserMessage(errors.New("boom")); got != "boom" {
		t.Errorf("UserMessage() = %q, want %q", got, "boom")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{ErrCodeMissingURL, http.StatusBadRequest},
		{ErrCodeInvalidURL, http.StatusBadRequest},
		{ErrCodeInvalidTree, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeAnalysisFailed, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "x")
			if got := HTTPStatus(err); got != tt.want {
				t.Errorf("HTTPStatus(%s) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"src/main.go", false},
		{"a..b/file", false},
		{"", true},
		{"/etc/passwd", true},
		{"src/../secret", true},
		{"src\\win", true},
		{"bad\x00path", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) code = %v, want %v", tt.path, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateRange(t *testing.T) {
	if err := ValidateRange("factor", 1.5, 1.0, 10.0); err != nil {
		t.Errorf("ValidateRange(1.5) = %v, want nil", err)
	}
	if err := ValidateRange("top", 0, 1, 10); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("ValidateRange(0) = %v, want INVALID_INPUT", err)
	}
	if err := ValidateRange("factor", math.NaN(), 0, 100); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("ValidateRange(NaN) = %v, want INVALID_INPUT", err)
	}
}

func TestValidateURL(t *testing.T) {
	if err := ValidateURL(""); !Is(err, ErrCodeMissingURL) {
		t.Errorf("ValidateURL(\"\") = %v, want MISSING_URL", err)
	}
	if err := ValidateURL("ftp://x"); !Is(err, ErrCodeInvalidURL) {
		t.Errorf("ValidateURL(ftp) = %v, want INVALID_URL", err)
	}
	if err := ValidateURL("https://github.com/a/b"); err != nil {
		t.Errorf("ValidateURL(https) = %v, want nil", err)
	}
}
