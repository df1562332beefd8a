package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetryableClassification(t *testing.T) {
	testCases := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"BadRequest", &HTTPError{Status: 400, Body: "bad payload"}, false},
		{"Unauthorized", &HTTPError{Status: 401}, false},
		{"NotFound", &HTTPError{Status: 404}, false},
		{"RequestTimeout", &HTTPError{Status: 408}, true},
		{"TooManyRequests", &HTTPError{Status: 429}, true},
		{"ServerError", &HTTPError{Status: 500}, true},
		{"BadGateway", &HTTPError{Status: 502}, true},
		{"Validation", Validationf("message must not be empty"), false},
		{"Network", errors.New("connection refused"), true},
		{"WrappedHTTP", fmt.Errorf("request failed: %w", &HTTPError{Status: 503}), true},
		{"WrappedClientError", fmt.Errorf("request failed: %w", &HTTPError{Status: 422}), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.retryable, Retryable(tc.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	httpErr := &HTTPError{Status: 500, Body: "Internal Server Error"}
	assert.Equal(t, "HTTP error 500: Internal Server Error", httpErr.Error())

	valErr := Validationf("tags[%d] exceeds %d characters", 3, 50)
	assert.Equal(t, "validation error: tags[3] exceeds 50 characters", valErr.Error())

	var target *ValidationError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", valErr), &target))
}
