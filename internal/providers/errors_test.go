package providers

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyErrorMessages(t *testing.T) {
	cases := map[string]ErrorType{
		"insufficient_quota":         ErrorQuota,
		"429 from upstream":          ErrorRate,
		"maximum context_length hit": ErrorContext,
		"service temporarily down":   ErrorTransient,
		"bad request":                ErrorPermanent,
	}
	for msg, want := range cases {
		require.Equal(t, want, ClassifyError(errors.New(msg)), msg)
	}
	require.Equal(t, ErrorType(""), ClassifyError(nil))
}

func TestClassifyErrorStatus(t *testing.T) {
	wrap := func(code int, body string) error {
		return fmt.Errorf("summarize: %w", &StatusError{Provider: "openai", Operation: "summarize", Code: code, Body: body})
	}
	require.Equal(t, ErrorRate, ClassifyError(wrap(429, `{"error":"slow down"}`)))
	require.Equal(t, ErrorQuota, ClassifyError(wrap(429, `{"error":{"code":"insufficient_quota"}}`)))
	require.Equal(t, ErrorTransient, ClassifyError(wrap(503, "")))
	require.Equal(t, ErrorContext, ClassifyError(wrap(413, "")))
	require.Equal(t, ErrorPermanent, ClassifyError(wrap(401, "invalid key")))
	require.Equal(t, ErrorTransient, ClassifyError(fmt.Errorf("call: %w", context.DeadlineExceeded)))
}
