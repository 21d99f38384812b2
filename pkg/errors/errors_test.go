package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("sensors.yaml", 12, underlying)

	var parseErr *ParseError
	require.True(t, stdErrors.As(err, &parseErr))
	assert.Equal(t, "sensors.yaml", parseErr.Path)
	assert.Equal(t, 12, parseErr.Line)
	assert.ErrorIs(t, err, underlying)
	assert.Contains(t, err.Error(), "sensors.yaml:12")
}

func TestConfigurationErrorFormatting(t *testing.T) {
	t.Parallel()

	err := NewConfigurationError("allowed_states", "overlaps failed_states", nil)
	assert.Equal(t, "configuration error: allowed_states: overlaps failed_states", err.Error())

	err = NewConfigurationError("", "recursion_depth must be positive", nil)
	assert.Equal(t, "configuration error: recursion_depth must be positive", err.Error())
}

func TestNotFoundErrorVariants(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "workflow",
			err:  NewWorkflowNotFoundError("daily_load"),
			want: `workflow "daily_load" does not exist`,
		},
		{
			name: "source",
			err:  NewSourceNotFoundError("daily_load", "/etc/watchdag/daily_load.yaml"),
			want: `workflow "daily_load" was deleted: definition source /etc/watchdag/daily_load.yaml is missing`,
		},
		{
			name: "step",
			err:  NewStepNotFoundError("daily_load", "transform"),
			want: `step "transform" does not exist in workflow "daily_load"`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var notFound *NotFoundError
			require.True(t, stdErrors.As(tc.err, &notFound))
			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestDependencyFailedError(t *testing.T) {
	t.Parallel()

	err := NewDependencyFailedError("daily_load", []string{"extract", "transform"})
	assert.Equal(t, `some of the external steps [extract, transform] in workflow "daily_load" failed`, err.Error())

	err = NewDependencyFailedError("daily_load", nil)
	assert.Equal(t, `the external workflow "daily_load" failed`, err.Error())
}

func TestTimeoutError(t *testing.T) {
	t.Parallel()

	err := NewTimeoutError("wait_upstream", 2*time.Hour)

	var timeoutErr *TimeoutError
	require.True(t, stdErrors.As(err, &timeoutErr))
	assert.Equal(t, "wait_upstream", timeoutErr.SensorID)
	assert.Contains(t, err.Error(), "2h0m0s")
}
