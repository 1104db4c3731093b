package natsclient

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireNonEmpty(t *testing.T) {
	got, err := RequireNonEmpty("orders", "subject")
	require.NoError(t, err)
	assert.Equal(t, "orders", got)

	_, err = RequireNonEmpty("", "subject")
	assert.ErrorIs(t, err, ErrMissingRequired)
}

func TestRequireNoWhitespace(t *testing.T) {
	got, err := RequireNoWhitespace("orders.created", "subject")
	require.NoError(t, err)
	assert.Equal(t, "orders.created", got)

	for _, bad := range []string{"orders created", "orders\tcreated", "orders\ncreated", ""} {
		_, err := RequireNoWhitespace(bad, "subject")
		assert.Error(t, err, "input %q", bad)
	}
}

func TestStreamAndDurableNamesRejectReservedCharacters(t *testing.T) {
	for _, bad := range []string{"has.dot", "has*star", "has>gt"} {
		_, err := ValidateStreamName(bad)
		assert.ErrorIs(t, err, ErrInvalidName, "stream %q", bad)

		_, err = ValidateDurable(bad)
		assert.ErrorIs(t, err, ErrInvalidName, "durable %q", bad)
	}

	got, err := ValidateStreamName("orders")
	require.NoError(t, err)
	assert.Equal(t, "orders", got)

	got, err = ValidateDurable("worker-1")
	require.NoError(t, err)
	assert.Equal(t, "worker-1", got)
}

func TestStreamAndDurableRequiredVariants(t *testing.T) {
	_, err := ValidateStreamNameRequired("")
	assert.ErrorIs(t, err, ErrMissingRequired)

	_, err = ValidateDurableRequired("")
	assert.ErrorIs(t, err, ErrMissingRequired)

	got, err := ValidateStreamNameRequired("orders")
	require.NoError(t, err)
	assert.Equal(t, "orders", got)
}

func TestValidateQueueName(t *testing.T) {
	got, err := ValidateQueueName("")
	require.NoError(t, err)
	assert.Equal(t, "", got)

	_, err = ValidateQueueName("two words")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestValidatePrefix(t *testing.T) {
	for _, bad := range []string{"pre*", "pre>", "pre$", "pre fix", "pre\tfix"} {
		_, err := ValidatePrefix(bad, "prefix")
		assert.ErrorIs(t, err, ErrInvalidName, "prefix %q", bad)
	}

	got, err := ValidatePrefix("replies", "prefix")
	require.NoError(t, err)
	assert.Equal(t, "replies", got)
}

func TestGtZeroOrUnlimited(t *testing.T) {
	cases := []struct {
		in int64
		ok bool
	}{
		{-1, true},
		{1, true},
		{1 << 40, true},
		{0, false},
		{-2, false},
		{-100, false},
	}
	for _, tc := range cases {
		got, err := GtZeroOrUnlimited(tc.in, "max messages")
		if tc.ok {
			require.NoError(t, err, "input %d", tc.in)
			assert.Equal(t, tc.in, got)
		} else {
			assert.ErrorIs(t, err, ErrOutOfRange, "input %d", tc.in)
		}
	}
}

func TestBoundedInt(t *testing.T) {
	got, err := ValidateReplicas(1)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = ValidateReplicas(5)
	require.NoError(t, err)
	assert.Equal(t, 5, got)

	_, err = ValidateReplicas(0)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = ValidateReplicas(6)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = ValidatePullBatch(MaxPullBatch + 1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestDurationValidators(t *testing.T) {
	got, err := PositiveDuration(time.Second, "ack wait")
	require.NoError(t, err)
	assert.Equal(t, time.Second, got)

	_, err = PositiveDuration(0, "ack wait")
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = PositiveDuration(-time.Second, "ack wait")
	assert.ErrorIs(t, err, ErrOutOfRange)

	got, err = NonNegativeDuration(0, "idle")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), got)

	_, err = NonNegativeDuration(-time.Millisecond, "idle")
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestValidationErrorsCarryFieldAndValue(t *testing.T) {
	_, err := ValidateStreamName("bad.name")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.name")
	assert.True(t, errors.Is(err, ErrInvalidName))

	_, err = GtZeroOrUnlimited(-7, "max bytes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max bytes")
	assert.Contains(t, err.Error(), "-7")
}
