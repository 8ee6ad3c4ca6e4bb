package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain error", err: cause, want: GenericMessage},
		{name: "operation error", err: Wrap(KindNetwork, "Error fetching transactions. Please try again later.", cause), want: "Error fetching transactions. Please try again later."},
		{name: "wrapped twice", err: fmt.Errorf("outer: %w", New(KindValidation, "All fields are required.")), want: "All fields are required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestKindOfAndUnwrap(t *testing.T) {
	cause := errors.New("rpc down")
	err := fmt.Errorf("fetch: %w", Wrap(KindNetwork, "oops", cause))

	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Equal(t, KindUnknown, KindOf(cause))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "network", KindNetwork.String())
	assert.Contains(t, err.Error(), "rpc down")
}
