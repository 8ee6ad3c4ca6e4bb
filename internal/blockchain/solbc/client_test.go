package solbc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedStatuses returns the scripted statuses in order, then repeats the last.
type scriptedStatuses struct {
	mu    sync.Mutex
	steps []*rpc.SignatureStatusesResult
	errs  []error
	calls int
}

func (s *scriptedStatuses) GetSignatureStatuses(_ context.Context, _ ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.calls
	if i >= len(s.steps) {
		i = len(s.steps) - 1
	}
	s.calls++

	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	return &rpc.GetSignatureStatusesResult{Value: []*rpc.SignatureStatusesResult{s.steps[i]}}, nil
}

func TestWaitForConfirmation(t *testing.T) {
	sig := solana.Signature{1, 2, 3}
	ctx := context.Background()

	t.Run("confirms after pending polls and transient errors", func(t *testing.T) {
		getter := &scriptedStatuses{
			steps: []*rpc.SignatureStatusesResult{
				nil,
				nil,
				{ConfirmationStatus: rpc.ConfirmationStatusProcessed},
				{ConfirmationStatus: rpc.ConfirmationStatusConfirmed},
			},
			errs: []error{nil, errors.New("node busy")},
		}

		err := waitForConfirmation(ctx, getter, sig, rpc.CommitmentConfirmed, time.Second, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 4, getter.calls)
	})

	t.Run("on-chain failure stops polling", func(t *testing.T) {
		getter := &scriptedStatuses{
			steps: []*rpc.SignatureStatusesResult{
				{Err: map[string]interface{}{"InstructionError": []interface{}{0, "Custom"}}},
			},
		}

		err := waitForConfirmation(ctx, getter, sig, rpc.CommitmentConfirmed, time.Second, time.Millisecond)
		assert.ErrorIs(t, err, ErrTransactionFailed)
		assert.Equal(t, 1, getter.calls)
	})

	t.Run("times out while pending", func(t *testing.T) {
		getter := &scriptedStatuses{steps: []*rpc.SignatureStatusesResult{nil}}

		err := waitForConfirmation(ctx, getter, sig, rpc.CommitmentConfirmed, 20*time.Millisecond, 5*time.Millisecond)
		assert.ErrorIs(t, err, ErrConfirmationTimeout)
	})
}

func TestReachedCommitment(t *testing.T) {
	tests := []struct {
		status rpc.ConfirmationStatusType
		want   rpc.CommitmentType
		ok     bool
	}{
		{rpc.ConfirmationStatusFinalized, rpc.CommitmentFinalized, true},
		{rpc.ConfirmationStatusConfirmed, rpc.CommitmentFinalized, false},
		{rpc.ConfirmationStatusConfirmed, rpc.CommitmentConfirmed, true},
		{rpc.ConfirmationStatusProcessed, rpc.CommitmentConfirmed, false},
		{rpc.ConfirmationStatusProcessed, rpc.CommitmentProcessed, true},
		{"", rpc.CommitmentProcessed, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ok, reachedCommitment(tt.status, tt.want), "%s vs %s", tt.status, tt.want)
	}
}
