package solbc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("get epoch: %w", context.DeadlineExceeded), true},
		{"transport", errors.New("dial tcp: connection refused"), true},
		{"not found", rpc.ErrNotFound, false},
		{"invalid params", &jsonrpc.RPCError{Code: -32602, Message: "Invalid param"}, false},
		{"wrapped method not found", fmt.Errorf("call: %w", &jsonrpc.RPCError{Code: -32601, Message: "Method not found"}), false},
		{"node behind", &jsonrpc.RPCError{Code: -32005, Message: "Node is behind"}, true},
		{"rate limited", &jsonrpc.RPCError{Code: 429, Message: "Too many requests"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestIsAccountNotFoundError(t *testing.T) {
	assert.True(t, IsAccountNotFoundError(ErrAccountNotFound))
	assert.True(t, IsAccountNotFoundError(errors.New("Account Not Found")))
	assert.False(t, IsAccountNotFoundError(errors.New("timeout")))
	assert.False(t, IsAccountNotFoundError(nil))
}
