package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	tests := []struct {
		name   string
		ctx    func() context.Context
		wantOk bool
		want   *Run
	}{
		{
			name:   "stored run",
			ctx:    func() context.Context { return IntoContext(context.Background(), &Run{NoColor: true, InputPath: "a.json"}) },
			wantOk: true,
			want:   &Run{NoColor: true, InputPath: "a.json"},
		},
		{
			name: "empty context",
			ctx:  context.Background,
		},
		{
			name: "nil run",
			ctx:  func() context.Context { return IntoContext(context.Background(), nil) },
		},
		{
			name: "wrong type under another key",
			ctx:  func() context.Context { return context.WithValue(context.Background(), struct{}{}, "x") },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromContext(tt.ctx())
			require.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestIntoContextKeepsPointer(t *testing.T) {
	r := &Run{MinLogLevel: -1}
	got, ok := FromContext(IntoContext(context.Background(), r))
	require.True(t, ok)
	assert.Same(t, r, got)
}

func TestFromContextOrDefault(t *testing.T) {
	assert.Equal(t, NewCliParams(), FromContextOrDefault(context.Background()))

	r := &Run{NoColor: true}
	assert.Same(t, r, FromContextOrDefault(IntoContext(context.Background(), r)))
}
