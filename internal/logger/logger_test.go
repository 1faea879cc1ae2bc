package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level   string
		enabled zap.AtomicLevel
		wantErr bool
	}{
		{level: "", enabled: zap.NewAtomicLevelAt(zap.WarnLevel)},
		{level: "debug", enabled: zap.NewAtomicLevelAt(zap.DebugLevel)},
		{level: "error", enabled: zap.NewAtomicLevelAt(zap.ErrorLevel)},
		{level: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l, err := New(tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.enabled.Level()))
			if tt.enabled.Level() > zap.DebugLevel {
				assert.False(t, l.Core().Enabled(tt.enabled.Level()-1))
			}
		})
	}
}

func TestNamed(t *testing.T) {
	assert.NotNil(t, Named(nil, "shell"))
	assert.NotNil(t, Named(zap.NewNop(), "shell"))
}
