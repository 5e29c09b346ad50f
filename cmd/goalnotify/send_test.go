package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendFlagsBindToOpts(t *testing.T) {
	tests := []struct {
		flag  string
		value string
		check func(t *testing.T)
	}{
		{"title", "Goal", func(t *testing.T) { assert.Equal(t, "Goal", sendOpts.title) }},
		{"message", "2-1", func(t *testing.T) { assert.Equal(t, "2-1", sendOpts.message) }},
		{"duration", "8000", func(t *testing.T) { assert.Equal(t, 8000, sendOpts.duration) }},
		{"icon", "⚽", func(t *testing.T) { assert.Equal(t, "⚽", sendOpts.icon) }},
		{"bg", "#004400", func(t *testing.T) { assert.Equal(t, "#004400", sendOpts.bgColor) }},
		{"silent", "true", func(t *testing.T) { assert.True(t, sendOpts.silent) }},
		{"no-fallback", "true", func(t *testing.T) { assert.True(t, sendOpts.noFallback) }},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			require.NoError(t, sendCmd.Flags().Set(tt.flag, tt.value))
			tt.check(t)
		})
	}
}
