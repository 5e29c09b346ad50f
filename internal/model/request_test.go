package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest_Defaults(t *testing.T) {
	req, err := NewRequest("Goal", "2-1", Options{})
	require.NoError(t, err)

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, "Goal", req.Title)
	assert.Equal(t, "2-1", req.Message)
	assert.Equal(t, DefaultDuration, req.Options.Duration)
	assert.Equal(t, DefaultIcon, req.Options.Icon)
	assert.Empty(t, req.Options.BgColor)
}

func TestNewRequest_KeepsExplicitOptions(t *testing.T) {
	req, err := NewRequest("Goal", "2-1", Options{
		Duration: 8000,
		Icon:     "⚽",
		BgColor:  "#004400",
	})
	require.NoError(t, err)

	assert.Equal(t, 8000, req.Options.Duration)
	assert.Equal(t, "⚽", req.Options.Icon)
	assert.Equal(t, "#004400", req.Options.BgColor)
}

func TestNewRequest_UniqueIDs(t *testing.T) {
	a, err := NewRequest("a", "", Options{})
	require.NoError(t, err)
	b, err := NewRequest("b", "", Options{})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{
			name: "valid",
			req:  Request{Title: "Goal", Options: Options{Duration: 5000}},
		},
		{
			name:    "empty title",
			req:     Request{Options: Options{Duration: 5000}},
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "zero duration",
			req:     Request{Title: "Goal"},
			wantErr: ErrInvalidDuration,
		},
		{
			name:    "bad color",
			req:     Request{Title: "Goal", Options: Options{Duration: 5000, BgColor: "#12"}},
			wantErr: ErrInvalidColor,
		},
		{
			name: "hex color",
			req:  Request{Title: "Goal", Options: Options{Duration: 5000, BgColor: "#abc123"}},
		},
		{
			name: "named color",
			req:  Request{Title: "Goal", Options: Options{Duration: 5000, BgColor: "black"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidColor(t *testing.T) {
	assert.True(t, ValidColor("#fff"))
	assert.True(t, ValidColor("#00FF00"))
	assert.True(t, ValidColor("crimson"))
	assert.False(t, ValidColor("#ffff"))
	assert.False(t, ValidColor("not a color"))
	assert.False(t, ValidColor("#gggggg"))
}

func TestOptionsDurationTime(t *testing.T) {
	o := Options{Duration: 1500}
	assert.Equal(t, int64(1500), o.DurationTime().Milliseconds())
}
