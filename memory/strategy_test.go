package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want Strategy
	}{
		{"infinite", Infinite},
		{"first-fit", FirstFit},
		{"paged", Paged},
		{"virtual", Virtual},
		{" Virtual ", Virtual},
		{"FIRST-FIT", FirstFit},
	}
	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseStrategy("best-fit")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func Test_Strategy_TextRoundTrip(t *testing.T) {
	for _, s := range Strategies() {
		text, err := s.MarshalText()
		require.NoError(t, err)

		var back Strategy
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, s, back)
	}

	_, err := Strategy(0).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownStrategy)
	assert.Equal(t, "unknown", Strategy(99).String())
}

func Test_Strategy_Predicates(t *testing.T) {
	assert.False(t, Infinite.TracksMemory())
	assert.True(t, FirstFit.TracksMemory())
	assert.False(t, FirstFit.UsesFrames())
	assert.True(t, Paged.UsesFrames())
	assert.True(t, Virtual.UsesFrames())
}
