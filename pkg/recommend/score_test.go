package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTargetScore(t *testing.T) {
	tests := []struct {
		sim  float64
		want int
	}{
		{1, 100},
		{0.876, 88},
		{0.125, 13},
		{0, 0},
		{-0.4, 0},
		{1.2, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TargetScore(tt.sim), "sim=%v", tt.sim)
	}
}

func TestReachScore(t *testing.T) {
	tests := []struct {
		sim  float64
		want int
	}{
		{1, 80},
		{0.91, 71},
		{0.7, 50},
		{0.69, 50},
		{0, 50},
		{-1, 50},
		{1.5, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReachScore(tt.sim), "sim=%v", tt.sim)
	}
}
