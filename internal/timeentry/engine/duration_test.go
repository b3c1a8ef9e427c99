package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeDuration(t *testing.T) {
	tests := []struct {
		name      string
		startTime string
		endTime   string
		want      float64
	}{
		{name: "standard morning block", startTime: "09:00", endTime: "17:30", want: 8.5},
		{name: "overnight shift wraps midnight", startTime: "22:00", endTime: "02:00", want: 4.0},
		{name: "quarter hour", startTime: "10:00", endTime: "10:15", want: 0.25},
		{name: "one minute", startTime: "10:00", endTime: "10:01", want: 0.02},
		{name: "almost full day wrap", startTime: "00:30", endTime: "00:00", want: 23.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeDuration(tt.startTime, tt.endTime)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeDuration_EqualTimesYieldZero(t *testing.T) {
	got, err := ComputeDuration("09:00", "09:00")
	assert.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestComputeDuration_Malformed(t *testing.T) {
	for _, raw := range []string{"", "9", "9:0x", "25:00", "09:61", "banana"} {
		_, err := ComputeDuration(raw, "10:00")
		assert.ErrorIs(t, err, ErrMalformedTime, "start %q", raw)

		_, err = ComputeDuration("10:00", raw)
		assert.ErrorIs(t, err, ErrMalformedTime, "end %q", raw)
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.1, Round2(0.10000000000000003))
	assert.Equal(t, 2.68, Round2(2.675000001))
	assert.Equal(t, -1.23, Round2(-1.2349))
}
