package subtitle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want Time
	}{
		{"00:00:01,000", 1000},
		{"1:02:03.45", NewTime(1, 2, 3, 450)},
		{"0:00:01.5", 1500},
		{"10:59:59,999", NewTime(10, 59, 59, 999)},
		{"99:00:00,000", NewTime(99, 0, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTime(tt.in, FormatSRT, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseClockTimestampMalformed(t *testing.T) {
	for _, in := range []string{
		"",
		"abc",
		"0:61:00.00",
		"0:00:61.00",
		"1:2:3",
		"00.00.01,000",
		"00:00:01,0000",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseTime(in, FormatSRT, 0)
			require.ErrorIs(t, err, ErrMalformedTimestamp)
		})
	}
}

func TestParseVTTTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want Time
	}{
		{"00:05.000", 5000},
		{"01:00:05.123", NewTime(1, 0, 5, 123)},
		{"00:01.50", NewTime(0, 0, 1, 500)},
		{"9999:00:00.000", NewTime(9999, 0, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTime(tt.in, FormatVTT, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseTime("05.000", FormatVTT, 0)
	require.ErrorIs(t, err, ErrMalformedTimestamp)
}

func TestParseFrameAndDecisecondTimestamps(t *testing.T) {
	got, err := ParseTime("100", FormatMicroDVD, 25)
	require.NoError(t, err)
	assert.Equal(t, Time(4000), got)

	_, err = ParseTime("100", FormatMicroDVD, 0)
	require.ErrorIs(t, err, ErrMissingFrameRate)

	got, err = ParseTime("15", FormatMPL2, 0)
	require.NoError(t, err)
	assert.Equal(t, Time(1500), got)

	_, err = ParseTime("-5", FormatMPL2, 0)
	require.ErrorIs(t, err, ErrMalformedTimestamp)
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		name   string
		t      Time
		format Format
		fps    float64
		want   string
	}{
		{"srt", 1000, FormatSRT, 0, "00:00:01,000"},
		{"srt ms", NewTime(1, 2, 3, 450), FormatSRT, 0, "01:02:03,450"},
		{"srt clamps overflow", NewTime(100, 0, 0, 500), FormatSRT, 0, "99:59:59,999"},
		{"vtt", 61500, FormatVTT, 0, "00:01:01.500"},
		{"ass centiseconds", 10000, FormatASS, 0, "0:00:10.00"},
		{"ass rounds up", 10006, FormatASS, 0, "0:00:10.01"},
		{"mpl2 rounds down", 1549, FormatMPL2, 0, "15"},
		{"mpl2 rounds up", 1550, FormatMPL2, 0, "16"},
		{"microdvd", 1001, FormatMicroDVD, 23.976, "24"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatTime(tt.t, tt.format, tt.fps)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FormatTime(1000, FormatMicroDVD, 0)
	require.ErrorIs(t, err, ErrMissingFrameRate)
}

func TestTimestampRoundTrip(t *testing.T) {
	for _, ms := range []Time{0, 1, 999, 1000, 59999, 3600000, NewTime(99, 59, 59, 999)} {
		text, err := FormatTime(ms, FormatSRT, 0)
		require.NoError(t, err)
		back, err := ParseTime(text, FormatSRT, 0)
		require.NoError(t, err)
		assert.Equal(t, ms, back, "round trip of %s", text)
	}
}

func TestFrameConversion(t *testing.T) {
	got, err := FramesToTime(24, 23.976)
	require.NoError(t, err)
	assert.Equal(t, Time(1001), got)

	frames, err := got.Frames(23.976)
	require.NoError(t, err)
	assert.Equal(t, 24, frames)

	_, err = FramesToTime(24, 0)
	require.ErrorIs(t, err, ErrMissingFrameRate)
	_, err = Time(1000).Frames(-1)
	require.ErrorIs(t, err, ErrMissingFrameRate)
}

func TestTimeHelpers(t *testing.T) {
	assert.Equal(t, Time(1500), TimeFromDuration(1500*time.Millisecond))
	assert.Equal(t, Time(0), TimeFromDuration(-time.Second))
	assert.Equal(t, 2*time.Second, Time(2000).Duration())

	assert.Equal(t, Time(0), Time(500).Shift(-1000))
	assert.Equal(t, Time(1500), Time(500).Shift(1000))

	assert.Equal(t, "1:02:03.450", NewTime(1, 2, 3, 450).String())
	assert.Equal(t, Time(0), NewTime(0, 0, -5, 0))
}
