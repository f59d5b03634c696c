package subtitle

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// Time is a millisecond-resolution timestamp. Negative values are never
// produced by constructors; Shift clamps at zero.
type Time int64

// largest timestamp representable in SubRip, ie. 99:59:59,999
const maxSubripTime Time = 100*3600*1000 - 1

var (
	// matches both SubStation and SubRip style timestamps
	timestampRegex = regexp.MustCompile(`^(\d{1,2}):(\d{1,2}):(\d{1,2})[.,](\d{1,3})$`)

	// WebVTT allows omitting the hours component
	vttTimestampRegex = regexp.MustCompile(`^(?:(\d{1,4}):)?(\d{2}):(\d{2})\.(\d{2,3})$`)
)

// NewTime builds a Time from clock components. Components need not be
// normalized (s=120 is okay) but the result is clamped at zero.
func NewTime(h, m, s, ms int) Time {
	total := Time(h)*3600000 + Time(m)*60000 + Time(s)*1000 + Time(ms)
	if total < 0 {
		return 0
	}
	return total
}

// TimeFromDuration converts a time.Duration, truncating to milliseconds.
func TimeFromDuration(d time.Duration) Time {
	if d < 0 {
		return 0
	}
	return Time(d.Milliseconds())
}

func (t Time) Duration() time.Duration {
	return time.Duration(t) * time.Millisecond
}

// Shift returns t moved by delta, clamped at zero.
func (t Time) Shift(delta Time) Time {
	shifted := t + delta
	if shifted < 0 {
		return 0
	}
	return shifted
}

func (t Time) split() (h, m, s, ms int64) {
	v := int64(t)
	h, v = v/3600000, v%3600000
	m, v = v/60000, v%60000
	s, ms = v/1000, v%1000
	return h, m, s, ms
}

// String prettyprints the time as H:MM:SS.mmm.
func (t Time) String() string {
	h, m, s, ms := t.split()
	return fmt.Sprintf("%01d:%02d:%02d.%03d", h, m, s, ms)
}

// ParseTime parses text in the given format's timestamp grammar. Frame-based
// formats (MicroDVD) and decisecond formats (MPL2) carry bare integers; the
// former requires fps and fails with ErrMissingFrameRate without it.
func ParseTime(text string, format Format, fps float64) (Time, error) {
	switch format {
	case FormatMicroDVD:
		frame, err := strconv.ParseInt(text, 10, 64)
		if err != nil || frame < 0 {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, text)
		}
		return FramesToTime(int(frame), fps)
	case FormatMPL2:
		ds, err := strconv.ParseInt(text, 10, 64)
		if err != nil || ds < 0 {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, text)
		}
		return Time(ds * 100), nil
	case FormatVTT:
		return parseVTTTimestamp(text)
	default:
		return parseClockTimestamp(text)
	}
}

func parseClockTimestamp(text string) (Time, error) {
	groups := timestampRegex.FindStringSubmatch(text)
	if groups == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, text)
	}
	h, _ := strconv.Atoi(groups[1])
	m, _ := strconv.Atoi(groups[2])
	s, _ := strconv.Atoi(groups[3])
	if m >= 60 || s >= 60 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, text)
	}
	frac, _ := strconv.Atoi(groups[4])
	// fraction is scaled by its digit count, so .5 == 500ms and .50 == 500ms
	ms := frac * pow10(3-len(groups[4]))
	return NewTime(h, m, s, ms), nil
}

func parseVTTTimestamp(text string) (Time, error) {
	groups := vttTimestampRegex.FindStringSubmatch(text)
	if groups == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, text)
	}
	h := 0
	if groups[1] != "" {
		h, _ = strconv.Atoi(groups[1])
	}
	m, _ := strconv.Atoi(groups[2])
	s, _ := strconv.Atoi(groups[3])
	if m >= 60 || s >= 60 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, text)
	}
	frac, _ := strconv.Atoi(groups[4])
	ms := frac * pow10(3-len(groups[4]))
	return NewTime(h, m, s, ms), nil
}

func pow10(n int) int {
	v := 1
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}

// FormatTime renders t in the given format's timestamp grammar, applying the
// format's rounding rule where its resolution is coarser than milliseconds.
func FormatTime(t Time, format Format, fps float64) (string, error) {
	switch format {
	case FormatSRT:
		if t > maxSubripTime {
			t = maxSubripTime
		}
		h, m, s, ms := t.split()
		return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms), nil
	case FormatVTT:
		h, m, s, ms := t.split()
		return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms), nil
	case FormatASS, FormatSSA:
		cs := (int64(t) + 5) / 10
		h := cs / 360000
		m := cs % 360000 / 6000
		s := cs % 6000 / 100
		return fmt.Sprintf("%01d:%02d:%02d.%02d", h, m, s, cs%100), nil
	case FormatMicroDVD:
		frame, err := t.Frames(fps)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(frame), nil
	case FormatMPL2:
		return strconv.FormatInt((int64(t)+50)/100, 10), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// FramesToTime converts a frame count to a Time. fps must be positive.
func FramesToTime(frames int, fps float64) (Time, error) {
	if fps <= 0 {
		return 0, ErrMissingFrameRate
	}
	return Time(math.Round(float64(frames) * 1000 / fps)), nil
}

// Frames converts t to a frame count at fps. fps must be positive.
func (t Time) Frames(fps float64) (int, error) {
	if fps <= 0 {
		return 0, ErrMissingFrameRate
	}
	return int(math.Round(float64(t) * fps / 1000)), nil
}
