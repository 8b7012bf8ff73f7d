package media

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klapauciusisgreat/splitmp3/internal/segment"
)

// Realistic silencedetect stderr lines, interleaved with the usual
// decoder noise ffmpeg prints alongside them.
const detectOutput = `Input #0, mov,mp4,m4a,3gp,3g2,mj2, from 'book.m4a':
  Duration: 00:11:40.00, start: 0.000000, bitrate: 128 kb/s
[silencedetect @ 0x5590] silence_start: 295
size=N/A time=00:04:56.00 bitrate=N/A speed= 512x
[silencedetect @ 0x5590] silence_end: 296 | silence_duration: 1
[silencedetect @ 0x5590] silence_start: 598.042
[silencedetect @ 0x5590] silence_end: 599.5 | silence_duration: 1.458
size=N/A time=00:11:40.00 bitrate=N/A speed= 498x
`

func TestScanSilence(t *testing.T) {
	got := scanSilence(strings.NewReader(detectOutput))
	require.Len(t, got, 2)
	assert.Equal(t, segment.Interval{Start: 295, End: 296}, got[0])
	assert.Equal(t, segment.Interval{Start: 598.042, End: 599.5}, got[1])
}

func TestScanSilence_NoMarkers(t *testing.T) {
	out := "Input #0, wav, from 'x.wav':\n  Duration: 00:00:10.00\n"
	assert.Empty(t, scanSilence(strings.NewReader(out)))
}

func TestScanSilence_DoubleStartKeepsLatest(t *testing.T) {
	out := strings.Join([]string{
		"[silencedetect @ 0x1] silence_start: 10",
		"[silencedetect @ 0x1] silence_start: 20",
		"[silencedetect @ 0x1] silence_end: 21 | silence_duration: 1",
	}, "\n")
	got := scanSilence(strings.NewReader(out))
	require.Len(t, got, 1)
	assert.Equal(t, segment.Interval{Start: 20, End: 21}, got[0])
}

func TestScanSilence_EndWithoutStartIgnored(t *testing.T) {
	out := strings.Join([]string{
		"[silencedetect @ 0x1] silence_end: 5 | silence_duration: 1",
		"[silencedetect @ 0x1] silence_start: 10",
		"[silencedetect @ 0x1] silence_end: 11 | silence_duration: 1",
	}, "\n")
	got := scanSilence(strings.NewReader(out))
	require.Len(t, got, 1)
	assert.Equal(t, segment.Interval{Start: 10, End: 11}, got[0])
}

func TestScanSilence_TrailingStartDropped(t *testing.T) {
	out := strings.Join([]string{
		"[silencedetect @ 0x1] silence_start: 10",
		"[silencedetect @ 0x1] silence_end: 11 | silence_duration: 1",
		"[silencedetect @ 0x1] silence_start: 700",
	}, "\n")
	got := scanSilence(strings.NewReader(out))
	require.Len(t, got, 1)
	assert.Equal(t, segment.Interval{Start: 10, End: 11}, got[0])
}

func TestScanSilence_IgnoresMarkersOutsideSilencedetectLines(t *testing.T) {
	// Marker-shaped text from another component must not be parsed.
	out := "[other @ 0x1] silence_start: 10\n"
	assert.Empty(t, scanSilence(strings.NewReader(out)))
}

func TestMarkerValue(t *testing.T) {
	v, ok := markerValue("[silencedetect @ 0x1] silence_end: 299.5 | silence_duration: 1.5", endMarker)
	require.True(t, ok)
	assert.Equal(t, 299.5, v)

	_, ok = markerValue("[silencedetect @ 0x1] silence_end:", endMarker)
	assert.False(t, ok)

	_, ok = markerValue("[silencedetect @ 0x1] silence_end: bogus", endMarker)
	assert.False(t, ok)
}
