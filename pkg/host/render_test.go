package host

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nla/simplepanner/pkg/panner"
)

// constant streams n frames of v on both channels.
func constant(n int, v float64) beep.Streamer {
	left := n
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if left == 0 {
			return 0, false
		}
		count := min(len(samples), left)
		for i := range samples[:count] {
			samples[i] = [2]float64{v, v}
		}
		left -= count
		return count, true
	})
}

func drain(t *testing.T, s beep.Streamer, size int) [][2]float64 {
	t.Helper()
	var out [][2]float64
	buf := make([][2]float64, size)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			break
		}
	}
	require.NoError(t, s.Err())
	return out
}

func TestRendererAutomation(t *testing.T) {
	h := activeHost(t, 4)

	automation := Automation{
		{Frame: 9, ParamID: panner.ParamPan, Value: 1},
		{Frame: 4, ParamID: panner.ParamPan, Value: 0},
	}
	r := NewRenderer(h, constant(12, 1), automation)

	out := drain(t, r, 5)
	require.Len(t, out, 12)

	for i := 0; i < 4; i++ {
		assert.Equal(t, [2]float64{1, 1}, out[i], "frame %d at center", i)
	}
	for i := 4; i < 8; i++ {
		assert.Equal(t, [2]float64{0, 1}, out[i], "frame %d hard zero", i)
	}
	// Frame 9 lands in the block starting at 8, so the whole block moves.
	for i := 8; i < 12; i++ {
		assert.Equal(t, [2]float64{1, 0}, out[i], "frame %d hard one", i)
	}

	assert.Equal(t, 12, r.Frames())
	stats := r.Stats()
	assert.InDelta(t, 1.0, stats.PeakLeft, 1e-6)
	assert.InDelta(t, 1.0, stats.PeakRight, 1e-6)
	assert.Equal(t, 48000, stats.SampleRate)
	assert.Equal(t, 16, stats.Clipped, "full-scale samples count as clipped")
	assert.Zero(t, stats.NaNs)
}

func TestRendererStopsOnError(t *testing.T) {
	h := newHost(t)
	require.NoError(t, h.Setup(48000, 4))

	r := NewRenderer(h, constant(8, 1), nil)
	buf := make([][2]float64, 8)
	n, ok := r.Stream(buf)
	assert.Zero(t, n)
	assert.False(t, ok)
	assert.ErrorIs(t, r.Err(), ErrNotActive)
}

func writeWAV(t *testing.T, path string, s beep.Streamer, rate int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	format := beep.Format{SampleRate: beep.SampleRate(rate), NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, s, format))
}

func TestWAVRoundTripKeepsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.wav")
	writeWAV(t, path, constant(64, 0.5), 48000)

	f, err := os.Open(path)
	require.NoError(t, err)
	decoded, _, err := wav.Decode(f)
	require.NoError(t, err)
	defer decoded.Close()

	samples := drain(t, decoded, 16)
	require.Len(t, samples, 64)
	for _, s := range samples {
		assert.InDelta(t, 0.5, s[0], 1e-3)
		assert.InDelta(t, 0.5, s[1], 1e-3)
	}
}

func TestRenderFile(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wav")
	outPath := filepath.Join(dir, "out.wav")
	writeWAV(t, inPath, constant(1000, 0.5), 22050)

	h := newHost(t)
	require.True(t, h.Parameters().SetValue(panner.ParamPan, 0.75))

	in, err := os.Open(inPath)
	require.NoError(t, err)
	out, err := os.Create(outPath)
	require.NoError(t, err)
	defer out.Close()

	stats, err := h.RenderFile(context.Background(), in, out, nil)
	require.NoError(t, err)
	assert.Equal(t, 1000, stats.Frames)
	assert.Equal(t, 22050, stats.SampleRate)
	assert.Equal(t, 22050.0, h.SampleRate())
	assert.Zero(t, stats.Clipped)

	f, err := os.Open(outPath)
	require.NoError(t, err)
	decoded, format, err := wav.Decode(f)
	require.NoError(t, err)
	defer decoded.Close()
	assert.Equal(t, beep.SampleRate(22050), format.SampleRate)

	samples := drain(t, decoded, 256)
	require.Len(t, samples, 1000)
	for _, s := range samples {
		assert.InDelta(t, 0.5, s[0], 1e-3)
		assert.InDelta(t, 0.25, s[1], 1e-3)
	}
}

func TestRenderFileCanceled(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wav")
	writeWAV(t, inPath, constant(100, 0.5), 44100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in, err := os.Open(inPath)
	require.NoError(t, err)
	out, err := os.Create(filepath.Join(dir, "out.wav"))
	require.NoError(t, err)
	defer out.Close()

	_, err = newHost(t).RenderFile(ctx, in, out, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderFileRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wav")
	require.NoError(t, os.WriteFile(inPath, []byte("not a wav file at all, just text padding it out"), 0o644))

	in, err := os.Open(inPath)
	require.NoError(t, err)
	out, err := os.Create(filepath.Join(dir, "out.wav"))
	require.NoError(t, err)
	defer out.Close()

	_, err = newHost(t).RenderFile(context.Background(), in, out, nil)
	assert.Error(t, err)
}

func TestAutomationSorted(t *testing.T) {
	a := Automation{{Frame: 5, Value: 1}, {Frame: 1}, {Frame: 5, Value: 2}}
	s := a.Sorted()
	assert.Equal(t, []int{1, 5, 5}, []int{s[0].Frame, s[1].Frame, s[2].Frame})
	assert.Equal(t, 1.0, s[1].Value, "stable order on equal frames")
	assert.Equal(t, 5, a[0].Frame, "input untouched")
}
