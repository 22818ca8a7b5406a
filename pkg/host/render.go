package host

import (
	"context"
	"io"
	"sort"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/pkg/errors"

	"github.com/nla/simplepanner/pkg/framework/debug"
	"github.com/nla/simplepanner/pkg/framework/process"
)

// AutomationPoint sets a parameter to a normalized value at a frame.
type AutomationPoint struct {
	Frame   int     `yaml:"frame" json:"frame"`
	ParamID uint32  `yaml:"param" json:"param"`
	Value   float64 `yaml:"value" json:"value"`
}

// Automation is a list of points. Points are delivered with the block that
// contains their frame and take effect from that block's first sample.
type Automation []AutomationPoint

// Sorted returns a copy ordered by frame, keeping the input order of points
// on the same frame.
func (a Automation) Sorted() Automation {
	s := append(Automation(nil), a...)
	sort.SliceStable(s, func(i, j int) bool { return s[i].Frame < s[j].Frame })
	return s
}

// Renderer pulls audio from a beep.Streamer and runs it through the host in
// blocks of the host's max block size, independent of how many frames the
// consumer asks for. It is itself a beep.Streamer.
type Renderer struct {
	host       *Host
	src        beep.Streamer
	automation Automation
	next       int
	frame      int
	block      [][2]float64
	out        [][2]float64
	pos        int
	done       bool
	left       []float32
	right      []float32
	changes    []process.ParameterChange
	meters     [2]debug.Meter
	analyzer   *debug.AudioAnalyzer
	clipped    int
	warned     bool
	err        error
}

// NewRenderer wraps src. The host must be set up and active.
func NewRenderer(h *Host, src beep.Streamer, automation Automation) *Renderer {
	size := max(h.MaxBlockSize(), 1)
	return &Renderer{
		host:       h,
		src:        src,
		automation: automation.Sorted(),
		block:      make([][2]float64, size),
		left:       make([]float32, size),
		right:      make([]float32, size),
		changes:    make([]process.ParameterChange, 0, 8),
		analyzer:   debug.NewAudioAnalyzer(),
	}
}

// Stream implements beep.Streamer.
func (r *Renderer) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) {
		if r.pos == len(r.out) {
			if r.done || r.err != nil {
				break
			}
			if err := r.fill(); err != nil {
				r.err = err
				break
			}
			if len(r.out) == 0 {
				break
			}
		}
		c := copy(samples[n:], r.out[r.pos:])
		r.pos += c
		n += c
	}
	return n, n > 0
}

// fill reads and processes the next block.
func (r *Renderer) fill() error {
	got := 0
	for got < len(r.block) {
		k, more := r.src.Stream(r.block[got:])
		got += k
		if !more {
			r.done = true
			break
		}
		if k == 0 {
			break
		}
	}
	r.out, r.pos = r.block[:got], 0
	if got == 0 {
		return nil
	}
	if err := r.process(r.out); err != nil {
		r.out = r.out[:0]
		return err
	}
	return nil
}

func (r *Renderer) process(chunk [][2]float64) error {
	count := len(chunk)
	left, right := r.left[:count], r.right[:count]
	for i, s := range chunk {
		left[i] = float32(s[0])
		right[i] = float32(s[1])
	}

	r.changes = r.changes[:0]
	end := r.frame + count
	for r.next < len(r.automation) && r.automation[r.next].Frame < end {
		p := r.automation[r.next]
		r.changes = append(r.changes, process.ParameterChange{
			ParamID:      p.ParamID,
			Value:        p.Value,
			SampleOffset: int32(max(p.Frame-r.frame, 0)),
		})
		r.next++
	}

	if err := r.host.ProcessBlock(left, right, r.changes); err != nil {
		return errors.Wrapf(err, "block at frame %d", r.frame)
	}

	for i := range chunk {
		chunk[i][0] = float64(left[i])
		chunk[i][1] = float64(right[i])
	}
	r.meters[0].Add(left)
	r.meters[1].Add(right)
	r.check("left", left)
	r.check("right", right)
	r.frame = end
	return nil
}

// check counts clipped samples and logs the first block that clips or
// carries NaNs.
func (r *Renderer) check(name string, buf []float32) {
	res := r.analyzer.Analyze(buf)
	r.clipped += res.ClippedSamples
	if r.warned || !(res.Clipping || res.HasNaN) {
		return
	}
	r.warned = true
	for _, issue := range r.analyzer.CheckBuffer(buf, name) {
		r.host.logger.Warn("frame %d: %s", r.frame, issue)
	}
}

// Err implements beep.Streamer.
func (r *Renderer) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.src.Err()
}

// Frames returns the number of frames rendered so far.
func (r *Renderer) Frames() int {
	return r.frame
}

// Levels returns the output meters for the left and right channels.
func (r *Renderer) Levels() (left, right *debug.Meter) {
	return &r.meters[0], &r.meters[1]
}

// RenderStats summarizes a finished render.
type RenderStats struct {
	Frames     int     `yaml:"frames" json:"frames"`
	SampleRate int     `yaml:"sample_rate" json:"sample_rate"`
	PeakLeft   float32 `yaml:"peak_left" json:"peak_left"`
	PeakRight  float32 `yaml:"peak_right" json:"peak_right"`
	RMSLeft    float32 `yaml:"rms_left" json:"rms_left"`
	RMSRight   float32 `yaml:"rms_right" json:"rms_right"`
	Clipped    int     `yaml:"clipped_samples" json:"clipped_samples"`
	NaNs       int     `yaml:"nan_samples" json:"nan_samples"`
}

// Stats returns the render summary so far.
func (r *Renderer) Stats() RenderStats {
	l, rt := r.Levels()
	return RenderStats{
		Frames:     r.frame,
		SampleRate: int(r.host.SampleRate()),
		PeakLeft:   l.Peak(),
		PeakRight:  rt.Peak(),
		RMSLeft:    l.RMS(),
		RMSRight:   rt.RMS(),
		Clipped:    r.clipped,
		NaNs:       l.NaNCount() + rt.NaNCount(),
	}
}

// contextStreamer stops a stream when ctx is done.
type contextStreamer struct {
	ctx context.Context
	s   beep.Streamer
}

func (c contextStreamer) Stream(samples [][2]float64) (int, bool) {
	if c.ctx.Err() != nil {
		return 0, false
	}
	return c.s.Stream(samples)
}

func (c contextStreamer) Err() error {
	if err := c.ctx.Err(); err != nil {
		return err
	}
	return c.s.Err()
}

// RenderFile decodes a WAV file from in, renders it through the host and
// encodes the result to out with the input's format. The host is set up at
// the file's sample rate and activated if needed.
func (h *Host) RenderFile(ctx context.Context, in io.ReadCloser, out io.WriteSeeker, automation Automation) (RenderStats, error) {
	src, format, err := wav.Decode(in)
	if err != nil {
		return RenderStats{}, errors.Wrap(err, "decode input")
	}
	defer src.Close()

	if int(format.SampleRate) != int(h.sampleRate) || !h.setup {
		if h.active {
			if err := h.SetActive(false); err != nil {
				return RenderStats{}, err
			}
		}
		block := h.maxBlock
		if block <= 0 {
			block = DefaultBlockSize
		}
		if err := h.Setup(float64(format.SampleRate), block); err != nil {
			return RenderStats{}, err
		}
	}
	if err := h.SetActive(true); err != nil {
		return RenderStats{}, err
	}

	r := NewRenderer(h, contextStreamer{ctx: ctx, s: src}, automation)
	if err := wav.Encode(out, r, format); err != nil {
		return r.Stats(), errors.Wrap(err, "encode output")
	}
	if err := r.Err(); err != nil {
		return r.Stats(), errors.Wrap(err, "render")
	}

	h.logger.Info("rendered %d frames at %d Hz", r.Frames(), int(format.SampleRate))
	return r.Stats(), nil
}

// DefaultBlockSize is used when RenderFile sets up a host that was never set up.
const DefaultBlockSize = 512
