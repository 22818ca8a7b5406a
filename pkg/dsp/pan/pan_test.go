package pan

import (
	"errors"
	"math"
	"testing"
)

func TestComputeGains(t *testing.T) {
	tests := []struct {
		name      string
		pos       float32
		wantLeft  float32
		wantRight float32
	}{
		{"Hard left", 0.0, 0.0, 1.0},
		{"Quarter left", 0.25, 0.5, 1.0},
		{"Center", 0.5, 1.0, 1.0},
		{"Quarter right", 0.75, 1.0, 0.5},
		{"Hard right", 1.0, 1.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := ComputeGains(tt.pos)
			if g.Left != tt.wantLeft || g.Right != tt.wantRight {
				t.Errorf("ComputeGains(%v) = (%v, %v), want (%v, %v)",
					tt.pos, g.Left, g.Right, tt.wantLeft, tt.wantRight)
			}
		})
	}
}

func TestComputeGainsSweep(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		pos := float32(i) / 1000
		g := ComputeGains(pos)

		if g.Left < 0 || g.Left > 1 || g.Right < 0 || g.Right > 1 {
			t.Fatalf("gains out of range at %v: %+v", pos, g)
		}

		if pos <= 0.5 {
			if g.Right != 1 {
				t.Errorf("pos %v: right = %v, want 1", pos, g.Right)
			}
			if math.Abs(float64(g.Left-2*pos)) > 1e-6 {
				t.Errorf("pos %v: left = %v, want %v", pos, g.Left, 2*pos)
			}
		}
		if pos >= 0.5 {
			if g.Left != 1 {
				t.Errorf("pos %v: left = %v, want 1", pos, g.Left)
			}
			if math.Abs(float64(g.Right-2*(1-pos))) > 1e-6 {
				t.Errorf("pos %v: right = %v, want %v", pos, g.Right, 2*(1-pos))
			}
		}
	}
}

func TestComputeGainsOutOfRangeIsBounded(t *testing.T) {
	// The min/max structure keeps the near channel at unity even when the
	// position overshoots; only the far channel leaves [0, 1].
	g := ComputeGains(-0.5)
	if g.Right != 1 || g.Left != -1 {
		t.Errorf("ComputeGains(-0.5) = %+v", g)
	}
	g = ComputeGains(1.5)
	if g.Left != 1 || g.Right != -1 {
		t.Errorf("ComputeGains(1.5) = %+v", g)
	}
}

func TestValidate(t *testing.T) {
	valid := []float32{0, 0.25, 0.5, 1}
	for _, v := range valid {
		if err := Validate(v); err != nil {
			t.Errorf("Validate(%v) = %v", v, err)
		}
	}

	invalid := []float32{-0.001, 1.001, float32(math.NaN()), float32(math.Inf(1))}
	for _, v := range invalid {
		if err := Validate(v); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Validate(%v) = %v, want ErrOutOfRange", v, err)
		}
	}
}

func TestApplyScenarios(t *testing.T) {
	tests := []struct {
		name      string
		pos       float32
		left      []float32
		right     []float32
		wantLeft  []float32
		wantRight []float32
	}{
		{
			name:      "Quarter left",
			pos:       0.25,
			left:      []float32{1, 1},
			right:     []float32{1, 1},
			wantLeft:  []float32{0.5, 0.5},
			wantRight: []float32{1, 1},
		},
		{
			name:      "Three quarters right",
			pos:       0.75,
			left:      []float32{2},
			right:     []float32{2},
			wantLeft:  []float32{2},
			wantRight: []float32{1},
		},
		{
			name:      "Hard right mutes left gain only",
			pos:       1.0,
			left:      []float32{3},
			right:     []float32{3},
			wantLeft:  []float32{3},
			wantRight: []float32{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := StereoBuffer{Left: tt.left, Right: tt.right}
			if err := Apply(buf, ComputeGains(tt.pos)); err != nil {
				t.Fatalf("Apply: %v", err)
			}
			for i := range tt.wantLeft {
				if buf.Left[i] != tt.wantLeft[i] {
					t.Errorf("left[%d] = %v, want %v", i, buf.Left[i], tt.wantLeft[i])
				}
				if buf.Right[i] != tt.wantRight[i] {
					t.Errorf("right[%d] = %v, want %v", i, buf.Right[i], tt.wantRight[i])
				}
			}
		})
	}
}

func TestApplyCompounds(t *testing.T) {
	buf := StereoBuffer{Left: []float32{1, -1}, Right: []float32{1, -1}}
	g := ComputeGains(0.25)

	if err := Apply(buf, g); err != nil {
		t.Fatal(err)
	}
	if buf.Left[0] != 0.5 || buf.Left[1] != -0.5 {
		t.Fatalf("single application: left = %v", buf.Left)
	}

	if err := Apply(buf, g); err != nil {
		t.Fatal(err)
	}
	if buf.Left[0] != 0.25 || buf.Left[1] != -0.25 {
		t.Errorf("second application should compound to gain^2: left = %v", buf.Left)
	}
	if buf.Right[0] != 1 || buf.Right[1] != -1 {
		t.Errorf("unity channel changed: right = %v", buf.Right)
	}
}

func TestApplyRejectsBadBuffers(t *testing.T) {
	mismatch := StereoBuffer{Left: []float32{1, 2}, Right: []float32{1}}
	if err := Apply(mismatch, Unity); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("mismatched lengths: got %v", err)
	}
	if mismatch.Left[0] != 1 || mismatch.Right[0] != 1 {
		t.Error("rejected buffer was modified")
	}

	if err := Apply(StereoBuffer{}, Unity); !errors.Is(err, ErrEmptyBuffer) {
		t.Errorf("empty buffer: got %v", err)
	}
}

func TestApplyRamp(t *testing.T) {
	buf := StereoBuffer{
		Left:  []float32{1, 1, 1, 1, 1},
		Right: []float32{1, 1, 1, 1, 1},
	}
	from := Gains{Left: 0, Right: 1}
	to := Gains{Left: 1, Right: 0}

	if err := ApplyRamp(buf, from, to); err != nil {
		t.Fatal(err)
	}

	wantLeft := []float32{0, 0.25, 0.5, 0.75, 1}
	wantRight := []float32{1, 0.75, 0.5, 0.25, 0}
	for i := range wantLeft {
		if math.Abs(float64(buf.Left[i]-wantLeft[i])) > 1e-6 {
			t.Errorf("left[%d] = %v, want %v", i, buf.Left[i], wantLeft[i])
		}
		if math.Abs(float64(buf.Right[i]-wantRight[i])) > 1e-6 {
			t.Errorf("right[%d] = %v, want %v", i, buf.Right[i], wantRight[i])
		}
	}
}

func TestApplyRampEqualGainsMatchesApply(t *testing.T) {
	a := StereoBuffer{Left: []float32{0.3, 0.6}, Right: []float32{0.9, -0.2}}
	b := StereoBuffer{Left: []float32{0.3, 0.6}, Right: []float32{0.9, -0.2}}
	g := ComputeGains(0.8)

	if err := ApplyRamp(a, g, g); err != nil {
		t.Fatal(err)
	}
	if err := Apply(b, g); err != nil {
		t.Fatal(err)
	}
	for i := range a.Left {
		if a.Left[i] != b.Left[i] || a.Right[i] != b.Right[i] {
			t.Errorf("sample %d differs: ramp=(%v,%v) apply=(%v,%v)",
				i, a.Left[i], a.Right[i], b.Left[i], b.Right[i])
		}
	}
}

func TestLaws(t *testing.T) {
	tests := []struct {
		name string
		law  Law
	}{
		{"Unity", UnityCenter},
		{"Linear", Linear},
		{"ConstantPower", ConstantPower},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left := tt.law.Gains(0)
			if left.Left > 0.001 || left.Right < 0.999 {
				t.Errorf("hard left incorrect: %+v", left)
			}
			right := tt.law.Gains(1)
			if right.Right > 0.001 || right.Left < 0.999 {
				t.Errorf("hard right incorrect: %+v", right)
			}
			center := tt.law.Gains(0.5)
			if math.Abs(float64(center.Left-center.Right)) > 0.001 {
				t.Errorf("center not balanced: %+v", center)
			}
			if tt.law == ConstantPower {
				power := center.Left*center.Left + center.Right*center.Right
				if math.Abs(float64(power-1)) > 0.01 {
					t.Errorf("constant power violation at center: %f", power)
				}
			}
		})
	}
}

func TestParseLaw(t *testing.T) {
	for _, law := range Laws() {
		got, err := ParseLaw(law.String())
		if err != nil || got != law {
			t.Errorf("ParseLaw(%q) = %v, %v", law.String(), got, err)
		}
	}

	if got, err := ParseLaw(" Equal-Power "); err != nil || got != ConstantPower {
		t.Errorf("alias not accepted: %v, %v", got, err)
	}
	if _, err := ParseLaw("surround"); err == nil {
		t.Error("expected error for unknown law")
	}
}

func BenchmarkApply(b *testing.B) {
	buf := StereoBuffer{Left: make([]float32, 512), Right: make([]float32, 512)}
	g := ComputeGains(0.3)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Apply(buf, g)
	}
}
