package gain

import (
	"math"
	"testing"
)

func TestDbConversion(t *testing.T) {
	tests := []struct {
		name    string
		linear  float64
		db      float64
		epsilon float64
	}{
		{"Unity gain", 1.0, 0.0, 0.001},
		{"Half amplitude", 0.5, -6.02, 0.01},
		{"Double amplitude", 2.0, 6.02, 0.01},
		{"Quarter amplitude", 0.25, -12.04, 0.01},
		{"Zero amplitude", 0.0, MinDB, 0.001},
		{"Negative amplitude", -1.0, MinDB, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotDb := LinearToDb(tt.linear)
			if math.Abs(gotDb-tt.db) > tt.epsilon {
				t.Errorf("LinearToDb(%f) = %f, want %f", tt.linear, gotDb, tt.db)
			}

			if tt.db != MinDB {
				gotLinear := DbToLinear(tt.db)
				if math.Abs(gotLinear-math.Abs(tt.linear)) > tt.epsilon {
					t.Errorf("DbToLinear(%f) = %f, want %f", tt.db, gotLinear, math.Abs(tt.linear))
				}
			}
		})
	}

	if DbToLinear(MinDB) != 0 {
		t.Error("DbToLinear(MinDB) should be 0")
	}
}

func TestApplyBuffer(t *testing.T) {
	buffer := []float32{1.0, 0.5, -0.5, -1.0}
	expected := []float32{0.5, 0.25, -0.25, -0.5}

	ApplyBuffer(buffer, 0.5)

	for i, v := range buffer {
		if v != expected[i] {
			t.Errorf("ApplyBuffer: buffer[%d] = %f, want %f", i, v, expected[i])
		}
	}
}

func TestFade(t *testing.T) {
	buffer := []float32{1.0, 1.0, 1.0, 1.0}

	Fade(buffer, 0, 1)

	for i := range buffer {
		expectedGain := float32(i) / float32(len(buffer)-1)
		if math.Abs(float64(buffer[i]-expectedGain)) > 0.001 {
			t.Errorf("Fade: buffer[%d] = %f, want ~%f", i, buffer[i], expectedGain)
		}
	}
	if buffer[3] != 1 {
		t.Errorf("Fade should land exactly on the end gain, got %f", buffer[3])
	}

	single := []float32{2}
	Fade(single, 0, 0.5)
	if single[0] != 1 {
		t.Errorf("single-sample fade should use the end gain, got %f", single[0])
	}

	Fade(nil, 0, 1)
}

func BenchmarkApplyBuffer(b *testing.B) {
	buffer := make([]float32, 512)
	for i := 0; i < b.N; i++ {
		ApplyBuffer(buffer, 0.5)
	}
}
