package param

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Common parameter formatters and parsers

// DecibelFormatter formats dB values
func DecibelFormatter(db float64) string {
	if db <= -60 {
		return "-∞ dB"
	}
	return fmt.Sprintf("%.1f dB", db)
}

// DecibelParser parses dB strings
func DecibelParser(str string) (float64, error) {
	if strings.Contains(str, "∞") || strings.Contains(str, "inf") {
		return -96.0, nil
	}
	str = strings.TrimSuffix(strings.TrimSpace(str), "dB")
	str = strings.TrimSuffix(strings.TrimSpace(str), "db")
	return strconv.ParseFloat(strings.TrimSpace(str), 64)
}

// TimeFormatter formats time values with appropriate units
func TimeFormatter(ms float64) string {
	switch {
	case ms == 0:
		return "Off"
	case ms < 1:
		return fmt.Sprintf("%.2f µs", ms*1000)
	case ms < 1000:
		return fmt.Sprintf("%.1f ms", ms)
	}
	return fmt.Sprintf("%.2f s", ms/1000)
}

// TimeParser parses time strings into milliseconds
func TimeParser(str string) (float64, error) {
	str = strings.ToLower(strings.TrimSpace(str))

	if str == "off" {
		return 0, nil
	}

	if strings.HasSuffix(str, "µs") || strings.HasSuffix(str, "us") {
		numStr := strings.TrimSuffix(strings.TrimSuffix(str, "µs"), "us")
		val, err := strconv.ParseFloat(strings.TrimSpace(numStr), 64)
		if err != nil {
			return 0, err
		}
		return val / 1000, nil
	}

	if strings.HasSuffix(str, "s") && !strings.HasSuffix(str, "ms") {
		val, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(str, "s")), 64)
		if err != nil {
			return 0, err
		}
		return val * 1000, nil
	}

	return strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(str, "ms")), 64)
}

// PanFormatter formats a pan position (0-1) by the side the image moves to.
// Below center the left gain drops, so the image leans right.
func PanFormatter(pos float64) string {
	offset := (pos - 0.5) * 200
	switch {
	case math.Abs(offset) < 0.5:
		return "C"
	case offset < 0:
		return fmt.Sprintf("%.0fR", -offset)
	}
	return fmt.Sprintf("%.0fL", offset)
}

// PanParser parses strings produced by PanFormatter, or a plain position.
func PanParser(str string) (float64, error) {
	str = strings.ToUpper(strings.TrimSpace(str))

	if str == "C" || str == "CENTER" {
		return 0.5, nil
	}

	side := 0.0
	switch {
	case strings.HasSuffix(str, "L"):
		side = 1
	case strings.HasSuffix(str, "R"):
		side = -1
	}
	if side == 0 {
		return strconv.ParseFloat(str, 64)
	}

	numStr := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(str[:len(str)-1]), "%"))
	val, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid pan value: %s", str)
	}
	return 0.5 + side*val/200, nil
}
