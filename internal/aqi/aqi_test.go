package aqi

import "testing"

func TestFromPM25(t *testing.T) {
	t.Run("reference values", func(t *testing.T) {
		// Confirmed with https://www.airnow.gov/aqi/aqi-calculator-concentration/
		cases := []struct {
			pm25 float64
			want uint16
		}{
			{0.0, 0},
			{4.5, 25},
			{9.0, 50},
			{35.5, 101},
			{41.0, 115},
			{45.0, 124},
			{55.4, 150},
			{55.5, 151},
			{90.0, 175},
			{125.4, 200},
			{125.5, 201},
			{175.0, 250},
			{225.4, 300},
			{225.5, 301},
			{500.0, 500},
		}
		for _, c := range cases {
			if got := FromPM25(c.pm25); got != c.want {
				t.Errorf("FromPM25(%v) = %d; want %d", c.pm25, got, c.want)
			}
		}
	})

	t.Run("saturates above the scale", func(t *testing.T) {
		for _, pm25 := range []float64{500.1, 600.0, 12345.0} {
			if got := FromPM25(pm25); got != Max {
				t.Errorf("FromPM25(%v) = %d; want %d", pm25, got, Max)
			}
		}
	})

	t.Run("continuous across band boundaries", func(t *testing.T) {
		edges := []struct{ below, above float64 }{
			{9.0, 9.1},
			{35.4, 35.5},
			{55.4, 55.5},
			{125.4, 125.5},
			{225.4, 225.5},
		}
		for _, e := range edges {
			lo, hi := FromPM25(e.below), FromPM25(e.above)
			if hi-lo != 1 {
				t.Errorf("FromPM25(%v)=%d, FromPM25(%v)=%d; want adjacent values", e.below, lo, e.above, hi)
			}
		}
	})

	t.Run("monotonic within each band", func(t *testing.T) {
		for _, b := range breakpoints {
			prev := FromPM25(b.concLow)
			step := (b.concHigh - b.concLow) / 20
			for c := b.concLow + step; c <= b.concHigh; c += step {
				got := FromPM25(c)
				if got < prev {
					t.Fatalf("FromPM25 not monotonic in band [%v,%v]: %d after %d at %v", b.concLow, b.concHigh, got, prev, c)
				}
				prev = got
			}
		}
	})
}

func TestSeverityOf(t *testing.T) {
	cases := []struct {
		aqi  uint16
		want Severity
	}{
		{0, Good},
		{25, Good},
		{50, Good},
		{51, Moderate},
		{100, Moderate},
		{101, UnhealthyForSensitive},
		{150, UnhealthyForSensitive},
		{151, Unhealthy},
		{200, Unhealthy},
		{201, VeryUnhealthy},
		{300, VeryUnhealthy},
		{301, Hazardous},
		{500, Hazardous},
		{9999, Hazardous},
	}
	for _, c := range cases {
		if got := SeverityOf(c.aqi); got != c.want {
			t.Errorf("SeverityOf(%d) = %v; want %v", c.aqi, got, c.want)
		}
	}
}

func TestSeverityString(t *testing.T) {
	if got := UnhealthyForSensitive.String(); got != "unhealthy-for-sensitive-groups" {
		t.Errorf("UnhealthyForSensitive.String() = %q", got)
	}
	if got := Severity(42).String(); got != "unknown" {
		t.Errorf("Severity(42).String() = %q; want unknown", got)
	}
}
