// Package aqi converts PM2.5 mass concentrations (µg/m³) into EPA Air
// Quality Index values and maps those onto the EPA severity categories.
//
// Breakpoints follow the EPA's 2024 PM2.5 update:
// https://www.epa.gov/system/files/documents/2024-02/pm-naaqs-air-quality-index-fact-sheet.pdf
// Values may be cross-checked with the calculator at
// https://www.airnow.gov/aqi/aqi-calculator-concentration/
package aqi

import "math"

// Max is the top of the AQI scale. Concentrations above the highest
// breakpoint band saturate here instead of extrapolating.
const Max uint16 = 500

// Severity is one of the six EPA AQI categories, in ascending order of
// health risk.
type Severity int

const (
	Good Severity = iota
	Moderate
	UnhealthyForSensitive
	Unhealthy
	VeryUnhealthy
	Hazardous
)

// NumSeverities is the count of distinct categories, for collaborators that
// allocate one output per category.
const NumSeverities = 6

func (s Severity) String() string {
	switch s {
	case Good:
		return "good"
	case Moderate:
		return "moderate"
	case UnhealthyForSensitive:
		return "unhealthy-for-sensitive-groups"
	case Unhealthy:
		return "unhealthy"
	case VeryUnhealthy:
		return "very-unhealthy"
	case Hazardous:
		return "hazardous"
	default:
		return "unknown"
	}
}

type breakpoint struct {
	concLow, concHigh float64
	aqiLow, aqiHigh   uint16
}

// Adjacent bands deliberately leave a 0.1 µg/m³ gap (9.0 to 9.1, and so on),
// matching the published EPA table. A concentration landing exactly in a gap
// matches no band and saturates to Max; correctly rounded sensor output
// never produces such a value.
var breakpoints = [6]breakpoint{
	{0.0, 9.0, 0, 50},
	{9.1, 35.4, 51, 100},
	{35.5, 55.4, 101, 150},
	{55.5, 125.4, 151, 200},
	{125.5, 225.4, 201, 300},
	{225.5, 500.0, 301, 500},
}

// FromPM25 computes the AQI for a PM2.5 concentration in µg/m³. It is total:
// inputs above the last band return Max.
//
// Within a band the EPA formula is linear interpolation,
//
//	AQI = (AQIhigh-AQIlow)/(Chigh-Clow) * (C-Clow) + AQIlow
//
// rounded half away from zero.
func FromPM25(concentration float64) uint16 {
	for _, b := range breakpoints {
		if concentration >= b.concLow && concentration <= b.concHigh {
			slope := float64(b.aqiHigh-b.aqiLow) / (b.concHigh - b.concLow)
			return uint16(math.Round(slope*(concentration-b.concLow) + float64(b.aqiLow)))
		}
	}
	return Max
}

// SeverityOf maps an AQI value onto its category. Contiguous inclusive
// ranges; everything above 300 is Hazardous.
func SeverityOf(aqi uint16) Severity {
	switch {
	case aqi <= 50:
		return Good
	case aqi <= 100:
		return Moderate
	case aqi <= 150:
		return UnhealthyForSensitive
	case aqi <= 200:
		return Unhealthy
	case aqi <= 300:
		return VeryUnhealthy
	default:
		return Hazardous
	}
}
