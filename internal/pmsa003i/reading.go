package pmsa003i

import (
	"encoding/binary"

	"github.com/go-sensors/core/pm"
	"github.com/go-sensors/core/units"
)

// Particle size upper bounds of the three concentration bands.
const (
	pm10UpperBoundSize  = 1 * units.Micrometer
	pm25UpperBoundSize  = 2_500 * units.Nanometer
	pm100UpperBoundSize = 10 * units.Micrometer
)

// Reading holds one decoded measurement set from the sensor. All fields are
// value-as-transmitted; the protocol defines no illegal values.
//
// The environmental concentrations account for ambient conditions and are
// the ones used in AQI reporting. The CF=1 "standard particle" values and
// the per-0.1L particle counts are retained for completeness and debugging.
type Reading struct {
	PM10Std  uint16 // PM1.0 µg/m³, CF=1 standard particle
	PM25Std  uint16 // PM2.5 µg/m³, CF=1 standard particle
	PM100Std uint16 // PM10 µg/m³, CF=1 standard particle

	PM10Env  uint16 // PM1.0 µg/m³, atmospheric environment
	PM25Env  uint16 // PM2.5 µg/m³, atmospheric environment
	PM100Env uint16 // PM10 µg/m³, atmospheric environment

	Particles03  uint16 // particles >0.3µm per 0.1L air
	Particles05  uint16 // particles >0.5µm per 0.1L air
	Particles10  uint16 // particles >1.0µm per 0.1L air
	Particles25  uint16 // particles >2.5µm per 0.1L air
	Particles50  uint16 // particles >5.0µm per 0.1L air
	Particles100 uint16 // particles >10µm per 0.1L air
}

// DecodeReading extracts the twelve big-endian measurement fields at byte
// offsets 4 through 27. The caller is expected to have validated the frame
// first; the only failure mode left is a truncated buffer.
func DecodeReading(buf []byte) (Reading, error) {
	if len(buf) < FrameLen {
		return Reading{}, &FrameLengthError{Got: len(buf), Want: FrameLen}
	}
	return Reading{
		PM10Std:      binary.BigEndian.Uint16(buf[4:6]),
		PM25Std:      binary.BigEndian.Uint16(buf[6:8]),
		PM100Std:     binary.BigEndian.Uint16(buf[8:10]),
		PM10Env:      binary.BigEndian.Uint16(buf[10:12]),
		PM25Env:      binary.BigEndian.Uint16(buf[12:14]),
		PM100Env:     binary.BigEndian.Uint16(buf[14:16]),
		Particles03:  binary.BigEndian.Uint16(buf[16:18]),
		Particles05:  binary.BigEndian.Uint16(buf[18:20]),
		Particles10:  binary.BigEndian.Uint16(buf[20:22]),
		Particles25:  binary.BigEndian.Uint16(buf[22:24]),
		Particles50:  binary.BigEndian.Uint16(buf[24:26]),
		Particles100: binary.BigEndian.Uint16(buf[26:28]),
	}, nil
}

// Concentrations returns the environmental bands as mass concentrations,
// smallest particle size first.
func (r Reading) Concentrations() []*pm.Concentration {
	return []*pm.Concentration{
		{
			UpperBoundSize: pm10UpperBoundSize,
			Amount:         units.MassConcentration(r.PM10Env) * units.MicrogramPerCubicMeter,
		},
		{
			UpperBoundSize: pm25UpperBoundSize,
			Amount:         units.MassConcentration(r.PM25Env) * units.MicrogramPerCubicMeter,
		},
		{
			UpperBoundSize: pm100UpperBoundSize,
			Amount:         units.MassConcentration(r.PM100Env) * units.MicrogramPerCubicMeter,
		},
	}
}
