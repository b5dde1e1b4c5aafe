package pmsa003i

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-sensors/core/pm"
	"github.com/go-sensors/core/units"
	"periph.io/x/conn/v3/i2c"
)

// Device is one PMSA003I on an I2C bus. The mutex keeps the write-read
// transaction exclusive, so two acquisition cycles can never interleave on
// the same handle.
type Device struct {
	mu  sync.Mutex
	dev i2c.Dev
}

// NewDevice wraps the sensor at addr on bus. Pass zero to use the sensor's
// fixed address.
func NewDevice(bus i2c.Bus, addr uint16) *Device {
	if addr == 0 {
		addr = Addr
	}
	return &Device{dev: i2c.Dev{Bus: bus, Addr: addr}}
}

// Ping issues a bare register-address write to confirm the sensor responds.
func (d *Device) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.dev.Tx([]byte{dataRegister}, nil); err != nil {
		return fmt.Errorf("pmsa003i: ping: %w", err)
	}
	return nil
}

// ReadFrame performs one write-read transaction covering the full 32-byte
// register range. ctx is checked before the transaction is issued; the
// transaction itself runs to completion or error and is not cancelable.
func (d *Device) ReadFrame(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	buf := make([]byte, FrameLen)
	if err := d.dev.Tx([]byte{dataRegister}, buf); err != nil {
		return nil, fmt.Errorf("pmsa003i: read registers: %w", err)
	}
	return buf, nil
}

// ConcentrationSpecs returns the measurement ranges the sensor reports,
// per its datasheet.
func (d *Device) ConcentrationSpecs() []*pm.ConcentrationSpec {
	return []*pm.ConcentrationSpec{
		{
			UpperBoundSize:   pm10UpperBoundSize,
			Resolution:       1 * units.MicrogramPerCubicMeter,
			MinConcentration: 0 * units.MicrogramPerCubicMeter,
			MaxConcentration: 1000 * units.MicrogramPerCubicMeter,
		},
		{
			UpperBoundSize:   pm25UpperBoundSize,
			Resolution:       1 * units.MicrogramPerCubicMeter,
			MinConcentration: 0 * units.MicrogramPerCubicMeter,
			MaxConcentration: 1000 * units.MicrogramPerCubicMeter,
		},
		{
			UpperBoundSize:   pm100UpperBoundSize,
			Resolution:       1 * units.MicrogramPerCubicMeter,
			MinConcentration: 0 * units.MicrogramPerCubicMeter,
			MaxConcentration: 1000 * units.MicrogramPerCubicMeter,
		},
	}
}
