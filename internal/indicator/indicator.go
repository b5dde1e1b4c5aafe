// Package indicator renders a severity category on a bank of GPIO lines,
// one line per category plus an all-off state.
package indicator

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/nkanderson/quick-aqi/internal/aqi"
)

// Indicator is the output surface an acquisition cycle reports to. Any
// rendering with six distinguishable states plus off will do.
type Indicator interface {
	Show(s aqi.Severity) error
	Off() error
}

// LineBank drives one output line per severity category. Exactly one line is
// high after Show, none after Off.
type LineBank struct {
	lines [aqi.NumSeverities]gpio.PinIO
}

// NewLineBank builds a LineBank over lines indexed by ascending severity.
// Each line is initialized low.
func NewLineBank(lines [aqi.NumSeverities]gpio.PinIO) (*LineBank, error) {
	for _, p := range lines {
		if p == nil {
			return nil, fmt.Errorf("indicator: missing GPIO line")
		}
		if err := p.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("indicator: init %s: %w", p.Name(), err)
		}
	}
	return &LineBank{lines: lines}, nil
}

// ByNames resolves six GPIO line names, indexed by ascending severity, into
// a LineBank.
func ByNames(names [aqi.NumSeverities]string) (*LineBank, error) {
	var lines [aqi.NumSeverities]gpio.PinIO
	for i, name := range names {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("indicator: no GPIO line named %q", name)
		}
		lines[i] = p
	}
	return NewLineBank(lines)
}

func (b *LineBank) Show(s aqi.Severity) error {
	if s < 0 || int(s) >= len(b.lines) {
		return fmt.Errorf("indicator: severity %d out of range", s)
	}
	for i, p := range b.lines {
		level := gpio.Low
		if i == int(s) {
			level = gpio.High
		}
		if err := p.Out(level); err != nil {
			return fmt.Errorf("indicator: set %s: %w", p.Name(), err)
		}
	}
	return nil
}

func (b *LineBank) Off() error {
	for _, p := range b.lines {
		if err := p.Out(gpio.Low); err != nil {
			return fmt.Errorf("indicator: clear %s: %w", p.Name(), err)
		}
	}
	return nil
}
