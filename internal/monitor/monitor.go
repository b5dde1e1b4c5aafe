// Package monitor drives acquisition cycles: one sensor read, frame
// validation, AQI computation, and severity mapping per trigger event.
package monitor

import (
	"context"
	"log/slog"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/nkanderson/quick-aqi/internal/aqi"
	"github.com/nkanderson/quick-aqi/internal/hexfmt"
	"github.com/nkanderson/quick-aqi/internal/indicator"
	"github.com/nkanderson/quick-aqi/internal/pmsa003i"
)

// Stage identifies how far through a cycle an outcome was produced. A cycle
// is entered only from Idle and always returns to Idle.
type Stage int

const (
	StageIdle Stage = iota
	StageReading
	StageValidating
	StageDecoding
	StageComputing
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageReading:
		return "reading"
	case StageValidating:
		return "validating"
	case StageDecoding:
		return "decoding"
	case StageComputing:
		return "computing"
	default:
		return "unknown"
	}
}

// FrameReader is the bus-facing capability a cycle consumes. Transport
// details, retries, and bus recovery belong to the implementation.
type FrameReader interface {
	ReadFrame(ctx context.Context) ([]byte, error)
}

// Outcome is the report of one acquisition cycle: the stage it ended at,
// the error that stopped it (nil on success), and the computed values.
type Outcome struct {
	Stage    Stage
	Err      error
	Reading  pmsa003i.Reading
	AQI      uint16
	Severity aqi.Severity
}

// OK reports whether the cycle ran to completion.
func (o Outcome) OK() bool { return o.Err == nil }

// Cycle runs one read-validate-decode-compute traversal per call. It holds
// no state between calls.
type Cycle struct {
	reader FrameReader
	log    *slog.Logger
}

func NewCycle(reader FrameReader, log *slog.Logger) *Cycle {
	return &Cycle{reader: reader, log: log}
}

// Run performs exactly one traversal of the cycle. Each stage short-circuits
// on failure: header before checksum, checksum before decode, so a bad frame
// costs as little as possible. No stage retries.
func (c *Cycle) Run(ctx context.Context) Outcome {
	frame, err := c.reader.ReadFrame(ctx)
	if err != nil {
		c.log.Warn("sensor read failed", "error", err)
		return Outcome{Stage: StageReading, Err: err}
	}
	c.log.Debug("frame received", "data", hexfmt.BytesToHex(frame))

	if err := pmsa003i.ValidateHeader(frame); err != nil {
		c.log.Warn("header validation failed", "error", err)
		return Outcome{Stage: StageValidating, Err: err}
	}
	if err := pmsa003i.ValidateChecksum(frame); err != nil {
		c.log.Warn("checksum validation failed", "error", err)
		return Outcome{Stage: StageValidating, Err: err}
	}

	reading, err := pmsa003i.DecodeReading(frame)
	if err != nil {
		// Not expected once the checksum passed; substitute a zero reading
		// instead of propagating a fault upward.
		c.log.Error("decode failed on validated frame", "error", err)
		return Outcome{Stage: StageDecoding, Err: err, Reading: pmsa003i.Reading{}}
	}

	value := aqi.FromPM25(float64(reading.PM25Env))
	severity := aqi.SeverityOf(value)
	c.log.Info("cycle complete",
		"pm2_5_ugm3", reading.PM25Env,
		"aqi", value,
		"severity", severity.String(),
	)
	return Outcome{Stage: StageComputing, Reading: reading, AQI: value, Severity: severity}
}

// Trigger is an edge-detected level input. gpio.PinIO satisfies it
// directly; debouncing belongs to the hardware or the pin configuration.
type Trigger interface {
	WaitForEdge(timeout time.Duration) bool
	Read() gpio.Level
}

// Publisher receives successful outcomes. Publish failures never fail a
// cycle.
type Publisher interface {
	PublishOutcome(o Outcome) error
}

// Runner services trigger events one at a time: a high level starts one
// cycle, a low level requests the off indication. Cycles never overlap;
// the runner is the only caller of its FrameReader.
type Runner struct {
	cycle       *Cycle
	trigger     Trigger
	indicator   indicator.Indicator
	publisher   Publisher // optional
	log         *slog.Logger
	edgeTimeout time.Duration
}

func NewRunner(cycle *Cycle, trigger Trigger, ind indicator.Indicator, publisher Publisher, log *slog.Logger, edgeTimeout time.Duration) *Runner {
	if edgeTimeout <= 0 {
		edgeTimeout = 500 * time.Millisecond
	}
	return &Runner{
		cycle:       cycle,
		trigger:     trigger,
		indicator:   ind,
		publisher:   publisher,
		log:         log,
		edgeTimeout: edgeTimeout,
	}
}

// Run blocks until ctx is done. The edge wait is bounded so cancellation is
// noticed within edgeTimeout.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.indicator.Off(); err != nil {
		r.log.Warn("indicator clear failed", "error", err)
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !r.trigger.WaitForEdge(r.edgeTimeout) {
			continue
		}
		if r.trigger.Read() == gpio.High {
			r.handle(r.cycle.Run(ctx))
		} else {
			if err := r.indicator.Off(); err != nil {
				r.log.Warn("indicator clear failed", "error", err)
			}
		}
	}
}

// handle applies a cycle outcome: success updates the indicator and goes to
// the publisher; failure leaves the previous indication in place.
func (r *Runner) handle(o Outcome) {
	if !o.OK() {
		r.log.Warn("cycle skipped", "stage", o.Stage.String(), "error", o.Err)
		return
	}
	if err := r.indicator.Show(o.Severity); err != nil {
		r.log.Warn("indicator update failed", "severity", o.Severity.String(), "error", err)
	}
	if r.publisher == nil {
		return
	}
	if err := r.publisher.PublishOutcome(o); err != nil {
		r.log.Warn("publish failed", "error", err)
	}
}
