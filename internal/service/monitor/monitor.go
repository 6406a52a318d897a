package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/vportnov/heart-monitor/internal/domain/pulse"
	"github.com/vportnov/heart-monitor/internal/hardware"
	"github.com/vportnov/heart-monitor/internal/logger"
	"github.com/vportnov/heart-monitor/internal/telemetry"
)

const (
	// TopicHeartbeat carries the truncated reading on every normal poll.
	TopicHeartbeat = "HeartBeat"

	// TopicAlarm carries the ratcheted peak while the alarm is engaged.
	// The historical spelling is deliberate, existing consumers subscribe
	// to this exact name.
	TopicAlarm = "HeartAtack"
)

// alarmPulse is the width of each beep/flash phase and the pause between
// alarm iterations. The cadence is fixed, it is the device's alert pattern
// rather than a tuning knob.
const alarmPulse = 100 * time.Millisecond

// Devices groups the hardware handles the loop owns exclusively.
// Nothing else touches them while the monitor runs.
type Devices struct {
	// Sensor is the distance-style sensor read as the heartbeat proxy.
	Sensor hardware.Sensor
	// Lamp is the visual alarm indicator.
	Lamp hardware.Switch
	// Buzzer is the audible alarm output.
	Buzzer hardware.Switch
	// Reset is the manual acknowledge button polled during an alarm.
	Reset hardware.Button
}

// Monitor drives the polling loop and the {Normal, Alarm} state machine.
type Monitor struct {
	// devices are the hardware handles.
	devices Devices
	// publisher is the telemetry sink.
	publisher telemetry.Publisher
	// threshold is the reading above which the alarm engages.
	threshold pulse.Reading
	// pollInterval is the pause between normal-mode samples.
	pollInterval time.Duration
	// sleep pauses between iterations; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a monitor over the provided devices and telemetry sink.
func New(devices Devices, publisher telemetry.Publisher, threshold int, pollInterval time.Duration) *Monitor {
	return &Monitor{
		devices:      devices,
		publisher:    publisher,
		threshold:    pulse.Reading(threshold),
		pollInterval: pollInterval,
		sleep:        sleepContext,
	}
}

// Run executes the loop until the context is canceled. Cancellation is a
// clean exit; any sensor, pin or publish fault is propagated and halts the
// process, there is no retry.
func (m *Monitor) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "monitor")

	logger.InfoKV(ctx, "Monitor loop started",
		"threshold", int(m.threshold),
		"poll_interval", m.pollInterval.String())

	var (
		mode    = pulse.ModeNormal
		ratchet *pulse.Ratchet
	)

	for {
		if ctx.Err() != nil {
			logger.Info(ctx, "Context canceled, exiting")
			return nil
		}

		switch mode {
		case pulse.ModeNormal:
			next, reading, err := m.normalCycle(ctx)
			if err != nil {
				return m.finish(ctx, err)
			}

			if next == pulse.ModeAlarm {
				ratchet = pulse.NewRatchet(reading)

				logger.WarnKV(ctx, "Alarm engaged", "reading", reading.String())
			}

			mode = next
		case pulse.ModeAlarm:
			next, err := m.alarmCycle(ctx, ratchet)
			if err != nil {
				return m.finish(ctx, err)
			}

			if next == pulse.ModeNormal {
				logger.InfoKV(ctx, "Alarm acknowledged by reset button", "peak", ratchet.Peak().String())

				ratchet = nil
			}

			mode = next
		}
	}
}

// normalCycle performs one normal-mode iteration: deassert the lamp, sample,
// publish the heartbeat reading, and either trip the alarm or pause for the
// next poll. It returns the next mode and the reading that was published.
func (m *Monitor) normalCycle(ctx context.Context) (pulse.Mode, pulse.Reading, error) {
	if err := m.devices.Lamp.Set(false); err != nil {
		return pulse.ModeNormal, 0, fmt.Errorf("deassert alarm lamp: %w", err)
	}

	sample, err := m.devices.Sensor.Read(ctx)
	if err != nil {
		return pulse.ModeNormal, 0, fmt.Errorf("read sensor: %w", err)
	}

	reading := pulse.FromSample(sample)

	if err := m.publisher.Publish(ctx, TopicHeartbeat, reading.String()); err != nil {
		return pulse.ModeNormal, reading, fmt.Errorf("publish heartbeat: %w", err)
	}

	next := pulse.Next(pulse.ModeNormal, reading, m.threshold, false)
	if next == pulse.ModeAlarm {
		// The alarm starts immediately, the poll pause only separates
		// normal samples.
		return next, reading, nil
	}

	if err := m.sleep(ctx, m.pollInterval); err != nil {
		return next, reading, err
	}

	return next, reading, nil
}

// alarmCycle performs one alarm iteration: beep and flash on the fixed
// cadence, re-sample through the ratchet, publish the peak, and poll the
// reset button. The published value never decreases within one episode.
func (m *Monitor) alarmCycle(ctx context.Context, ratchet *pulse.Ratchet) (pulse.Mode, error) {
	if err := m.signalAlarm(ctx); err != nil {
		return pulse.ModeAlarm, err
	}

	sample, err := m.devices.Sensor.Read(ctx)
	if err != nil {
		return pulse.ModeAlarm, fmt.Errorf("read sensor: %w", err)
	}

	peak := ratchet.Observe(pulse.FromSample(sample))

	if err := m.publisher.Publish(ctx, TopicAlarm, peak.Bps()); err != nil {
		return pulse.ModeAlarm, fmt.Errorf("publish alarm reading: %w", err)
	}

	pressed, err := m.devices.Reset.Pressed()
	if err != nil {
		return pulse.ModeAlarm, fmt.Errorf("read reset button: %w", err)
	}

	next := pulse.Next(pulse.ModeAlarm, peak, m.threshold, pressed)
	if next == pulse.ModeNormal {
		// Falling out of the alarm rejoins the steady polling cadence,
		// so the normal pause runs before the next sample.
		if err := m.sleep(ctx, m.pollInterval); err != nil {
			return next, err
		}

		return next, nil
	}

	if err := m.sleep(ctx, alarmPulse); err != nil {
		return next, err
	}

	return next, nil
}

// signalAlarm drives one beep/flash cycle: a buzzer pulse, the lamp held on
// through a second pulse, then the lamp released. Each phase lasts one
// alarmPulse, giving the fixed 0.1s on/off pattern.
func (m *Monitor) signalAlarm(ctx context.Context) error {
	if err := m.beep(ctx); err != nil {
		return err
	}

	if err := m.devices.Lamp.Set(true); err != nil {
		return fmt.Errorf("assert alarm lamp: %w", err)
	}

	if err := m.sleep(ctx, alarmPulse); err != nil {
		return err
	}

	if err := m.beep(ctx); err != nil {
		return err
	}

	if err := m.devices.Lamp.Set(false); err != nil {
		return fmt.Errorf("deassert alarm lamp: %w", err)
	}

	return nil
}

// beep sounds the buzzer for one alarmPulse.
func (m *Monitor) beep(ctx context.Context) error {
	if err := m.devices.Buzzer.Set(true); err != nil {
		return fmt.Errorf("start buzzer: %w", err)
	}

	if err := m.sleep(ctx, alarmPulse); err != nil {
		return err
	}

	if err := m.devices.Buzzer.Set(false); err != nil {
		return fmt.Errorf("stop buzzer: %w", err)
	}

	return nil
}

// finish converts context cancellation into a clean exit and passes every
// other fault through.
func (m *Monitor) finish(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		logger.Info(ctx, "Context canceled, exiting")
		return nil
	}

	return err
}

// sleepContext pauses for the duration or until the context is canceled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
