package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vportnov/heart-monitor/internal/hardware"
	"github.com/vportnov/heart-monitor/internal/hardware/sim"
)

// publishEvent is one recorded telemetry publish.
type publishEvent struct {
	topic   string
	payload string
}

// recordingPublisher captures publishes and cancels the run context once a
// limit is reached, so loop tests terminate deterministically.
type recordingPublisher struct {
	events []publishEvent
	limit  int
	cancel context.CancelFunc
}

func (p *recordingPublisher) Publish(_ context.Context, topic, payload string) error {
	p.events = append(p.events, publishEvent{topic: topic, payload: payload})

	if p.cancel != nil && len(p.events) >= p.limit {
		p.cancel()
	}

	return nil
}

// failingPublisher always fails.
type failingPublisher struct {
	err error
}

func (p *failingPublisher) Publish(context.Context, string, string) error {
	return p.err
}

// scriptedButton replays reset polls in order and stays released afterwards.
type scriptedButton struct {
	script []bool
	next   int
}

func (b *scriptedButton) Pressed() (bool, error) {
	if b.next >= len(b.script) {
		return false, nil
	}

	pressed := b.script[b.next]
	b.next++

	return pressed, nil
}

// instantSleep removes real pauses from loop tests while still honoring
// cancellation.
func instantSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// newTestMonitor assembles a monitor over simulated devices with no real sleeps.
func newTestMonitor(
	sensor hardware.Sensor,
	button hardware.Button,
	publisher *recordingPublisher,
) (*Monitor, *sim.Switch, *sim.Switch) {
	lamp := sim.NewSwitch("lamp", 2)
	buzzer := sim.NewSwitch("buzzer", 4)

	m := New(Devices{
		Sensor: sensor,
		Lamp:   lamp,
		Buzzer: buzzer,
		Reset:  button,
	}, publisher, 150, time.Second)
	m.sleep = instantSleep

	return m, lamp, buzzer
}

// TestCanonicalSequence replays the reference scenario: two normal readings,
// an alarm with a downward fluctuation that does not lower the ratchet, a
// rising reading that does, and a reset press that restores normal polling.
func TestCanonicalSequence(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	publisher := &recordingPublisher{limit: 6, cancel: cancel}
	sensor := sim.NewSensor(40, 60, 200, 180, 220, 10)
	button := &scriptedButton{script: []bool{false, true}}

	m, lamp, buzzer := newTestMonitor(sensor, button, publisher)

	require.NoError(t, m.Run(ctx))

	require.Equal(t, []publishEvent{
		{TopicHeartbeat, "40"},
		{TopicHeartbeat, "60"},
		{TopicHeartbeat, "200"},
		{TopicAlarm, "200 Bps"}, // 180 does not lower the ratchet
		{TopicAlarm, "220 Bps"},
		{TopicHeartbeat, "10"}, // back to normal polling after reset
	}, publisher.events)

	// Lamp: deasserted at the top of each of the four normal cycles, and
	// flashed on/off once per alarm iteration.
	require.Equal(t, []bool{
		false,       // normal cycle 1
		false,       // normal cycle 2
		false,       // normal cycle 3 (trips the alarm)
		true, false, // alarm iteration 1
		true, false, // alarm iteration 2
		false, // normal cycle 4
	}, lamp.History())

	// Buzzer: two pulses per alarm iteration.
	require.Equal(t, []bool{
		true, false, true, false, // alarm iteration 1
		true, false, true, false, // alarm iteration 2
	}, buzzer.History())

	// Reset was polled exactly once per alarm iteration.
	require.Equal(t, 2, button.next)
}

// TestThresholdIsStrict keeps readings at and below 150 and verifies the
// alarm never engages, only heartbeat publishes happen.
func TestThresholdIsStrict(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	publisher := &recordingPublisher{limit: 3, cancel: cancel}
	// 150.9 truncates to exactly the threshold and must not trip.
	sensor := sim.NewSensor(149, 150.9, 150)
	button := &scriptedButton{}

	m, _, buzzer := newTestMonitor(sensor, button, publisher)

	require.NoError(t, m.Run(ctx))

	require.Equal(t, []publishEvent{
		{TopicHeartbeat, "149"},
		{TopicHeartbeat, "150"},
		{TopicHeartbeat, "150"},
	}, publisher.events)

	// The alarm sub-loop never ran.
	require.Empty(t, buzzer.History())
	require.Zero(t, button.next)
}

// TestRatchetAcrossAlarm holds the alarm through falling readings and checks
// the published value is monotonically non-decreasing.
func TestRatchetAcrossAlarm(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	publisher := &recordingPublisher{limit: 5, cancel: cancel}
	sensor := sim.NewSensor(200, 190, 170, 210, 90)
	button := &scriptedButton{script: []bool{false, false, false, true}}

	m, _, _ := newTestMonitor(sensor, button, publisher)

	require.NoError(t, m.Run(ctx))

	require.Equal(t, []publishEvent{
		{TopicHeartbeat, "200"},
		{TopicAlarm, "200 Bps"},
		{TopicAlarm, "200 Bps"},
		{TopicAlarm, "210 Bps"},
		{TopicAlarm, "210 Bps"}, // 90 does not lower the peak
	}, publisher.events)
}

// TestPublishFaultHalts verifies a telemetry fault propagates out of Run.
func TestPublishFaultHalts(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("broker gone")
	sensor := sim.NewSensor(42)

	m := New(Devices{
		Sensor: sensor,
		Lamp:   sim.NewSwitch("lamp", 2),
		Buzzer: sim.NewSwitch("buzzer", 4),
		Reset:  sim.NewButton(),
	}, &failingPublisher{err: sentinel}, 150, time.Second)
	m.sleep = instantSleep

	err := m.Run(context.Background())
	require.ErrorIs(t, err, sentinel)
}

// TestSensorFaultHalts verifies a sensor fault propagates out of Run.
func TestSensorFaultHalts(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sensor unplugged")

	m := New(Devices{
		Sensor: faultySensor{err: sentinel},
		Lamp:   sim.NewSwitch("lamp", 2),
		Buzzer: sim.NewSwitch("buzzer", 4),
		Reset:  sim.NewButton(),
	}, &recordingPublisher{}, 150, time.Second)
	m.sleep = instantSleep

	err := m.Run(context.Background())
	require.ErrorIs(t, err, sentinel)
}

// faultySensor fails every read.
type faultySensor struct {
	err error
}

func (s faultySensor) Read(context.Context) (float64, error) {
	return 0, s.err
}

// TestCancelIsCleanExit verifies cancellation surfaces as a nil error.
func TestCancelIsCleanExit(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m, _, _ := newTestMonitor(sim.NewSensor(42), &scriptedButton{}, &recordingPublisher{})

	require.NoError(t, m.Run(ctx))
}
