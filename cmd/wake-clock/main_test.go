package main

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/sweeney/wake-clock/internal/display"
	"github.com/sweeney/wake-clock/internal/gpio"
	"github.com/sweeney/wake-clock/internal/logic"
	"github.com/sweeney/wake-clock/internal/motor"
	"github.com/sweeney/wake-clock/internal/mqtt"
	"github.com/sweeney/wake-clock/internal/rtc"
	"github.com/sweeney/wake-clock/internal/status"
)

// TestEnvVarNames verifies the env var constants match what pi-helper writes
// to /run/pi-helper.env. If pi-helper changes its var names, this test fails
// and we update the constants, not the other way around.
func TestEnvVarNames(t *testing.T) {
	// These are the canonical names from pi-helper.
	want := map[string]string{
		"NETWORK_TYPE":        envNetworkType,
		"NETWORK_IP":          envNetworkIP,
		"NETWORK_STATUS":      envNetworkStatus,
		"NETWORK_GATEWAY":     envNetworkGateway,
		"NETWORK_WIFI_STATUS": envNetworkWifiStatus,
		"NETWORK_WIFI_SSID":   envNetworkWifiSSID,
	}
	for canonical, got := range want {
		if got != canonical {
			t.Errorf("env var constant: got %q, want %q", got, canonical)
		}
	}
}

func TestReadNetworkInfoAllSet(t *testing.T) {
	t.Setenv(envNetworkType, "wifi")
	t.Setenv(envNetworkIP, "192.168.1.100")
	t.Setenv(envNetworkStatus, "connected")
	t.Setenv(envNetworkGateway, "192.168.1.1")
	t.Setenv(envNetworkWifiStatus, "connected")
	t.Setenv(envNetworkWifiSSID, "MyNetwork")

	info := readNetworkInfo()
	if info == nil {
		t.Fatal("expected non-nil NetworkInfo")
	}

	want := &status.NetworkInfo{
		Type:       "wifi",
		IP:         "192.168.1.100",
		Status:     "connected",
		Gateway:    "192.168.1.1",
		WifiStatus: "connected",
		SSID:       "MyNetwork",
	}

	if *info != *want {
		t.Errorf("NetworkInfo: got %+v, want %+v", *info, *want)
	}
}

func TestReadNetworkInfoNoneSet(t *testing.T) {
	info := readNetworkInfo()
	if info != nil {
		t.Errorf("expected nil when NETWORK_STATUS is unset, got %+v", info)
	}
}

func TestReadNetworkInfoPartial(t *testing.T) {
	t.Setenv(envNetworkStatus, "connected")

	info := readNetworkInfo()
	if info == nil {
		t.Fatal("expected non-nil NetworkInfo when NETWORK_STATUS is set")
	}
	if info.Status != "connected" {
		t.Errorf("Status: got %q, want %q", info.Status, "connected")
	}
	if info.Type != "" || info.IP != "" || info.Gateway != "" {
		t.Errorf("expected other fields empty, got %+v", info)
	}
}

// --- runLoop tests ---

// fakeTicker returns a function that yields start, start+step, start+2*step, ...
// on successive calls. Not safe for concurrent use (only called from runLoop's
// goroutine).
func fakeTicker(start time.Time, step time.Duration) func() time.Time {
	n := 0
	return func() time.Time {
		t := start.Add(time.Duration(n) * step)
		n++
		return t
	}
}

// idle is the resting encoder state: both lines pulled up, button released.
var idle = gpio.Sample{Clk: true, Dt: true}

// repeat returns n copies of sample.
func repeat(sample gpio.Sample, n int) []gpio.Sample {
	out := make([]gpio.Sample, n)
	for i := range out {
		out[i] = sample
	}
	return out
}

// faultReader wraps a FakeReader and returns errors for a range of Read()
// calls. The fault range is fixed at construction.
type faultReader struct {
	inner      *gpio.FakeReader
	call       int
	faultStart int // first call index that returns error (inclusive)
	faultEnd   int // last call index that returns error (exclusive)
}

func (r *faultReader) Read() (gpio.Sample, error) {
	i := r.call
	r.call++
	if i >= r.faultStart && i < r.faultEnd {
		return gpio.Sample{}, errors.New("gpio fault")
	}
	return r.inner.Read()
}

func (r *faultReader) Close() error { return r.inner.Close() }

type loopFixture struct {
	clock   *rtc.FakeClock
	surface *display.FakeSurface
	vib     *motor.FakeMotor
	pub     *mqtt.FakePublisher
	tracker *status.Tracker
}

func newLoopFixture(wall logic.DateTime) *loopFixture {
	return &loopFixture{
		clock:   rtc.NewFakeClock(wall),
		surface: display.NewFakeSurface(),
		vib:     motor.NewFakeMotor(),
		pub:     mqtt.NewFakePublisher(),
		tracker: status.NewTracker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), status.Config{}),
	}
}

// runRunLoop drives runLoop with the given samples and signal. Ticks are
// delivered one at a time over an unbuffered channel, so each sample is fully
// processed before the next is sent.
func runRunLoop(t *testing.T, f *loopFixture, reader gpio.Reader, heartbeat time.Duration, now func() time.Time, nTicks int, signal os.Signal) error {
	t.Helper()
	tick := make(chan time.Time)
	sig := make(chan os.Signal, 1)

	errCh := make(chan error, 1)
	go func() {
		errCh <- runLoop(reader, f.clock, f.surface, f.vib, f.pub, f.pub, f.tracker, heartbeat, now, tick, sig)
	}()

	for i := 0; i < nTicks; i++ {
		tick <- time.Time{}
	}
	sig <- signal

	return <-errCh
}

var testWall = logic.DateTime{Year: 2026, Month: 8, Day: 26, Hour: 7, Minute: 5}

func TestRunLoopIdleNoEvents(t *testing.T) {
	f := newLoopFixture(testWall)
	reader := gpio.NewFakeReader(repeat(idle, 4))
	now := fakeTicker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 250*time.Millisecond)

	err := runRunLoop(t, f, reader, 0, now, 4, syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if len(f.pub.Events) != 0 {
		t.Errorf("expected 0 clock events, got %d", len(f.pub.Events))
	}
	if len(f.pub.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(f.pub.SystemEvents))
	}
	if f.pub.SystemEvents[0].Event != "SHUTDOWN" {
		t.Errorf("expected SHUTDOWN event, got %q", f.pub.SystemEvents[0].Event)
	}
}

func TestRunLoopRotationOpensMenu(t *testing.T) {
	f := newLoopFixture(testWall)
	// Resting state 11, then one clockwise step to 10.
	samples := append(repeat(idle, 2), repeat(gpio.Sample{Clk: true, Dt: false}, 2)...)
	reader := gpio.NewFakeReader(samples)
	now := fakeTicker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 250*time.Millisecond)

	err := runRunLoop(t, f, reader, 0, now, len(samples), syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	// Navigation is not an MQTT event, but the tracker sees the new screen.
	if len(f.pub.Events) != 0 {
		t.Errorf("expected 0 clock events, got %d", len(f.pub.Events))
	}
	if snap := f.tracker.Snapshot(); snap.Screen != logic.ScreenMainMenu {
		t.Errorf("tracker screen: got %q, want %q", snap.Screen, logic.ScreenMainMenu)
	}
}

func TestRunLoopArmFireAcknowledge(t *testing.T) {
	// Wall time stays at the default alarm time, so the alarm fires on the
	// first tick after arming.
	f := newLoopFixture(logic.DateTime{Year: 2026, Month: 8, Day: 26, Hour: 6, Minute: 30})

	cw1 := gpio.Sample{Clk: true, Dt: false}  // 11 -> 10, clockwise
	cw2 := gpio.Sample{Clk: false, Dt: false} // 10 -> 00, clockwise
	samples := []gpio.Sample{
		idle, // latch baseline
		cw1,  // rotate: open menu
		cw2,  // rotate: select "Set alarm"
		{Clk: false, Dt: false, Pressed: true}, // press: enter alarm edit
		{Clk: false, Dt: false, Pressed: true}, // press: hour -> minute
		{Clk: false, Dt: false, Pressed: true}, // press: minute -> ramp
		{Clk: false, Dt: false, Pressed: true}, // press: commit, alarm armed
		{Clk: false, Dt: false},                // alarm fires
		{Clk: false, Dt: false, Pressed: true}, // press: acknowledge
	}
	reader := gpio.NewFakeReader(samples)
	now := fakeTicker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 250*time.Millisecond)

	err := runRunLoop(t, f, reader, 0, now, len(samples), syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	wantTypes := []logic.EventType{logic.EventAlarmArmed, logic.EventAlarmFired, logic.EventAlarmStopped}
	if len(f.pub.Events) != len(wantTypes) {
		t.Fatalf("expected %d clock events, got %d: %+v", len(wantTypes), len(f.pub.Events), f.pub.Events)
	}
	for i, want := range wantTypes {
		if f.pub.Events[i].Type != want {
			t.Errorf("event %d: got %s, want %s", i, f.pub.Events[i].Type, want)
		}
	}

	armed := f.pub.Events[0].Alarm
	if armed.Hour != logic.DefaultAlarmHour || armed.Minute != logic.DefaultAlarmMinute {
		t.Errorf("armed alarm: got %02d:%02d, want %02d:%02d",
			armed.Hour, armed.Minute, logic.DefaultAlarmHour, logic.DefaultAlarmMinute)
	}

	if f.vib.Level() != 0 {
		t.Errorf("motor level after acknowledge: got %d, want 0", f.vib.Level())
	}
	snap := f.tracker.Snapshot()
	if snap.Triggered {
		t.Error("tracker still shows triggered after acknowledge")
	}
	if snap.Counts.AlarmsFired != 1 || snap.Counts.AlarmsStopped != 1 {
		t.Errorf("counts: got %+v", snap.Counts)
	}
}

func TestRunLoopGPIOReadError(t *testing.T) {
	// 2 valid reads then 2 faults. Loop should continue past errors and
	// still publish SHUTDOWN.
	f := newLoopFixture(testWall)
	reader := &faultReader{
		inner:      gpio.NewFakeReader(repeat(idle, 2)),
		faultStart: 2,
		faultEnd:   4,
	}
	now := fakeTicker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 250*time.Millisecond)

	err := runRunLoop(t, f, reader, 0, now, 4, syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	found := false
	for _, se := range f.pub.SystemEvents {
		if se.Event == "SHUTDOWN" {
			found = true
		}
	}
	if !found {
		t.Error("expected SHUTDOWN system event after GPIO errors")
	}
}

func TestRunLoopRTCReadError(t *testing.T) {
	// The RTC never answers, so the state machine cannot run, but the loop
	// must keep ticking and still shut down cleanly.
	f := newLoopFixture(testWall)
	f.clock.NowError = errors.New("i2c timeout")
	reader := gpio.NewFakeReader(repeat(idle, 4))
	now := fakeTicker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 250*time.Millisecond)

	err := runRunLoop(t, f, reader, 0, now, 4, syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if len(f.pub.Events) != 0 {
		t.Errorf("expected 0 clock events without wall time, got %d", len(f.pub.Events))
	}
	if f.surface.Commits != 0 {
		t.Errorf("expected no frames without wall time, got %d commits", f.surface.Commits)
	}
}

func TestRunLoopHeartbeat(t *testing.T) {
	// 5-minute steps against a 15-minute interval: the heartbeat fires once
	// within 4 ticks.
	f := newLoopFixture(testWall)
	reader := gpio.NewFakeReader(repeat(idle, 4))
	now := fakeTicker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 5*time.Minute)

	err := runRunLoop(t, f, reader, 15*time.Minute, now, 4, syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	var heartbeats, shutdowns int
	for _, se := range f.pub.SystemEvents {
		switch se.Event {
		case "HEARTBEAT":
			heartbeats++
			if len(se.RawPayload) == 0 {
				t.Error("HEARTBEAT event missing status payload")
			}
		case "SHUTDOWN":
			shutdowns++
		}
	}
	if heartbeats != 1 {
		t.Errorf("expected 1 HEARTBEAT event, got %d", heartbeats)
	}
	if shutdowns != 1 {
		t.Errorf("expected 1 SHUTDOWN event, got %d", shutdowns)
	}
}

func TestRunLoopPublishError(t *testing.T) {
	// Arming succeeds but Publish returns an error. The loop must continue
	// and SHUTDOWN still goes out via PublishSystem.
	f := newLoopFixture(testWall)
	f.pub.PublishError = fmt.Errorf("broker unavailable")

	cw1 := gpio.Sample{Clk: true, Dt: false}
	cw2 := gpio.Sample{Clk: false, Dt: false}
	samples := []gpio.Sample{
		idle, cw1, cw2,
		{Clk: false, Dt: false, Pressed: true},
		{Clk: false, Dt: false, Pressed: true},
		{Clk: false, Dt: false, Pressed: true},
		{Clk: false, Dt: false, Pressed: true},
	}
	reader := gpio.NewFakeReader(samples)
	now := fakeTicker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 250*time.Millisecond)

	err := runRunLoop(t, f, reader, 0, now, len(samples), syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if len(f.pub.Events) != 0 {
		t.Errorf("expected 0 recorded events (publish failed), got %d", len(f.pub.Events))
	}
	found := false
	for _, se := range f.pub.SystemEvents {
		if se.Event == "SHUTDOWN" {
			found = true
		}
	}
	if !found {
		t.Error("expected SHUTDOWN system event despite publish errors")
	}
	// The alarm is still armed locally even though publishing failed.
	if snap := f.tracker.Snapshot(); !snap.Alarm.Armed {
		t.Error("expected alarm armed despite publish errors")
	}
}

func TestRunLoopShutdownSIGINT(t *testing.T) {
	f := newLoopFixture(testWall)
	reader := gpio.NewFakeReader(repeat(idle, 4))
	now := fakeTicker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 250*time.Millisecond)

	err := runRunLoop(t, f, reader, 0, now, 4, syscall.SIGINT)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if len(f.pub.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(f.pub.SystemEvents))
	}
	se := f.pub.SystemEvents[0]
	if se.Event != "SHUTDOWN" {
		t.Errorf("expected SHUTDOWN, got %q", se.Event)
	}
	if se.Reason != "SIGINT" {
		t.Errorf("expected reason SIGINT, got %q", se.Reason)
	}
	if !se.Retained {
		t.Error("expected Retained=true for SHUTDOWN")
	}
}

func TestRunLoopShutdownSIGTERM(t *testing.T) {
	f := newLoopFixture(testWall)
	reader := gpio.NewFakeReader(repeat(idle, 4))
	now := fakeTicker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 250*time.Millisecond)

	err := runRunLoop(t, f, reader, 0, now, 4, syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	se := f.pub.SystemEvents[0]
	if se.Reason != "SIGTERM" {
		t.Errorf("expected reason SIGTERM, got %q", se.Reason)
	}
}

func TestRunLoopMotorSilencedOnShutdown(t *testing.T) {
	// Shut down while the alarm is ramping; the motor must be left at zero.
	f := newLoopFixture(logic.DateTime{Year: 2026, Month: 8, Day: 26, Hour: 6, Minute: 30})

	cw1 := gpio.Sample{Clk: true, Dt: false}
	cw2 := gpio.Sample{Clk: false, Dt: false}
	samples := []gpio.Sample{
		idle, cw1, cw2,
		{Clk: false, Dt: false, Pressed: true},
		{Clk: false, Dt: false, Pressed: true},
		{Clk: false, Dt: false, Pressed: true},
		{Clk: false, Dt: false, Pressed: true}, // commit; fires on next tick
	}
	// Fire, then let the ramp run a full step so the motor is audibly on.
	samples = append(samples, repeat(gpio.Sample{Clk: false, Dt: false}, 6)...)
	reader := gpio.NewFakeReader(samples)
	now := fakeTicker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 250*time.Millisecond)

	err := runRunLoop(t, f, reader, 0, now, len(samples), syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	levels := f.vib.Levels
	if len(levels) < 2 || levels[len(levels)-2] == 0 {
		t.Errorf("expected motor ramping before shutdown, levels: %v", levels)
	}
	if f.vib.Level() != 0 {
		t.Errorf("motor level after shutdown: got %d, want 0", f.vib.Level())
	}
}
