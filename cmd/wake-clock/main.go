// Command wake-clock runs a bedside alarm clock: a rotary encoder and button
// drive a menu on an OLED, a DS3231 keeps wall time, and a vibration motor
// ramps up when the alarm fires. State changes are published to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/host/v3"

	"github.com/sweeney/wake-clock/internal/display"
	"github.com/sweeney/wake-clock/internal/gpio"
	"github.com/sweeney/wake-clock/internal/logic"
	"github.com/sweeney/wake-clock/internal/motor"
	"github.com/sweeney/wake-clock/internal/mqtt"
	"github.com/sweeney/wake-clock/internal/rtc"
	"github.com/sweeney/wake-clock/internal/status"
	"github.com/sweeney/wake-clock/internal/web"
)

// rtcRefresh bounds how often the run loop reads the DS3231. The poll tick
// is much faster than an I2C transaction, and minute resolution only needs
// a sub-second refresh.
const rtcRefresh = 100 * time.Millisecond

func main() {
	poll := flag.Duration("poll", 2*time.Millisecond, "input polling interval")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", `MQTT broker address ("off" to disable)`)
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "heartbeat interval (0 to disable)")
	httpAddr := flag.String("http", ":8080", "HTTP status address (empty to disable)")
	i2cBus := flag.String("i2c", "1", "I2C bus for the OLED and RTC")
	pinClk := flag.Int("pin-clk", gpio.DefaultPinClk, "BCM pin number for encoder CLK")
	pinDt := flag.Int("pin-dt", gpio.DefaultPinDt, "BCM pin number for encoder DT")
	pinBtn := flag.Int("pin-btn", gpio.DefaultPinBtn, "BCM pin number for encoder button")
	motorPin := flag.String("motor-pin", "GPIO18", "PWM pin for the vibration motor")
	printState := flag.Bool("print-state", false, "Print current RTC time and input state, then exit")

	flag.Parse()

	if err := run(*poll, *broker, *heartbeat, *httpAddr, *i2cBus, *pinClk, *pinDt, *pinBtn, *motorPin, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(poll time.Duration, broker string, heartbeat time.Duration, httpAddr, i2cBus string, pinClk, pinDt, pinBtn int, motorPin string, printState bool) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("init periph host: %w", err)
	}

	reader, err := gpio.NewRealReader(pinClk, pinDt, pinBtn)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer reader.Close()

	clock, err := rtc.NewDS3231(i2cBus)
	if err != nil {
		return fmt.Errorf("init rtc: %w", err)
	}
	defer clock.Close()

	if printState {
		wall, err := clock.Now()
		if err != nil {
			return fmt.Errorf("read rtc: %w", err)
		}
		sample, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		fmt.Printf("RTC: %04d-%02d-%02d %02d:%02d, clk=%t dt=%t pressed=%t\n",
			wall.Year, wall.Month, wall.Day, wall.Hour, wall.Minute,
			sample.Clk, sample.Dt, sample.Pressed)
		return nil
	}

	// Seed the RTC from the system clock when its oscillator stopped, so
	// the first boot (or a dead coin cell) still shows a plausible time.
	if lost, err := clock.LostPower(); err != nil {
		log.Printf("rtc power check error: %v", err)
	} else if lost {
		now := time.Now()
		seed := logic.DateTime{
			Year: now.Year(), Month: int(now.Month()), Day: now.Day(),
			Hour: now.Hour(), Minute: now.Minute(),
		}
		if err := clock.SetTime(seed); err != nil {
			log.Printf("rtc seed error: %v", err)
		} else {
			log.Printf("rtc lost power, seeded from system clock: %04d-%02d-%02d %02d:%02d",
				seed.Year, seed.Month, seed.Day, seed.Hour, seed.Minute)
		}
	}

	oled, err := display.NewOLED(i2cBus)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	defer oled.Close()

	vib, err := motor.NewPWM(motorPin)
	if err != nil {
		return fmt.Errorf("init motor: %w", err)
	}
	defer vib.Close()

	// The alarm must keep working without the network, so MQTT connects in
	// the background and buffers while offline.
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if broker != "off" {
		real := mqtt.NewRealPublisher(broker)
		defer real.Close()
		publisher = real
		mqttStatus = real
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      poll.Milliseconds(),
		HeartbeatMs: heartbeat.Milliseconds(),
		Broker:      broker,
		HTTPAddr:    httpAddr,
		I2CBus:      i2cBus,
		PinClk:      pinClk,
		PinDt:       pinDt,
		PinBtn:      pinBtn,
		MotorPin:    motorPin,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	if publisher != nil {
		snap := tracker.Snapshot()
		startupEvent := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := publisher.PublishSystem(startupEvent); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		} else {
			log.Printf("published startup event")
		}
	}

	if httpAddr != "" {
		srv := web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	log.Printf("started: poll=%v broker=%s heartbeat=%v i2c=%s motor=%s", poll, broker, heartbeat, i2cBus, motorPin)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(reader, clock, oled, vib, publisher, mqttStatus, tracker, heartbeat, time.Now, ticker.C, sigCh)
}

func runLoop(reader gpio.Reader, clock rtc.Clock, surface logic.Surface, vib logic.Motor, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	ctrl := logic.NewController(surface, vib, clock, startTime)
	debouncer := logic.NewDebouncer()

	var wall logic.DateTime
	var wallValid bool
	var lastRTCRead time.Time

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			// Never leave the motor buzzing past process exit.
			vib.SetIntensity(0)
			if publisher != nil {
				signalName := "UNKNOWN"
				if s == syscall.SIGINT {
					signalName = "SIGINT"
				} else if s == syscall.SIGTERM {
					signalName = "SIGTERM"
				}
				event := mqtt.SystemEvent{
					Timestamp: now(),
					Event:     "SHUTDOWN",
					Reason:    signalName,
					Retained:  true,
				}
				if tracker != nil {
					if mqttStatus != nil {
						tracker.SetMQTTConnected(mqttStatus.IsConnected())
					}
					snap := tracker.Snapshot()
					event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
				}
				if err := publisher.PublishSystem(event); err != nil {
					log.Printf("failed to publish shutdown event: %v", err)
				} else {
					log.Printf("published shutdown event")
				}
			}
			return nil

		case <-tick:
			t := now()

			sample, err := reader.Read()
			if err != nil {
				log.Printf("gpio read error: %v", err)
				continue
			}
			ev, hasEvent := debouncer.Poll(sample.Clk, sample.Dt, sample.Pressed, t)

			if !wallValid || t.Sub(lastRTCRead) >= rtcRefresh {
				w, err := clock.Now()
				if err != nil {
					log.Printf("rtc read error: %v", err)
					if !wallValid {
						// No wall time yet; the state machine cannot run.
						continue
					}
				} else {
					wall = w
					wallValid = true
					lastRTCRead = t
				}
			}

			events, err := ctrl.Tick(wall, t, ev, hasEvent)
			if err != nil {
				log.Printf("rtc set error: %v", err)
			}

			for _, event := range events {
				log.Printf("event: %s (alarm=%02d:%02d armed=%t)",
					event.Type, event.Alarm.Hour, event.Alarm.Minute, event.Alarm.Armed)
				if event.Type == logic.EventTimeSet {
					// The edit committed a new wall time; drop the cache so
					// the next tick rereads it.
					wallValid = false
				}
				if publisher != nil {
					if err := publisher.Publish(event); err != nil {
						log.Printf("publish error: %v", err)
						// Don't crash on publish failure
					}
				}
			}

			if hbData := ctrl.CheckHeartbeat(t, heartbeat); hbData != nil {
				log.Printf("heartbeat: uptime=%v armed=%d set=%d fired=%d stopped=%d",
					hbData.Uptime, hbData.Counts.AlarmsArmed, hbData.Counts.TimesSet,
					hbData.Counts.AlarmsFired, hbData.Counts.AlarmsStopped)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					if mqttStatus != nil {
						tracker.SetMQTTConnected(mqttStatus.IsConnected())
					}
					// Refresh network info for heartbeat
					if net := readNetworkInfo(); net != nil {
						tracker.SetNetwork(net)
					}
					tracker.Update(ctrl.Screen(), ctrl.Alarm(), ctrl.Triggered(), ctrl.Counts())
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if publisher != nil {
					if err := publisher.PublishSystem(hbEvent); err != nil {
						log.Printf("heartbeat publish error: %v", err)
					}
				}
			}

			if tracker != nil {
				tracker.Update(ctrl.Screen(), ctrl.Alarm(), ctrl.Triggered(), ctrl.Counts())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}
		}
	}
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
