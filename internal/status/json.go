package status

import (
	"encoding/json"
	"fmt"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Screen        string       `json:"screen"`
	Alarm         AlarmJSON    `json:"alarm"`
	Triggered     bool         `json:"triggered"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// AlarmJSON is the JSON representation of the armed alarm.
type AlarmJSON struct {
	Time        string `json:"time"`
	RampSeconds int    `json:"ramp_seconds"`
	Armed       bool   `json:"armed"`
	Confirmed   bool   `json:"confirmed"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	AlarmsArmed   int `json:"alarms_armed"`
	TimesSet      int `json:"times_set"`
	AlarmsFired   int `json:"alarms_fired"`
	AlarmsStopped int `json:"alarms_stopped"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
	I2CBus      string `json:"i2c_bus"`
	PinClk      int    `json:"pin_clk"`
	PinDt       int    `json:"pin_dt"`
	PinBtn      int    `json:"pin_btn"`
	MotorPin    string `json:"motor_pin"`
}

func buildInner(snap Snapshot) StatusInner {
	alarm := AlarmJSON{
		RampSeconds: snap.Alarm.RampSeconds,
		Armed:       snap.Alarm.Armed,
		Confirmed:   snap.Alarm.Confirmed,
	}
	if snap.Alarm.Armed {
		alarm.Time = fmt.Sprintf("%02d:%02d", snap.Alarm.Hour, snap.Alarm.Minute)
	}

	return StatusInner{
		Screen:        string(snap.Screen),
		Alarm:         alarm,
		Triggered:     snap.Triggered,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			AlarmsArmed:   snap.Counts.AlarmsArmed,
			TimesSet:      snap.Counts.TimesSet,
			AlarmsFired:   snap.Counts.AlarmsFired,
			AlarmsStopped: snap.Counts.AlarmsStopped,
		},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			I2CBus:      snap.Config.I2CBus,
			PinClk:      snap.Config.PinClk,
			PinDt:       snap.Config.PinDt,
			PinBtn:      snap.Config.PinBtn,
			MotorPin:    snap.Config.MotorPin,
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
