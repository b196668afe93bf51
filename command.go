package despertador

import (
	"context"
	"time"
)

// Command is a side-effect request emitted by the state machine. Audio,
// notification, vibration and UI layers consume them.
type Command interface {
	// Instance returns the id of the instance the command is about.
	Instance() string
	command()
}

// CommandSink receives the commands produced by a transition.
type CommandSink interface {
	Emit(ctx context.Context, cmds ...Command)
}

// NotificationKind selects the notification posted for an instance.
type NotificationKind string

const (
	NotificationLow     NotificationKind = "low"
	NotificationHigh    NotificationKind = "high"
	NotificationFired   NotificationKind = "fired"
	NotificationSnoozed NotificationKind = "snoozed"
	NotificationMissed  NotificationKind = "missed"
)

type PlayRingtone struct {
	InstanceID string        `json:"instanceId"`
	URI        string        `json:"uri"`
	Crescendo  time.Duration `json:"crescendo"`
	Volume     float64       `json:"volume"`
}

type StopRingtone struct {
	InstanceID string `json:"instanceId"`
}

type Vibrate struct {
	InstanceID string `json:"instanceId"`
	Pattern    string `json:"pattern"`
}

type PostNotification struct {
	InstanceID string           `json:"instanceId"`
	Kind       NotificationKind `json:"kind"`
	Label      string           `json:"label"`
	AlertTime  time.Time        `json:"alertTime"`
}

type CancelNotification struct {
	InstanceID string `json:"instanceId"`
}

// WakeDisplay asks the host to turn the screen on.
type WakeDisplay struct {
	InstanceID string `json:"instanceId"`
}

// BroadcastStateChanged tells observers that an instance changed state.
type BroadcastStateChanged struct {
	InstanceID string     `json:"instanceId"`
	State      AlarmState `json:"state"`
}

func (c PlayRingtone) Instance() string          { return c.InstanceID }
func (c StopRingtone) Instance() string          { return c.InstanceID }
func (c Vibrate) Instance() string               { return c.InstanceID }
func (c PostNotification) Instance() string      { return c.InstanceID }
func (c CancelNotification) Instance() string    { return c.InstanceID }
func (c WakeDisplay) Instance() string           { return c.InstanceID }
func (c BroadcastStateChanged) Instance() string { return c.InstanceID }

func (PlayRingtone) command()          {}
func (StopRingtone) command()          {}
func (Vibrate) command()               {}
func (PostNotification) command()      {}
func (CancelNotification) command()    {}
func (WakeDisplay) command()           {}
func (BroadcastStateChanged) command() {}

// CommandName returns a short name for the command type, used in logs.
func CommandName(c Command) string {
	switch c.(type) {
	case PlayRingtone:
		return "play_ringtone"
	case StopRingtone:
		return "stop_ringtone"
	case Vibrate:
		return "vibrate"
	case PostNotification:
		return "post_notification"
	case CancelNotification:
		return "cancel_notification"
	case WakeDisplay:
		return "wake_display"
	case BroadcastStateChanged:
		return "broadcast_state_changed"
	}
	return "unknown"
}

// Sinks fans commands out to several sinks in order.
type Sinks []CommandSink

func (s Sinks) Emit(ctx context.Context, cmds ...Command) {
	for _, sink := range s {
		sink.Emit(ctx, cmds...)
	}
}
