package notification

import (
	"fmt"

	"pharmacy/internal/pkg/errs"
)

// Urgency tells the transport how intrusive a notification should be.
type Urgency int

const (
	UrgencyUnknown Urgency = iota
	UrgencyLow
	UrgencyMedium
	UrgencyHigh
)

var urgencyNames = map[Urgency]string{
	UrgencyUnknown: "unknown",
	UrgencyLow:     "low",
	UrgencyMedium:  "medium",
	UrgencyHigh:    "high",
}

func (u Urgency) String() string {
	if name, ok := urgencyNames[u]; ok {
		return name
	}
	return urgencyNames[UrgencyUnknown]
}

func ParseUrgency(s string) (Urgency, error) {
	for u, name := range urgencyNames {
		if u != UrgencyUnknown && name == s {
			return u, nil
		}
	}
	return UrgencyUnknown, errs.NewValueIsInvalidErrorWithCause("urgency", fmt.Errorf("%q is not a valid urgency", s))
}

// Channel is the preferred delivery channel. The transport may ignore it.
type Channel string

const (
	ChannelInApp Channel = "in_app"
	ChannelPush  Channel = "push"
	// ChannelPushAudio is a push notification with an audible cue, used for events
	// that need the recipient to act now.
	ChannelPushAudio Channel = "push_audio"
)

func ParseChannel(s string) (Channel, error) {
	switch c := Channel(s); c {
	case ChannelInApp, ChannelPush, ChannelPushAudio:
		return c, nil
	}
	return "", errs.NewValueIsInvalidErrorWithCause("channel", fmt.Errorf("%q is not a valid channel", s))
}
