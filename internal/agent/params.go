package agent

import (
	"fmt"

	"github.com/kestrelworks/otaboot/internal/infrastructure/mqtt"
)

// Messenger is the broker connection the agent runs over. Satisfied by
// *mqtt.Client; tests substitute an in-memory fake.
type Messenger interface {
	IsConnected() bool
	ClientID() string
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Callback receives agent status events. It runs on the agent's
// goroutine and must not block; the arg is the ContextRef supplied in
// AgentParams, bound to the agent's Context before the first event.
type Callback func(reason Reason, value uint32, arg *ContextRef)

// NetworkParams identify the connection the agent communicates over.
// The interface reference is read at Start time, immediately before
// the agent begins using it.
type NetworkParams struct {
	// Interface is the established broker connection. Must be non-nil
	// and connected.
	Interface Messenger

	// DeviceID scopes the agent's topics. Defaults to the interface's
	// client ID when empty.
	DeviceID string
}

// AgentParams configure the agent's behavior.
type AgentParams struct {
	// Callback receives every status event. Required.
	Callback Callback

	// CallbackArg is the opaque argument handed to every callback
	// invocation. Required; Start binds the agent Context into it.
	CallbackArg *ContextRef

	// TopicFilters are the subscription filters for update
	// notifications. Empty means the device's own update filter.
	TopicFilters []string

	// Updater fetches, verifies, and applies update images. Required.
	Updater Updater

	// Rebooter restarts the device after a completed update. Required
	// when RebootUponCompletion is set.
	Rebooter Rebooter

	// RebootUponCompletion reboots the device after a successful
	// update instead of returning to waiting.
	RebootUponCompletion bool

	// Logger receives agent log output. Optional; nil disables logging.
	Logger Logger
}

func (n NetworkParams) validate() error {
	if n.Interface == nil {
		return fmt.Errorf("%w: nil network interface", ErrInvalidParams)
	}
	if !n.Interface.IsConnected() {
		return ErrNetworkNotReady
	}
	return nil
}

func (p AgentParams) validate() error {
	if p.Callback == nil {
		return fmt.Errorf("%w: nil callback", ErrInvalidParams)
	}
	if p.CallbackArg == nil {
		return fmt.Errorf("%w: nil callback argument", ErrInvalidParams)
	}
	if p.Updater == nil {
		return fmt.Errorf("%w: nil updater", ErrInvalidParams)
	}
	if p.RebootUponCompletion && p.Rebooter == nil {
		return fmt.Errorf("%w: reboot requested without a rebooter", ErrInvalidParams)
	}
	return nil
}
