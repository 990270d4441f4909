package internal

import (
	"github.com/pulseboard/go-client-sdk/interfaces"
	"github.com/pulseboard/go-client-sdk/pbevents"
)

// ClientContextImpl is the SDK's standard implementation of interfaces.ClientContext.
//
// It also carries some shared components that are created by the client during
// initialization and needed by component factories, but that we do not want to expose in
// the public ClientContext interface. Factories that are part of the SDK can type-assert
// a ClientContext to *ClientContextImpl to get at them; custom factory implementations
// simply will not see them.
type ClientContextImpl struct {
	Basic   interfaces.BasicConfiguration
	HTTP    interfaces.HTTPConfiguration
	Logging interfaces.LoggingConfiguration

	// OverflowStore is the durable event store created from Config.OverflowStore, or nil.
	OverflowStore pbevents.OverflowStore
	// EventContext is the static context snapshot (environment, app, device, anonymous
	// id) resolved by the client before the event processor is built.
	EventContext pbevents.EventContext
}

func (c *ClientContextImpl) GetBasic() interfaces.BasicConfiguration { return c.Basic }

func (c *ClientContextImpl) GetHTTP() interfaces.HTTPConfiguration { return c.HTTP }

func (c *ClientContextImpl) GetLogging() interfaces.LoggingConfiguration { return c.Logging }
