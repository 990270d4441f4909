package pbcomponents

import (
	"github.com/pulseboard/go-client-sdk/interfaces"
	"github.com/pulseboard/go-client-sdk/pbevents"
)

type nullEventProcessorFactory struct{}

// NoEvents returns a configuration object that disables event delivery.
//
// Storing this in Config.Events causes the SDK to discard all telemetry events without
// delivering them:
//
//	config := pbclient.Config{
//	    Events: pbcomponents.NoEvents(),
//	}
func NoEvents() interfaces.EventProcessorFactory {
	return nullEventProcessorFactory{}
}

func (f nullEventProcessorFactory) CreateEventProcessor(
	context interfaces.ClientContext,
) (pbevents.EventProcessor, error) {
	return pbevents.NewNullEventProcessor(), nil
}
