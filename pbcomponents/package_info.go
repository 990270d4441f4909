// Package pbcomponents provides the standard implementations and configuration builders
// for the pluggable components of the SDK client.
//
// Some of the configuration methods in pbclient.Config take an interface as a value,
// such as an interfaces.EventProcessorFactory. These interfaces are implemented by the
// builders in this package, such as EventProcessorBuilder; the builder methods allow the
// component's properties to be adjusted before the client is created.
package pbcomponents
