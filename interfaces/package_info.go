// Package interfaces contains the public types that are used in the configuration of the
// Pulseboard SDK client, and the interfaces for pluggable components.
//
// Most applications will not need to refer to these types directly, except for basic
// configuration fields. The component interfaces are implemented by the builders in the
// pbcomponents package and by integrations such as pbsqlite; you only need to implement
// them yourself for custom SDK integrations.
package interfaces
