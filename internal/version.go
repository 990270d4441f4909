package internal

// SDKName identifies this SDK in request headers.
const SDKName = "go"

// SDKVersion is the current version string of the SDK.
const SDKVersion = "1.0.0"
