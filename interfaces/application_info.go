package interfaces

// ApplicationInfo allows configuration of application metadata that is attached to every
// batch payload.
//
// If you do not set these fields, the SDK falls back to generic defaults derived from the
// running process.
type ApplicationInfo struct {
	// ApplicationID is a unique identifier for the application, such as a bundle id or
	// package name.
	ApplicationID string

	// ApplicationVersion is the version of the application.
	ApplicationVersion string

	// BuildNumber is the build number or commit identifier of the application.
	BuildNumber string
}
