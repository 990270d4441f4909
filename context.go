package pbclient

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"

	"github.com/pulseboard/go-client-sdk/pbevents"
)

const (
	anonymousIDKey = "anonymous_id"
	deviceIDKey    = "device_id"
)

// resolveEventContext builds the static context that accompanies every batch: app and
// device descriptors plus the anonymous id. Identity values are read from the identity
// store when one is available, so that they remain stable across process restarts;
// otherwise they are generated fresh for this process.
func resolveEventContext(
	dsn DSN,
	config Config,
	identities pbevents.IdentityStore,
) pbevents.EventContext {
	hostname, _ := os.Hostname()

	app := pbevents.AppInfo{
		BundleID:    config.ApplicationInfo.ApplicationID,
		VersionName: config.ApplicationInfo.ApplicationVersion,
		BuildNumber: config.ApplicationInfo.BuildNumber,
	}
	if app.BundleID == "" {
		if exe, err := os.Executable(); err == nil {
			app.BundleID = filepath.Base(exe)
		}
	}
	if app.VersionName == "" {
		app.VersionName = "0.0.0"
	}
	if app.BuildNumber == "" {
		app.BuildNumber = "1"
	}

	device := pbevents.DeviceInfo{
		DeviceID:  resolveIdentity(identities, deviceIDKey, hostname),
		Platform:  "go",
		OSVersion: runtime.GOOS + "/" + runtime.GOARCH,
		Model:     hostname,
	}

	return pbevents.EventContext{
		Environment: dsn.Environment,
		App:         app,
		Device:      device,
		AnonymousID: resolveIdentity(identities, anonymousIDKey, ""),
	}
}

// resolveIdentity returns the persisted value for an identity key, or stores and returns
// the fallback (a fresh UUID if the fallback is empty). Store errors degrade to the
// unpersisted value.
func resolveIdentity(identities pbevents.IdentityStore, key string, fallback string) string {
	if identities != nil {
		if value, found, err := identities.Identity(key); err == nil && found {
			return value
		}
	}
	value := fallback
	if value == "" {
		value = uuid.NewString()
	}
	if identities != nil {
		_ = identities.SetIdentity(key, value)
	}
	return value
}
