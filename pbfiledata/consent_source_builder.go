package pbfiledata

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/pulseboard/go-client-sdk/interfaces"
)

// ReloaderFactory is a function type used with ConsentSourceBuilder.Reloader, to specify
// a mechanism for detecting when consent files should be reloaded. Its standard
// implementation is in the pbfilewatch package.
type ReloaderFactory func(paths []string, loggers ldlog.Loggers, reload func(), closeCh <-chan struct{}) error

// ConsentSourceBuilder is a builder for configuring the file-based consent source.
//
// Obtain an instance of this type by calling ConsentSource(). After calling its methods
// to specify any desired custom settings, store it in the ConsentSource field of the
// client configuration.
//
// Builder calls can be chained:
//
//	config.ConsentSource = pbfiledata.ConsentSource().FilePaths("file1").FilePaths("file2")
type ConsentSourceBuilder struct {
	filePaths       []string
	reloaderFactory ReloaderFactory
}

// ConsentSource returns a configurable builder for a file-based consent source.
func ConsentSource() *ConsentSourceBuilder {
	return &ConsentSourceBuilder{}
}

// FilePaths specifies the input files. The paths may be any number of absolute or
// relative file paths. If a category appears in more than one file, the last file wins.
func (b *ConsentSourceBuilder) FilePaths(paths ...string) *ConsentSourceBuilder {
	b.filePaths = append(b.filePaths, paths...)
	return b
}

// Reloader specifies a mechanism for reloading consent files.
//
// It is normally used with the pbfilewatch package, as follows:
//
//	config := pbclient.Config{
//	    ConsentSource: pbfiledata.ConsentSource().
//	        FilePaths(filePaths...).
//	        Reloader(pbfilewatch.WatchFiles),
//	}
func (b *ConsentSourceBuilder) Reloader(reloaderFactory ReloaderFactory) *ConsentSourceBuilder {
	b.reloaderFactory = reloaderFactory
	return b
}

// CreateConsentSource is called by the SDK to create the consent source instance.
func (b *ConsentSourceBuilder) CreateConsentSource(
	context interfaces.ClientContext,
	consentUpdates interfaces.ConsentUpdates,
) (interfaces.ConsentSource, error) {
	return newFileConsentSourceImpl(context, consentUpdates, b.filePaths, b.reloaderFactory)
}
