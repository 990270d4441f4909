package pbclient

import (
	"sync"

	"github.com/pulseboard/go-client-sdk/interfaces"
)

var allConsentTypes = []interfaces.ConsentType{ //nolint:gochecknoglobals
	interfaces.ConsentAnalytics,
	interfaces.ConsentCrashReporting,
	interfaces.ConsentPerformance,
}

// consentGate holds the current per-category consent state. It is consulted
// synchronously before any event is constructed; a denied category drops the event
// without queuing it.
type consentGate struct {
	lock  sync.RWMutex
	state interfaces.ConsentState
}

func newConsentGate(consentRequired bool) *consentGate {
	state := make(interfaces.ConsentState, len(allConsentTypes))
	for _, t := range allConsentTypes {
		state[t] = !consentRequired
	}
	return &consentGate{state: state}
}

func (g *consentGate) allows(category interfaces.ConsentType) bool {
	g.lock.RLock()
	defer g.lock.RUnlock()
	return g.state[category]
}

func (g *consentGate) set(category interfaces.ConsentType, granted bool) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.state[category] = granted
}

// ApplyConsent replaces the state of every category that appears in newState; categories
// it does not mention are left unchanged. This is the interfaces.ConsentUpdates method
// called by external consent sources.
func (g *consentGate) ApplyConsent(newState interfaces.ConsentState) {
	g.lock.Lock()
	defer g.lock.Unlock()
	for category, granted := range newState {
		g.state[category] = granted
	}
}
