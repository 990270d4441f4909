package pbenv

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	pbclient "github.com/pulseboard/go-client-sdk"
	"github.com/pulseboard/go-client-sdk/interfaces"
	"github.com/pulseboard/go-client-sdk/pbcomponents"
	"github.com/pulseboard/go-client-sdk/pbsqlite"
)

type envSettings struct {
	DSN                string        `env:"PULSEBOARD_DSN,required"`
	Offline            bool          `env:"PULSEBOARD_OFFLINE,default=false"`
	ConsentRequired    bool          `env:"PULSEBOARD_CONSENT_REQUIRED,default=false"`
	SampleRate         float64       `env:"PULSEBOARD_SAMPLE_RATE,default=1"`
	SessionTimeout     time.Duration `env:"PULSEBOARD_SESSION_TIMEOUT,default=30m"`
	BatchSize          int           `env:"PULSEBOARD_BATCH_SIZE,default=50"`
	FlushInterval      time.Duration `env:"PULSEBOARD_FLUSH_INTERVAL,default=5s"`
	OverflowDBPath     string        `env:"PULSEBOARD_OVERFLOW_DB_PATH"`
	MaxPersistedEvents int           `env:"PULSEBOARD_MAX_PERSISTED_EVENTS,default=1000"`
	AppID              string        `env:"PULSEBOARD_APP_ID"`
	AppVersion         string        `env:"PULSEBOARD_APP_VERSION"`
	AppBuild           string        `env:"PULSEBOARD_APP_BUILD"`
}

// LoadConfig reads the PULSEBOARD_* environment variables and returns the DSN plus a
// client configuration built from them. Pass both to pbclient.MakeCustomClient.
func LoadConfig(ctx context.Context) (string, pbclient.Config, error) {
	var settings envSettings
	if err := envconfig.Process(ctx, &settings); err != nil {
		return "", pbclient.Config{}, fmt.Errorf("load env config: %w", err)
	}

	config := pbclient.Config{
		Events: pbcomponents.SendEvents().
			BatchSize(settings.BatchSize).
			FlushInterval(settings.FlushInterval),
		ApplicationInfo: interfaces.ApplicationInfo{
			ApplicationID:      settings.AppID,
			ApplicationVersion: settings.AppVersion,
			BuildNumber:        settings.AppBuild,
		},
		Offline:         settings.Offline,
		ConsentRequired: settings.ConsentRequired,
		SampleRate:      settings.SampleRate,
		SessionTimeout:  settings.SessionTimeout,
	}
	if settings.OverflowDBPath != "" {
		config.OverflowStore = pbsqlite.OverflowStore().
			Path(settings.OverflowDBPath).
			MaxPersistedEvents(settings.MaxPersistedEvents)
	}
	return settings.DSN, config, nil
}
