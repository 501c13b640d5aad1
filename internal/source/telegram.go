package source

import (
	"context"

	"go.uber.org/zap"

	"github.com/padraigk/jobradar/internal/jobs"
)

// telegramChannels are the channels worth monitoring once Bot API
// credentials exist.
var telegramChannels = []string{
	"@designjobs",
	"@remotedesignjobs",
	"@eujobs",
}

// Telegram is a placeholder adapter. Reading public channels requires a bot
// with channel membership, which we do not provision yet, so it reports the
// channels it would watch and returns nothing.
type Telegram struct {
	deps Deps
}

func NewTelegram(deps Deps) *Telegram {
	return &Telegram{deps: deps}
}

func (t *Telegram) Name() string { return "Telegram" }

func (t *Telegram) FetchJobs(ctx context.Context, profile *jobs.Profile) ([]jobs.Job, error) {
	t.deps.Logger.Info("telegram source not configured, skipping",
		zap.Strings("channels", telegramChannels))
	return nil, nil
}
