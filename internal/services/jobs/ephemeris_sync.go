package jobs

import (
	"context"
	"log/slog"
	"time"
)

const ephemerisSyncName = "ephemeris-sync"

// Refresher источник, докачивающий файлы эфемерид
type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

// EphemerisSync джоба периодической подгрузки новых файлов эфемерид из S3.
// Файлы появляются в каталоге движка без перезапуска сервиса.
type EphemerisSync struct {
	every
	store Refresher
	log   *slog.Logger
}

func NewEphemerisSync(store Refresher, interval time.Duration, log *slog.Logger) *EphemerisSync {
	return &EphemerisSync{
		every: every(interval),
		store: store,
		log:   log,
	}
}

func (j *EphemerisSync) Name() string {
	return ephemerisSyncName
}

func (j *EphemerisSync) Run(ctx context.Context) error {
	synced, err := j.store.Refresh(ctx)
	if err != nil {
		return err
	}
	if synced > 0 {
		j.log.Info("ephemeris files downloaded", "count", synced)
	}
	return nil
}
