package workers

import (
	"context"
	"time"

	"buziak_backend/internal/logger"
	"buziak_backend/internal/repositories"

	"gorm.io/gorm"
)

// CleanupWorker периодически вычищает протухшие коды подтверждения.
// Проверка срока при верификации делает это некритичным для корректности,
// сметание лишь не дает таблице расти.
type CleanupWorker struct {
	db       *gorm.DB
	codeRepo repositories.ConfirmationCodeRepository
	interval time.Duration
}

func NewCleanupWorker(db *gorm.DB, codeRepo repositories.ConfirmationCodeRepository) *CleanupWorker {
	return &CleanupWorker{
		db:       db,
		codeRepo: codeRepo,
		interval: 10 * time.Minute,
	}
}

// Start запускает фоновую очистку
func (w *CleanupWorker) Start(ctx context.Context) {
	go w.sweepExpiredCodes(ctx)
}

func (w *CleanupWorker) sweepExpiredCodes(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup worker stopped")
			return
		case <-ticker.C:
			deleted, err := w.codeRepo.DeleteExpired(w.db)
			if err != nil {
				logger.WithError(err).Error("Failed to sweep expired confirmation codes")
			} else if deleted > 0 {
				logger.Info("Swept expired confirmation codes", "count", deleted)
			}
		}
	}
}
