package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gzcarena/arena/models"
	"github.com/gzcarena/arena/storage"
)

// runInTransaction wraps fn in a transaction, rolling back on error or panic.
// Every multi-step write in this service (join, bracket generation, match
// completion, prize distribution) goes through here so concurrent requests
// cannot observe partial state.
func runInTransaction(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func populateTournamentBannerURL(t *models.Tournament, uploader storage.FileUploader) {
	if t == nil || t.BannerKey == nil || uploader == nil {
		return
	}
	url := uploader.GetPublicURL(*t.BannerKey)
	if url != "" {
		t.BannerURL = &url
	}
}

func participantsToValues(slice []*models.Participant) []models.Participant {
	if slice == nil {
		return []models.Participant{}
	}
	result := make([]models.Participant, len(slice))
	for i, ptr := range slice {
		if ptr != nil {
			result[i] = *ptr
		}
	}
	return result
}

func matchesToValues(slice []*models.Match) []models.Match {
	if slice == nil {
		return []models.Match{}
	}
	result := make([]models.Match, len(slice))
	for i, ptr := range slice {
		if ptr != nil {
			result[i] = *ptr
		}
	}
	return result
}
