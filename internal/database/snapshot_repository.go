package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/chachabrian/tvdefleet-backend/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRepository stores the fleet state as JSON in the snapshots table.
type SnapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) Load(ctx context.Context, name string) (*models.State, error) {
	var row models.Snapshot
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}

	var state models.State
	if err := json.Unmarshal([]byte(row.Data), &state); err != nil {
		return nil, fmt.Errorf("snapshot %s is corrupt: %w", name, err)
	}
	return &state, nil
}

func (r *SnapshotRepository) Save(ctx context.Context, name string, state *models.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	row := models.Snapshot{
		Name:      name,
		Data:      string(data),
		UpdatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
}
