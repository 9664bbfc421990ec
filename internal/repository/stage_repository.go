package repository

import (
	"context"
	"errors"

	"voicehub/internal/domain/voice"
	voicehub_errors "voicehub/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresStageRepository struct {
	db *gorm.DB
}

func NewStageRepository(db *gorm.DB) StageInstanceRepository {
	return &PostgresStageRepository{db: db}
}

func (r *PostgresStageRepository) Create(ctx context.Context, st *voice.StageInstance) error {
	res := r.db.WithContext(ctx).Create(st)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return voicehub_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresStageRepository) GetByID(ctx context.Context, id uuid.UUID) (voice.StageInstance, error) {
	var st voice.StageInstance
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&st).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return voice.StageInstance{}, voicehub_errors.ErrNotFound
		}
		return voice.StageInstance{}, err
	}
	return st, nil
}

func (r *PostgresStageRepository) GetByChannel(ctx context.Context, channelID uuid.UUID) (voice.StageInstance, error) {
	var st voice.StageInstance
	err := r.db.WithContext(ctx).Where("channel_id = ?", channelID).First(&st).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return voice.StageInstance{}, voicehub_errors.ErrNotFound
		}
		return voice.StageInstance{}, err
	}
	return st, nil
}

func (r *PostgresStageRepository) GetByGuild(ctx context.Context, guildID uuid.UUID) ([]voice.StageInstance, error) {
	var stages []voice.StageInstance
	err := r.db.WithContext(ctx).
		Where("guild_id = ?", guildID).
		Order("created_at ASC").
		Find(&stages).Error
	if err != nil {
		return nil, err
	}
	return stages, nil
}

func (r *PostgresStageRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (voice.StageInstance, error) {
	res := r.db.WithContext(ctx).
		Model(&voice.StageInstance{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return voice.StageInstance{}, res.Error
	}
	if res.RowsAffected == 0 {
		return voice.StageInstance{}, voicehub_errors.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresStageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&voice.StageInstance{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return voicehub_errors.ErrNotFound
	}
	return nil
}
