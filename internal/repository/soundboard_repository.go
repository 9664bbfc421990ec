package repository

import (
	"context"
	"errors"

	"voicehub/internal/domain/voice"
	voicehub_errors "voicehub/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresSoundboardRepository struct {
	db *gorm.DB
}

func NewSoundboardRepository(db *gorm.DB) SoundboardRepository {
	return &PostgresSoundboardRepository{db: db}
}

func (r *PostgresSoundboardRepository) Create(ctx context.Context, snd *voice.SoundboardSound) error {
	res := r.db.WithContext(ctx).Create(snd)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return voicehub_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresSoundboardRepository) GetByID(ctx context.Context, id uuid.UUID) (voice.SoundboardSound, error) {
	var snd voice.SoundboardSound
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&snd).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return voice.SoundboardSound{}, voicehub_errors.ErrNotFound
		}
		return voice.SoundboardSound{}, err
	}
	return snd, nil
}

func (r *PostgresSoundboardRepository) ListAvailable(ctx context.Context, guildID uuid.UUID) ([]voice.SoundboardSound, error) {
	var sounds []voice.SoundboardSound
	err := r.db.WithContext(ctx).
		Where("guild_id = ? AND available = true", guildID).
		Order("created_at ASC").
		Find(&sounds).Error
	if err != nil {
		return nil, err
	}
	return sounds, nil
}

func (r *PostgresSoundboardRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (voice.SoundboardSound, error) {
	res := r.db.WithContext(ctx).
		Model(&voice.SoundboardSound{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return voice.SoundboardSound{}, res.Error
	}
	if res.RowsAffected == 0 {
		return voice.SoundboardSound{}, voicehub_errors.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresSoundboardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&voice.SoundboardSound{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return voicehub_errors.ErrNotFound
	}
	return nil
}
