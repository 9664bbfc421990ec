package repository

import (
	"context"
	"errors"

	"voicehub/internal/domain/voice"
	voicehub_errors "voicehub/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresVoiceSessionRepository struct {
	db *gorm.DB
}

func NewVoiceSessionRepository(db *gorm.DB) VoiceSessionRepository {
	return &PostgresVoiceSessionRepository{db: db}
}

// upsertColumns are the fields a rejoin overwrites. Moderator mute/deafen
// and request_to_speak_timestamp deliberately survive channel switches.
var upsertColumns = []string{
	"channel_id", "guild_id", "session_id",
	"self_mute", "self_deaf", "self_stream", "self_video",
	"suppress", "joined_at",
}

func (r *PostgresVoiceSessionRepository) Upsert(ctx context.Context, s *voice.Session) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).
		Create(s).Error
}

func (r *PostgresVoiceSessionRepository) GetByUser(ctx context.Context, userID uuid.UUID) (voice.Session, error) {
	var s voice.Session
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return voice.Session{}, voicehub_errors.ErrNotFound
		}
		return voice.Session{}, err
	}
	return s, nil
}

func (r *PostgresVoiceSessionRepository) GetByChannel(ctx context.Context, channelID uuid.UUID) ([]voice.Session, error) {
	var sessions []voice.Session
	err := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Order("joined_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *PostgresVoiceSessionRepository) GetByGuild(ctx context.Context, guildID uuid.UUID) ([]voice.Session, error) {
	var sessions []voice.Session
	err := r.db.WithContext(ctx).
		Where("guild_id = ?", guildID).
		Order("joined_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *PostgresVoiceSessionRepository) UpdateFields(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) (voice.Session, error) {
	res := r.db.WithContext(ctx).
		Model(&voice.Session{}).
		Where("user_id = ?", userID).
		Updates(fields)
	if res.Error != nil {
		return voice.Session{}, res.Error
	}
	if res.RowsAffected == 0 {
		return voice.Session{}, voicehub_errors.ErrNotFound
	}
	return r.GetByUser(ctx, userID)
}

func (r *PostgresVoiceSessionRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&voice.Session{}, "user_id = ?", userID).Error
}
