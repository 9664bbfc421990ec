package repository

import (
	"context"
	"errors"

	"voicehub/internal/domain/channel"
	"voicehub/internal/domain/voice"
	voicehub_errors "voicehub/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostgresChannelDirectory reads the channels table owned by the guild
// service. The voice subsystem only needs to know a channel's guild and
// whether it is a stage channel; it never writes here.
type PostgresChannelDirectory struct {
	db *gorm.DB
}

func NewChannelDirectory(db *gorm.DB) ChannelDirectory {
	return &PostgresChannelDirectory{db: db}
}

func (r *PostgresChannelDirectory) GetChannelKind(ctx context.Context, channelID uuid.UUID) (voice.ChannelKind, error) {
	var ch channel.Channel
	err := r.db.WithContext(ctx).
		Select("id", "guild_id", "type").
		Where("id = ?", channelID).
		First(&ch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return voice.ChannelKind{}, voicehub_errors.ErrNotFound
		}
		return voice.ChannelKind{}, err
	}
	return voice.ChannelKind{GuildID: ch.GuildID, IsStage: ch.IsStage()}, nil
}
