package repository

import (
	"context"

	"github.com/google/uuid"

	"voicehub/internal/domain/voice"
)

// VoiceSessionRepository is the durable Session Directory. The user ID is
// the conflict target on Upsert, which is what enforces "one active voice
// channel per user".
type VoiceSessionRepository interface {
	// Upsert inserts the session or, when the user already has one,
	// overwrites the join-time fields (channel, guild, session id, self
	// flags, suppress, joined at). Moderator flags and the request-to-speak
	// timestamp survive a rejoin.
	Upsert(ctx context.Context, s *voice.Session) error
	GetByUser(ctx context.Context, userID uuid.UUID) (voice.Session, error)
	GetByChannel(ctx context.Context, channelID uuid.UUID) ([]voice.Session, error)
	GetByGuild(ctx context.Context, guildID uuid.UUID) ([]voice.Session, error)
	// UpdateFields applies a partial column update and returns the updated
	// row. Returns ErrNotFound when the user has no session.
	UpdateFields(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) (voice.Session, error)
	// Delete removes the row. Deleting an absent row is not an error.
	Delete(ctx context.Context, userID uuid.UUID) error
}

type StageInstanceRepository interface {
	Create(ctx context.Context, st *voice.StageInstance) error
	GetByID(ctx context.Context, id uuid.UUID) (voice.StageInstance, error)
	GetByChannel(ctx context.Context, channelID uuid.UUID) (voice.StageInstance, error)
	GetByGuild(ctx context.Context, guildID uuid.UUID) ([]voice.StageInstance, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (voice.StageInstance, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type SoundboardRepository interface {
	Create(ctx context.Context, snd *voice.SoundboardSound) error
	GetByID(ctx context.Context, id uuid.UUID) (voice.SoundboardSound, error)
	// ListAvailable returns the guild catalog minus sounds flagged
	// unavailable.
	ListAvailable(ctx context.Context, guildID uuid.UUID) ([]voice.SoundboardSound, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (voice.SoundboardSound, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ChannelDirectory resolves what kind of channel a join targets. Channel
// CRUD lives in the guild service; only the lookup is consumed here.
type ChannelDirectory interface {
	GetChannelKind(ctx context.Context, channelID uuid.UUID) (voice.ChannelKind, error)
}
