package services

import (
	"context"
	"errors"
	"time"

	"voicehub/internal/domain/voice"
	"voicehub/internal/repository"
	voicehub_errors "voicehub/pkg/errors"
	"voicehub/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SoundboardService manages a guild's clip catalog and validates play
// requests. A play never touches audio: it produces an instruction the
// fanout gateway broadcasts to the channel.
type SoundboardService struct {
	sounds   repository.SoundboardRepository
	sessions repository.VoiceSessionRepository
	log      *logger.Logger
}

func NewSoundboardService(sounds repository.SoundboardRepository, sessions repository.VoiceSessionRepository, log *logger.Logger) *SoundboardService {
	return &SoundboardService{sounds: sounds, sessions: sessions, log: log}
}

type CreateSoundInput struct {
	GuildID    uuid.UUID
	Name       string
	SoundHash  string
	Volume     float64
	EmojiName  *string
	UploaderID uuid.UUID
}

func (s *SoundboardService) CreateSound(ctx context.Context, in CreateSoundInput) (voice.SoundboardSound, error) {
	if in.Name == "" || len(in.Name) > 32 || in.SoundHash == "" {
		return voice.SoundboardSound{}, voicehub_errors.ErrInvalidInput
	}
	volume := in.Volume
	if volume == 0 {
		volume = 1
	}
	if volume < 0 || volume > 1 {
		return voice.SoundboardSound{}, voicehub_errors.ErrInvalidInput
	}

	snd := &voice.SoundboardSound{
		ID:         uuid.New(),
		GuildID:    in.GuildID,
		Name:       in.Name,
		SoundHash:  in.SoundHash,
		Volume:     volume,
		EmojiName:  in.EmojiName,
		UploaderID: in.UploaderID,
		Available:  true,
		CreatedAt:  time.Now(),
	}
	if err := s.sounds.Create(ctx, snd); err != nil {
		return voice.SoundboardSound{}, err
	}
	return *snd, nil
}

func (s *SoundboardService) ListSounds(ctx context.Context, guildID uuid.UUID) ([]voice.SoundboardSound, error) {
	return s.sounds.ListAvailable(ctx, guildID)
}

type UpdateSoundInput struct {
	Name      *string
	Volume    *float64
	EmojiName *string
}

func (s *SoundboardService) UpdateSound(ctx context.Context, guildID, soundID uuid.UUID, in UpdateSoundInput) (voice.SoundboardSound, error) {
	snd, err := s.sounds.GetByID(ctx, soundID)
	if err != nil {
		return voice.SoundboardSound{}, err
	}
	if snd.GuildID != guildID {
		return voice.SoundboardSound{}, voicehub_errors.ErrNotFound
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		if *in.Name == "" || len(*in.Name) > 32 {
			return voice.SoundboardSound{}, voicehub_errors.ErrInvalidInput
		}
		fields["name"] = *in.Name
	}
	if in.Volume != nil {
		if *in.Volume < 0 || *in.Volume > 1 {
			return voice.SoundboardSound{}, voicehub_errors.ErrInvalidInput
		}
		fields["volume"] = *in.Volume
	}
	if in.EmojiName != nil {
		fields["emoji_name"] = *in.EmojiName
	}
	if len(fields) == 0 {
		return voice.SoundboardSound{}, voicehub_errors.ErrInvalidInput
	}
	return s.sounds.UpdateFields(ctx, soundID, fields)
}

func (s *SoundboardService) DeleteSound(ctx context.Context, guildID, soundID uuid.UUID) error {
	snd, err := s.sounds.GetByID(ctx, soundID)
	if err != nil {
		return err
	}
	if snd.GuildID != guildID {
		return voicehub_errors.ErrNotFound
	}
	return s.sounds.Delete(ctx, soundID)
}

// Play validates that the requester is connected to voice in the sound's
// guild and that the sound is playable, then returns the broadcast
// instruction targeting the requester's current channel.
func (s *SoundboardService) Play(ctx context.Context, guildID, soundID, requesterID uuid.UUID) (voice.PlayInstruction, error) {
	sess, err := s.sessions.GetByUser(ctx, requesterID)
	if err != nil {
		if errors.Is(err, voicehub_errors.ErrNotFound) {
			return voice.PlayInstruction{}, voicehub_errors.ErrNotInVoice
		}
		return voice.PlayInstruction{}, err
	}
	if sess.GuildID == nil || *sess.GuildID != guildID {
		return voice.PlayInstruction{}, voicehub_errors.ErrNotInVoice
	}

	snd, err := s.sounds.GetByID(ctx, soundID)
	if err != nil {
		return voice.PlayInstruction{}, err
	}
	if snd.GuildID != guildID || !snd.Available {
		return voice.PlayInstruction{}, voicehub_errors.ErrNotFound
	}

	s.log.Info(ctx, "soundboard play dispatched",
		zap.String("sound_id", soundID.String()),
		zap.String("channel_id", sess.ChannelID.String()))

	return voice.PlayInstruction{
		GuildID:   guildID,
		ChannelID: sess.ChannelID,
		SoundID:   snd.ID,
		UserID:    requesterID,
		Volume:    snd.Volume,
	}, nil
}
