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

// StageService manages stage instances and the audience/speaker state of the
// users connected to a stage channel. The instance lifecycle is independent
// of who is connected: deleting an instance does not disconnect anyone.
type StageService struct {
	stages   repository.StageInstanceRepository
	sessions repository.VoiceSessionRepository
	log      *logger.Logger
}

func NewStageService(stages repository.StageInstanceRepository, sessions repository.VoiceSessionRepository, log *logger.Logger) *StageService {
	return &StageService{stages: stages, sessions: sessions, log: log}
}

type CreateStageInput struct {
	GuildID      uuid.UUID
	ChannelID    uuid.UUID
	Topic        string
	PrivacyLevel string
}

// CreateStage opens a stage instance on a channel. At most one instance may
// exist per channel; a second create reports ErrAlreadyExists.
func (s *StageService) CreateStage(ctx context.Context, in CreateStageInput) (voice.StageInstance, error) {
	if in.Topic == "" || len(in.Topic) > 120 {
		return voice.StageInstance{}, voicehub_errors.ErrInvalidInput
	}
	privacy := in.PrivacyLevel
	if privacy == "" {
		privacy = voice.StagePrivacyGuildOnly
	}
	if privacy != voice.StagePrivacyPublic && privacy != voice.StagePrivacyGuildOnly {
		return voice.StageInstance{}, voicehub_errors.ErrInvalidInput
	}

	st := &voice.StageInstance{
		ID:           uuid.New(),
		GuildID:      in.GuildID,
		ChannelID:    in.ChannelID,
		Topic:        in.Topic,
		PrivacyLevel: privacy,
		CreatedAt:    time.Now(),
	}
	if err := s.stages.Create(ctx, st); err != nil {
		return voice.StageInstance{}, err
	}

	s.log.Info(ctx, "stage instance created",
		zap.String("stage_id", st.ID.String()),
		zap.String("channel_id", st.ChannelID.String()))
	return *st, nil
}

func (s *StageService) GetStage(ctx context.Context, id uuid.UUID) (voice.StageInstance, error) {
	return s.stages.GetByID(ctx, id)
}

func (s *StageService) GetStageByChannel(ctx context.Context, channelID uuid.UUID) (voice.StageInstance, error) {
	return s.stages.GetByChannel(ctx, channelID)
}

func (s *StageService) ListGuildStages(ctx context.Context, guildID uuid.UUID) ([]voice.StageInstance, error) {
	return s.stages.GetByGuild(ctx, guildID)
}

type UpdateStageInput struct {
	Topic        *string
	PrivacyLevel *string
}

func (s *StageService) UpdateStage(ctx context.Context, id uuid.UUID, in UpdateStageInput) (voice.StageInstance, error) {
	fields := map[string]interface{}{}
	if in.Topic != nil {
		if *in.Topic == "" || len(*in.Topic) > 120 {
			return voice.StageInstance{}, voicehub_errors.ErrInvalidInput
		}
		fields["topic"] = *in.Topic
	}
	if in.PrivacyLevel != nil {
		if *in.PrivacyLevel != voice.StagePrivacyPublic && *in.PrivacyLevel != voice.StagePrivacyGuildOnly {
			return voice.StageInstance{}, voicehub_errors.ErrInvalidInput
		}
		fields["privacy_level"] = *in.PrivacyLevel
	}
	if len(fields) == 0 {
		return voice.StageInstance{}, voicehub_errors.ErrInvalidInput
	}
	return s.stages.UpdateFields(ctx, id, fields)
}

func (s *StageService) DeleteStage(ctx context.Context, id uuid.UUID) error {
	return s.stages.Delete(ctx, id)
}

// RequestToSpeak stamps the caller's session with the current time. The
// request stands until a moderator approves it or the user leaves; repeating
// the request just refreshes the timestamp.
func (s *StageService) RequestToSpeak(ctx context.Context, userID uuid.UUID) (voice.StateProjection, error) {
	sess, err := s.sessions.UpdateFields(ctx, userID, map[string]interface{}{
		"request_to_speak_timestamp": time.Now(),
	})
	if err != nil {
		if errors.Is(err, voicehub_errors.ErrNotFound) {
			return voice.StateProjection{}, voicehub_errors.ErrNotInVoice
		}
		return voice.StateProjection{}, err
	}
	return sess.Projection(), nil
}

// ApproveSpeaker lifts the target's suppression and clears any pending
// request. Approving a user who never raised their hand is allowed: it is
// an invitation to speak.
func (s *StageService) ApproveSpeaker(ctx context.Context, userID uuid.UUID) (voice.StateProjection, error) {
	sess, err := s.sessions.UpdateFields(ctx, userID, map[string]interface{}{
		"suppress":            false,
		"request_to_speak_timestamp": nil,
	})
	if err != nil {
		if errors.Is(err, voicehub_errors.ErrNotFound) {
			return voice.StateProjection{}, voicehub_errors.ErrNotInVoice
		}
		return voice.StateProjection{}, err
	}
	return sess.Projection(), nil
}

// RevokeSpeaker sends the target back to the audience.
func (s *StageService) RevokeSpeaker(ctx context.Context, userID uuid.UUID) (voice.StateProjection, error) {
	sess, err := s.sessions.UpdateFields(ctx, userID, map[string]interface{}{
		"suppress":            true,
		"request_to_speak_timestamp": nil,
	})
	if err != nil {
		if errors.Is(err, voicehub_errors.ErrNotFound) {
			return voice.StateProjection{}, voicehub_errors.ErrNotInVoice
		}
		return voice.StateProjection{}, err
	}
	return sess.Projection(), nil
}
