package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"voicehub/internal/domain/voice"
	"voicehub/internal/repository"
	voicehub_errors "voicehub/pkg/errors"
	"voicehub/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VoicePresence is the fast-store mirror the engine writes through. Write
// failures here are logged and swallowed where the durable row still carries
// the truth; the TTL backstop reconciles the rest.
type VoicePresence interface {
	AddMember(ctx context.Context, channelID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, channelID, userID uuid.UUID) error
	MemberCount(ctx context.Context, channelID uuid.UUID) (int64, error)
	SetUserSession(ctx context.Context, userID uuid.UUID, entry voice.PresenceEntry) error
	GetUserSession(ctx context.Context, userID uuid.UUID) (*voice.PresenceEntry, error)
	ClearUserSession(ctx context.Context, userID uuid.UUID) error
	AddGuildChannel(ctx context.Context, guildID, channelID uuid.UUID) error
	RemoveGuildChannel(ctx context.Context, guildID, channelID uuid.UUID) error
	SetScreenShare(ctx context.Context, channelID, userID uuid.UUID, share voice.ScreenShare) error
	ClearScreenShare(ctx context.Context, channelID, userID uuid.UUID) error
}

// RoomProvisioner manages the external media room tied to a channel.
type RoomProvisioner interface {
	EnsureRoom(ctx context.Context, channelID uuid.UUID) string
	TeardownIfEmpty(ctx context.Context, channelID uuid.UUID) error
}

// CredentialMinter mints the signed capability a client presents to the SFU.
type CredentialMinter interface {
	Mint(userID uuid.UUID, username string, channelID uuid.UUID, guildID *uuid.UUID) (string, error)
}

// VoiceService is the state transition engine for voice sessions. It keeps
// the durable Session Directory and the Presence Index in step and drives
// room provisioning off occupancy. No in-process locks: correctness rests on
// the durable upsert's user_id conflict target, idempotent room operations,
// and the strictly sequential leave-then-join on channel switches.
type VoiceService struct {
	sessions repository.VoiceSessionRepository
	channels repository.ChannelDirectory
	presence VoicePresence
	rooms    RoomProvisioner
	tokens   CredentialMinter
	log      *logger.Logger
}

func NewVoiceService(
	sessions repository.VoiceSessionRepository,
	channels repository.ChannelDirectory,
	presence VoicePresence,
	rooms RoomProvisioner,
	tokens CredentialMinter,
	log *logger.Logger,
) *VoiceService {
	return &VoiceService{
		sessions: sessions,
		channels: channels,
		presence: presence,
		rooms:    rooms,
		tokens:   tokens,
		log:      log,
	}
}

type JoinOptions struct {
	SelfMute bool
	SelfDeaf bool
}

type JoinResult struct {
	Credential string
	State      voice.StateProjection
}

// Join places the user in the channel. If the presence index shows them in a
// different channel, the full leave path runs first, sequentially, so the
// old channel's membership is vacated before the new one is entered.
func (s *VoiceService) Join(ctx context.Context, userID uuid.UUID, username string, channelID uuid.UUID, sessionID string, opts JoinOptions) (JoinResult, error) {
	current, err := s.presence.GetUserSession(ctx, userID)
	if err != nil {
		return JoinResult{}, err
	}
	if current != nil && current.ChannelID != channelID {
		if _, err := s.Leave(ctx, userID); err != nil && !errors.Is(err, voicehub_errors.ErrNotInVoice) {
			return JoinResult{}, err
		}
	}

	// Channel kind is resolved once, here. A channel changing type while
	// users are connected is not re-evaluated.
	kind, err := s.channels.GetChannelKind(ctx, channelID)
	if err != nil {
		return JoinResult{}, err
	}

	s.rooms.EnsureRoom(ctx, channelID)

	credential, err := s.tokens.Mint(userID, username, channelID, kind.GuildID)
	if err != nil {
		return JoinResult{}, fmt.Errorf("mint join credential: %w", err)
	}

	sess := &voice.Session{
		UserID:    userID,
		ChannelID: channelID,
		GuildID:   kind.GuildID,
		SessionID: sessionID,
		SelfMute:  opts.SelfMute,
		SelfDeaf:  opts.SelfDeaf,
		Suppress:  kind.IsStage,
		JoinedAt:  time.Now(),
	}
	if err := s.sessions.Upsert(ctx, sess); err != nil {
		return JoinResult{}, err
	}

	if err := s.presence.AddMember(ctx, channelID, userID); err != nil {
		s.log.Warn(ctx, "presence member add failed", zap.String("channel_id", channelID.String()), zap.Error(err))
	}
	if err := s.presence.SetUserSession(ctx, userID, voice.PresenceEntry{
		ChannelID: channelID,
		GuildID:   kind.GuildID,
		SessionID: sessionID,
	}); err != nil {
		s.log.Warn(ctx, "presence session write failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
	if kind.GuildID != nil {
		if err := s.presence.AddGuildChannel(ctx, *kind.GuildID, channelID); err != nil {
			s.log.Warn(ctx, "guild active-channel add failed", zap.String("guild_id", kind.GuildID.String()), zap.Error(err))
		}
	}

	s.log.Info(ctx, "user joined voice channel",
		zap.String("user_id", userID.String()),
		zap.String("channel_id", channelID.String()),
		zap.Bool("stage", kind.IsStage))

	return JoinResult{Credential: credential, State: sess.Projection()}, nil
}

// Leave removes the user from their current channel. The presence index, not
// the durable row, answers "where is this user right now" because it is the
// last thing written on join. Returns ErrNotInVoice when no entry exists.
func (s *VoiceService) Leave(ctx context.Context, userID uuid.UUID) (voice.StateProjection, error) {
	entry, err := s.presence.GetUserSession(ctx, userID)
	if err != nil {
		return voice.StateProjection{}, err
	}
	if entry == nil {
		return voice.StateProjection{}, voicehub_errors.ErrNotInVoice
	}

	if err := s.sessions.Delete(ctx, userID); err != nil {
		return voice.StateProjection{}, err
	}

	if err := s.presence.RemoveMember(ctx, entry.ChannelID, userID); err != nil {
		s.log.Warn(ctx, "presence member remove failed", zap.String("channel_id", entry.ChannelID.String()), zap.Error(err))
	}
	if err := s.presence.ClearUserSession(ctx, userID); err != nil {
		s.log.Warn(ctx, "presence session clear failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
	if err := s.presence.ClearScreenShare(ctx, entry.ChannelID, userID); err != nil {
		s.log.Warn(ctx, "screen share clear failed", zap.String("user_id", userID.String()), zap.Error(err))
	}

	count, err := s.presence.MemberCount(ctx, entry.ChannelID)
	if err != nil {
		s.log.Warn(ctx, "occupancy read failed", zap.String("channel_id", entry.ChannelID.String()), zap.Error(err))
	} else if count == 0 {
		if entry.GuildID != nil {
			if err := s.presence.RemoveGuildChannel(ctx, *entry.GuildID, entry.ChannelID); err != nil {
				s.log.Warn(ctx, "guild active-channel remove failed", zap.String("guild_id", entry.GuildID.String()), zap.Error(err))
			}
		}
		if err := s.rooms.TeardownIfEmpty(ctx, entry.ChannelID); err != nil {
			s.log.Warn(ctx, "room teardown failed", zap.String("channel_id", entry.ChannelID.String()), zap.Error(err))
		}
	}

	s.log.Info(ctx, "user left voice channel",
		zap.String("user_id", userID.String()),
		zap.String("channel_id", entry.ChannelID.String()))

	return voice.DisconnectedProjection(userID, entry.GuildID), nil
}

type SelfStateUpdate struct {
	SelfMute   *bool
	SelfDeaf   *bool
	SelfVideo  *bool
	SelfStream *bool
}

// UpdateSelfState applies only the provided fields. Deafening yourself
// always mutes you in the same update.
func (s *VoiceService) UpdateSelfState(ctx context.Context, userID uuid.UUID, upd SelfStateUpdate) (voice.StateProjection, error) {
	fields := map[string]interface{}{}
	if upd.SelfMute != nil {
		fields["self_mute"] = *upd.SelfMute
	}
	if upd.SelfDeaf != nil {
		fields["self_deaf"] = *upd.SelfDeaf
		if *upd.SelfDeaf {
			fields["self_mute"] = true
		}
	}
	if upd.SelfVideo != nil {
		fields["self_video"] = *upd.SelfVideo
	}
	if upd.SelfStream != nil {
		fields["self_stream"] = *upd.SelfStream
	}
	if len(fields) == 0 {
		return voice.StateProjection{}, voicehub_errors.ErrInvalidInput
	}

	sess, err := s.sessions.UpdateFields(ctx, userID, fields)
	if err != nil {
		if errors.Is(err, voicehub_errors.ErrNotFound) {
			return voice.StateProjection{}, voicehub_errors.ErrNotInVoice
		}
		return voice.StateProjection{}, err
	}
	return sess.Projection(), nil
}

type MemberStateUpdate struct {
	Mute     *bool
	Deaf     *bool
	Suppress *bool
	// MoveTo reassigns the durable row's channel without re-provisioning
	// the media room or touching the presence index for the destination;
	// occupancy reconciles on the member's next join or leave.
	MoveTo *uuid.UUID
	// Disconnect forces the full leave path.
	Disconnect bool
}

// ModerateMember applies a moderator's change to another user's session.
// Server-deafening implies server-muting. Capability checks happen at the
// boundary, not here.
func (s *VoiceService) ModerateMember(ctx context.Context, targetUserID uuid.UUID, upd MemberStateUpdate) (voice.StateProjection, error) {
	if upd.Disconnect {
		return s.Leave(ctx, targetUserID)
	}

	fields := map[string]interface{}{}
	if upd.Mute != nil {
		fields["mute"] = *upd.Mute
	}
	if upd.Deaf != nil {
		fields["deaf"] = *upd.Deaf
		if *upd.Deaf {
			fields["mute"] = true
		}
	}
	if upd.Suppress != nil {
		fields["suppress"] = *upd.Suppress
	}
	if upd.MoveTo != nil {
		fields["channel_id"] = *upd.MoveTo
	}
	if len(fields) == 0 {
		return voice.StateProjection{}, voicehub_errors.ErrInvalidInput
	}

	sess, err := s.sessions.UpdateFields(ctx, targetUserID, fields)
	if err != nil {
		if errors.Is(err, voicehub_errors.ErrNotFound) {
			return voice.StateProjection{}, voicehub_errors.ErrNotInVoice
		}
		return voice.StateProjection{}, err
	}
	return sess.Projection(), nil
}

func (s *VoiceService) GetState(ctx context.Context, userID uuid.UUID) (voice.Session, error) {
	return s.sessions.GetByUser(ctx, userID)
}

func (s *VoiceService) GetChannelStates(ctx context.Context, channelID uuid.UUID) ([]voice.Session, error) {
	return s.sessions.GetByChannel(ctx, channelID)
}

func (s *VoiceService) GetGuildStates(ctx context.Context, guildID uuid.UUID) ([]voice.Session, error) {
	return s.sessions.GetByGuild(ctx, guildID)
}

type ScreenShareOptions struct {
	Quality      string
	ShareType    string
	AudioEnabled bool
}

// StartScreenShare flags the session as streaming and records the share
// metadata in the fast store with its own expiry.
func (s *VoiceService) StartScreenShare(ctx context.Context, userID uuid.UUID, opts ScreenShareOptions) (voice.ScreenShareSession, error) {
	sess, err := s.sessions.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, voicehub_errors.ErrNotFound) {
			return voice.ScreenShareSession{}, voicehub_errors.ErrNotInVoice
		}
		return voice.ScreenShareSession{}, err
	}

	if _, err := s.sessions.UpdateFields(ctx, userID, map[string]interface{}{"self_stream": true}); err != nil {
		return voice.ScreenShareSession{}, err
	}

	startedAt := time.Now()
	share := voice.ScreenShare{
		Quality:      opts.Quality,
		ShareType:    opts.ShareType,
		AudioEnabled: opts.AudioEnabled,
		StartedAt:    startedAt,
	}
	if err := s.presence.SetScreenShare(ctx, sess.ChannelID, userID, share); err != nil {
		s.log.Warn(ctx, "screen share metadata write failed", zap.String("user_id", userID.String()), zap.Error(err))
	}

	return voice.ScreenShareSession{
		UserID:       userID,
		ChannelID:    sess.ChannelID,
		Quality:      opts.Quality,
		ShareType:    opts.ShareType,
		AudioEnabled: opts.AudioEnabled,
		ViewerCount:  0,
		StartedAt:    startedAt,
	}, nil
}

func (s *VoiceService) StopScreenShare(ctx context.Context, userID uuid.UUID) error {
	sess, err := s.sessions.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, voicehub_errors.ErrNotFound) {
			return voicehub_errors.ErrNotInVoice
		}
		return err
	}

	if _, err := s.sessions.UpdateFields(ctx, userID, map[string]interface{}{"self_stream": false}); err != nil {
		return err
	}
	if err := s.presence.ClearScreenShare(ctx, sess.ChannelID, userID); err != nil {
		s.log.Warn(ctx, "screen share metadata clear failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
	return nil
}
