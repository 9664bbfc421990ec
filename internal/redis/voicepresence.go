package redis

import (
	"context"
	"fmt"
	"time"

	"voicehub/internal/domain/voice"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Redis key shapes for voice presence
const (
	channelMembersKeyPrefix = "voice:channel:"           // Set of user IDs in a channel
	userSessionKeyPrefix    = "voice:user:"              // Hash: channel_id, guild_id, session_id (TTL)
	guildChannelsKeyFormat  = "voice:guild:%s:channels"  // Set of channels with active voice
	screenShareKeyFormat    = "voice:screenshare:%s:%s"  // Hash per (channel, user) (TTL)
	roomMarkerKeyPrefix     = "voice:room:"              // Marker: media room provisioned
)

// VoicePresenceStore is the fast ephemeral mirror of the Session Directory.
// The user session hash carries a TTL so that a crash mid-join leaves an
// entry that expires on its own instead of wedging occupancy counts.
type VoicePresenceStore struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewVoicePresenceStore(client *goredis.Client, ttl time.Duration) *VoicePresenceStore {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &VoicePresenceStore{client: client, ttl: ttl}
}

func (p *VoicePresenceStore) AddMember(ctx context.Context, channelID, userID uuid.UUID) error {
	return p.client.SAdd(ctx, channelMembersKeyPrefix+channelID.String(), userID.String()).Err()
}

func (p *VoicePresenceStore) RemoveMember(ctx context.Context, channelID, userID uuid.UUID) error {
	return p.client.SRem(ctx, channelMembersKeyPrefix+channelID.String(), userID.String()).Err()
}

func (p *VoicePresenceStore) MemberCount(ctx context.Context, channelID uuid.UUID) (int64, error) {
	return p.client.SCard(ctx, channelMembersKeyPrefix+channelID.String()).Result()
}

// SetUserSession writes the user's "where am I" hash and refreshes its TTL.
func (p *VoicePresenceStore) SetUserSession(ctx context.Context, userID uuid.UUID, entry voice.PresenceEntry) error {
	key := userSessionKeyPrefix + userID.String()
	guildID := ""
	if entry.GuildID != nil {
		guildID = entry.GuildID.String()
	}

	pipe := p.client.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"channel_id": entry.ChannelID.String(),
		"guild_id":   guildID,
		"session_id": entry.SessionID,
	})
	pipe.Expire(ctx, key, p.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// GetUserSession returns nil when the user has no live entry (never joined,
// left, or the TTL backstop already reaped it).
func (p *VoicePresenceStore) GetUserSession(ctx context.Context, userID uuid.UUID) (*voice.PresenceEntry, error) {
	data, err := p.client.HGetAll(ctx, userSessionKeyPrefix+userID.String()).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || data["channel_id"] == "" {
		return nil, nil
	}

	channelID, err := uuid.Parse(data["channel_id"])
	if err != nil {
		return nil, err
	}
	entry := &voice.PresenceEntry{
		ChannelID: channelID,
		SessionID: data["session_id"],
	}
	if data["guild_id"] != "" {
		guildID, err := uuid.Parse(data["guild_id"])
		if err != nil {
			return nil, err
		}
		entry.GuildID = &guildID
	}
	return entry, nil
}

func (p *VoicePresenceStore) ClearUserSession(ctx context.Context, userID uuid.UUID) error {
	return p.client.Del(ctx, userSessionKeyPrefix+userID.String()).Err()
}

func (p *VoicePresenceStore) AddGuildChannel(ctx context.Context, guildID, channelID uuid.UUID) error {
	key := fmt.Sprintf(guildChannelsKeyFormat, guildID)
	return p.client.SAdd(ctx, key, channelID.String()).Err()
}

func (p *VoicePresenceStore) RemoveGuildChannel(ctx context.Context, guildID, channelID uuid.UUID) error {
	key := fmt.Sprintf(guildChannelsKeyFormat, guildID)
	return p.client.SRem(ctx, key, channelID.String()).Err()
}

func (p *VoicePresenceStore) SetScreenShare(ctx context.Context, channelID, userID uuid.UUID, share voice.ScreenShare) error {
	key := fmt.Sprintf(screenShareKeyFormat, channelID, userID)

	pipe := p.client.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"quality":       share.Quality,
		"share_type":    share.ShareType,
		"audio_enabled": share.AudioEnabled,
		"started_at":    share.StartedAt.UTC().Format(time.RFC3339),
	})
	pipe.Expire(ctx, key, p.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (p *VoicePresenceStore) ClearScreenShare(ctx context.Context, channelID, userID uuid.UUID) error {
	key := fmt.Sprintf(screenShareKeyFormat, channelID, userID)
	return p.client.Del(ctx, key).Err()
}

// MarkRoom records that the media room for a channel has been provisioned.
// The marker is only an optimization; losing it means one redundant create.
func (p *VoicePresenceStore) MarkRoom(ctx context.Context, channelID uuid.UUID) error {
	return p.client.Set(ctx, roomMarkerKeyPrefix+channelID.String(), channelID.String(), 0).Err()
}

func (p *VoicePresenceStore) RoomMarked(ctx context.Context, channelID uuid.UUID) (bool, error) {
	n, err := p.client.Exists(ctx, roomMarkerKeyPrefix+channelID.String()).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (p *VoicePresenceStore) ClearRoom(ctx context.Context, channelID uuid.UUID) error {
	return p.client.Del(ctx, roomMarkerKeyPrefix+channelID.String()).Err()
}
