package media

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/livekit/protocol/auth"
)

// RoomName derives the media room name for a channel. The mapping is
// deterministic so every join for a channel lands in the same room.
func RoomName(channelID uuid.UUID) string {
	return "voice_" + channelID.String()
}

// TokenIssuer mints signed capabilities that let a client join a specific
// room. It holds no state beyond the signing key pair.
type TokenIssuer struct {
	apiKey    string
	apiSecret string
	ttl       time.Duration
}

func NewTokenIssuer(apiKey, apiSecret string, ttl time.Duration) *TokenIssuer {
	if ttl == 0 {
		ttl = 6 * time.Hour
	}
	return &TokenIssuer{apiKey: apiKey, apiSecret: apiSecret, ttl: ttl}
}

// Mint produces a join token scoped to the channel's room, granting
// publish, subscribe and data-publish. The guild ID rides along as opaque
// metadata for the SFU-side webhooks.
func (t *TokenIssuer) Mint(userID uuid.UUID, username string, channelID uuid.UUID, guildID *uuid.UUID) (string, error) {
	metadata, err := json.Marshal(struct {
		GuildID *uuid.UUID `json:"guildId"`
	}{GuildID: guildID})
	if err != nil {
		return "", err
	}

	canPublish := true
	canSubscribe := true
	canPublishData := true

	at := auth.NewAccessToken(t.apiKey, t.apiSecret)
	at.AddGrant(&auth.VideoGrant{
		RoomJoin:       true,
		Room:           RoomName(channelID),
		CanPublish:     &canPublish,
		CanSubscribe:   &canSubscribe,
		CanPublishData: &canPublishData,
	}).
		SetIdentity(userID.String()).
		SetName(username).
		SetMetadata(string(metadata)).
		SetValidFor(t.ttl)

	return at.ToJWT()
}
