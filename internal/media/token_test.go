package media

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeClaims(t *testing.T, token string) map[string]interface{} {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	claims := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(payload, &claims))
	return claims
}

func TestRoomNameIsDeterministic(t *testing.T) {
	channelID := uuid.New()
	assert.Equal(t, RoomName(channelID), RoomName(channelID))
	assert.Equal(t, "voice_"+channelID.String(), RoomName(channelID))
}

func TestMintScopesTokenToChannelRoom(t *testing.T) {
	issuer := NewTokenIssuer("key", "secretsecretsecretsecretsecretse", time.Hour)
	userID := uuid.New()
	guildID := uuid.New()
	channelID := uuid.New()

	token, err := issuer.Mint(userID, "ayla", channelID, &guildID)
	require.NoError(t, err)

	claims := decodeClaims(t, token)
	assert.Equal(t, userID.String(), claims["sub"])
	assert.Equal(t, "ayla", claims["name"])

	video, ok := claims["video"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, RoomName(channelID), video["room"])
	assert.Equal(t, true, video["roomJoin"])
	assert.Equal(t, true, video["canPublish"])
	assert.Equal(t, true, video["canSubscribe"])
	assert.Equal(t, true, video["canPublishData"])

	metadata, ok := claims["metadata"].(string)
	require.True(t, ok)
	assert.Contains(t, metadata, guildID.String())
}

func TestMintWithoutGuildCarriesNullMetadata(t *testing.T) {
	issuer := NewTokenIssuer("key", "secretsecretsecretsecretsecretse", time.Hour)

	token, err := issuer.Mint(uuid.New(), "ayla", uuid.New(), nil)
	require.NoError(t, err)

	claims := decodeClaims(t, token)
	assert.Equal(t, `{"guildId":null}`, claims["metadata"])
}
