package httpdto

import (
	"encoding/json"

	"github.com/google/uuid"
)

type JoinVoiceRequest struct {
	ChannelID uuid.UUID `json:"channelId" binding:"required"`
	SessionID string    `json:"sessionId"`
	SelfMute  bool      `json:"selfMute"`
	SelfDeaf  bool      `json:"selfDeaf"`
}

type JoinVoiceResponse struct {
	Token    string `json:"token"`
	Endpoint string `json:"endpoint"`
	Room     string `json:"room"`
	State    any    `json:"state"`
}

type UpdateVoiceStateRequest struct {
	SelfMute   *bool `json:"selfMute"`
	SelfDeaf   *bool `json:"selfDeaf"`
	SelfVideo  *bool `json:"selfVideo"`
	SelfStream *bool `json:"selfStream"`
}

// ModerateMemberRequest distinguishes an absent channelId from an explicit
// null: absent leaves the channel untouched, null disconnects, a UUID moves
// the member. RawMessage keeps that distinction through decoding.
type ModerateMemberRequest struct {
	Mute      *bool           `json:"mute"`
	Deaf      *bool           `json:"deaf"`
	Suppress  *bool           `json:"suppress"`
	ChannelID json.RawMessage `json:"channelId"`
}

// ChannelAction decodes the channelId field into one of three outcomes:
// no-op, disconnect, or move target.
func (r ModerateMemberRequest) ChannelAction() (disconnect bool, moveTo *uuid.UUID, err error) {
	if len(r.ChannelID) == 0 {
		return false, nil, nil
	}
	if string(r.ChannelID) == "null" {
		return true, nil, nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(r.ChannelID, &id); err != nil {
		return false, nil, err
	}
	return false, &id, nil
}

type StartScreenShareRequest struct {
	Quality      string `json:"quality"`
	ShareType    string `json:"shareType"`
	AudioEnabled bool   `json:"audioEnabled"`
}

type CreateStageRequest struct {
	ChannelID    uuid.UUID `json:"channelId" binding:"required"`
	Topic        string    `json:"topic" binding:"required"`
	PrivacyLevel string    `json:"privacyLevel"`
}

type UpdateStageRequest struct {
	Topic        *string `json:"topic"`
	PrivacyLevel *string `json:"privacyLevel"`
}

type CreateSoundRequest struct {
	Name      string  `json:"name" binding:"required"`
	SoundHash string  `json:"soundHash" binding:"required"`
	Volume    float64 `json:"volume"`
	EmojiName *string `json:"emojiName"`
}

type UpdateSoundRequest struct {
	Name      *string  `json:"name"`
	Volume    *float64 `json:"volume"`
	EmojiName *string  `json:"emojiName"`
}
