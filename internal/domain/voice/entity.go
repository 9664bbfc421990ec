package voice

import (
	"time"

	"github.com/google/uuid"
)

// Session represents the voice_states table. userID is the primary key
// because a user can be in at most one voice channel at a time: joining a
// new channel upserts the row, leaving deletes it.
type Session struct {
	UserID    uuid.UUID  `gorm:"type:uuid;primaryKey" json:"userId"`
	ChannelID uuid.UUID  `gorm:"type:uuid;not null;index" json:"channelId"`
	GuildID   *uuid.UUID `gorm:"type:uuid;index" json:"guildId"`
	SessionID string     `gorm:"not null" json:"sessionId"`
	// Deaf and Mute are applied by moderators; SelfDeaf and SelfMute by the
	// user. Deafening implies muting on both axes.
	Deaf             bool       `gorm:"not null;default:false" json:"deaf"`
	Mute             bool       `gorm:"not null;default:false" json:"mute"`
	SelfDeaf         bool       `gorm:"not null;default:false" json:"selfDeaf"`
	SelfMute         bool       `gorm:"not null;default:false" json:"selfMute"`
	SelfStream       bool       `gorm:"not null;default:false" json:"selfStream"`
	SelfVideo        bool       `gorm:"not null;default:false" json:"selfVideo"`
	Suppress         bool       `gorm:"not null;default:false" json:"suppress"`
	RequestToSpeakAt *time.Time `gorm:"column:request_to_speak_timestamp" json:"requestToSpeakTimestamp"`
	JoinedAt         time.Time  `gorm:"not null;default:now()" json:"joinedAt"`
}

func (Session) TableName() string {
	return "voice_states"
}

// StateProjection is the public view of a session handed back to the caller
// for the fanout gateway to broadcast. A nil ChannelID marks a disconnect.
type StateProjection struct {
	UserID           uuid.UUID  `json:"userId"`
	ChannelID        *uuid.UUID `json:"channelId"`
	GuildID          *uuid.UUID `json:"guildId"`
	SessionID        string     `json:"sessionId"`
	Deaf             bool       `json:"deaf"`
	Mute             bool       `json:"mute"`
	SelfDeaf         bool       `json:"selfDeaf"`
	SelfMute         bool       `json:"selfMute"`
	SelfStream       bool       `json:"selfStream"`
	SelfVideo        bool       `json:"selfVideo"`
	Suppress         bool       `json:"suppress"`
	RequestToSpeakAt *time.Time `json:"requestToSpeakTimestamp"`
}

// Projection returns the broadcast view of the session row.
func (s Session) Projection() StateProjection {
	channelID := s.ChannelID
	return StateProjection{
		UserID:           s.UserID,
		ChannelID:        &channelID,
		GuildID:          s.GuildID,
		SessionID:        s.SessionID,
		Deaf:             s.Deaf,
		Mute:             s.Mute,
		SelfDeaf:         s.SelfDeaf,
		SelfMute:         s.SelfMute,
		SelfStream:       s.SelfStream,
		SelfVideo:        s.SelfVideo,
		Suppress:         s.Suppress,
		RequestToSpeakAt: s.RequestToSpeakAt,
	}
}

// DisconnectedProjection is the projection broadcast after a user leaves or
// is force-disconnected. ChannelID is nil and every flag is reset.
func DisconnectedProjection(userID uuid.UUID, guildID *uuid.UUID) StateProjection {
	return StateProjection{
		UserID:  userID,
		GuildID: guildID,
	}
}

// PresenceEntry mirrors the durable session in the fast store: where is this
// user right now. It expires on its own if a join never completes.
type PresenceEntry struct {
	ChannelID uuid.UUID
	GuildID   *uuid.UUID
	SessionID string
}

// ScreenShare is the per-(channel,user) screen share metadata kept in the
// fast store with its own expiry.
type ScreenShare struct {
	Quality      string
	ShareType    string
	AudioEnabled bool
	StartedAt    time.Time
}

// ScreenShareSession is returned to the boundary when a share starts.
type ScreenShareSession struct {
	UserID       uuid.UUID `json:"userId"`
	ChannelID    uuid.UUID `json:"channelId"`
	Quality      string    `json:"quality"`
	ShareType    string    `json:"shareType"`
	AudioEnabled bool      `json:"audioEnabled"`
	ViewerCount  int       `json:"viewerCount"`
	StartedAt    time.Time `json:"startedAt"`
}

// ChannelKind is what the channel directory reports about a channel at join
// time. Stage channels seed new sessions with suppress=true.
type ChannelKind struct {
	GuildID *uuid.UUID
	IsStage bool
}

// Stage privacy levels.
const (
	StagePrivacyPublic    = "public"
	StagePrivacyGuildOnly = "guild_only"
)

// StageInstance represents the stage_instances table. At most one active
// instance exists per channel; its lifecycle is independent of who is
// connected.
type StageInstance struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GuildID      uuid.UUID `gorm:"type:uuid;not null;index" json:"guildId"`
	ChannelID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"channelId"`
	Topic        string    `gorm:"size:120;not null" json:"topic"`
	PrivacyLevel string    `gorm:"not null;default:'guild_only'" json:"privacyLevel"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"createdAt"`
}

func (StageInstance) TableName() string {
	return "stage_instances"
}

// SoundboardSound represents the soundboard_sounds table: a guild-scoped
// clip catalog row. Plays are broadcast instructions, never persisted.
type SoundboardSound struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GuildID    uuid.UUID `gorm:"type:uuid;not null;index" json:"guildId"`
	Name       string    `gorm:"size:32;not null" json:"name"`
	SoundHash  string    `gorm:"size:64;not null" json:"soundHash"`
	Volume     float64   `gorm:"type:real;not null;default:1" json:"volume"`
	EmojiName  *string   `gorm:"size:64" json:"emojiName"`
	UploaderID uuid.UUID `gorm:"type:uuid;not null" json:"uploaderId"`
	Available  bool      `gorm:"not null;default:true" json:"available"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"createdAt"`
}

func (SoundboardSound) TableName() string {
	return "soundboard_sounds"
}

// PlayInstruction tells the fanout gateway to broadcast a soundboard play to
// everyone in the channel. Nothing is queued or mixed here.
type PlayInstruction struct {
	GuildID   uuid.UUID `json:"guildId"`
	ChannelID uuid.UUID `json:"channelId"`
	SoundID   uuid.UUID `json:"soundId"`
	UserID    uuid.UUID `json:"userId"`
	Volume    float64   `json:"volume"`
}
