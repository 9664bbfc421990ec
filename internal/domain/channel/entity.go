package channel

import (
	"time"

	"github.com/google/uuid"
)

// Channel types that matter to the voice subsystem. Channel CRUD itself is
// owned by the guild service; this table is only read here.
const (
	TypeGuildVoice      = "GUILD_VOICE"
	TypeGuildStageVoice = "GUILD_STAGE_VOICE"
	TypeDM              = "DM"
	TypeGroupDM         = "GROUP_DM"
)

// Channel represents the channels table.
type Channel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	GuildID   *uuid.UUID `gorm:"type:uuid;index" json:"guildId"`
	Type      string     `gorm:"not null" json:"type"`
	Name      *string    `gorm:"size:100" json:"name"`
	CreatedAt time.Time  `gorm:"not null;default:now()" json:"createdAt"`
}

func (Channel) TableName() string {
	return "channels"
}

func (c Channel) IsStage() bool {
	return c.Type == TypeGuildStageVoice
}
