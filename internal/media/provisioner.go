package media

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
	"go.uber.org/zap"

	"voicehub/pkg/logger"
)

// RoomAPI is the slice of the SFU control API the provisioner uses.
// *lksdk.RoomServiceClient satisfies it.
type RoomAPI interface {
	CreateRoom(ctx context.Context, req *livekit.CreateRoomRequest) (*livekit.Room, error)
	DeleteRoom(ctx context.Context, req *livekit.DeleteRoomRequest) (*livekit.DeleteRoomResponse, error)
}

// RoomState is the fast-store view the provisioner needs: channel occupancy
// and the provisioned-room marker. *redis.VoicePresenceStore satisfies it.
type RoomState interface {
	MemberCount(ctx context.Context, channelID uuid.UUID) (int64, error)
	MarkRoom(ctx context.Context, channelID uuid.UUID) error
	RoomMarked(ctx context.Context, channelID uuid.UUID) (bool, error)
	ClearRoom(ctx context.Context, channelID uuid.UUID) error
}

// Provisioner creates and deletes the external media room for a channel,
// driven purely by occupancy. Both operations are idempotent toward the
// provider: "already exists" and "not found" are treated as success.
type Provisioner struct {
	rooms           RoomAPI
	state           RoomState
	log             *logger.Logger
	emptyTimeout    time.Duration
	maxParticipants uint32
}

func NewProvisioner(rooms RoomAPI, state RoomState, log *logger.Logger, emptyTimeout time.Duration, maxParticipants uint32) *Provisioner {
	if emptyTimeout == 0 {
		emptyTimeout = 5 * time.Minute
	}
	if maxParticipants == 0 {
		maxParticipants = 50
	}
	return &Provisioner{
		rooms:           rooms,
		state:           state,
		log:             log,
		emptyTimeout:    emptyTimeout,
		maxParticipants: maxParticipants,
	}
}

// NewRoomServiceClient builds the concrete SFU client for production wiring.
func NewRoomServiceClient(url, apiKey, apiSecret string) *lksdk.RoomServiceClient {
	return lksdk.NewRoomServiceClient(url, apiKey, apiSecret)
}

// EnsureRoom makes sure the channel's room exists and returns its name.
// Failures are logged and swallowed: the join proceeds optimistically since
// the provider may still accept connections. The empty-timeout handed to the
// provider is a crash-safety net independent of our own teardown.
func (p *Provisioner) EnsureRoom(ctx context.Context, channelID uuid.UUID) string {
	name := RoomName(channelID)

	marked, err := p.state.RoomMarked(ctx, channelID)
	if err != nil {
		p.log.Warn(ctx, "room marker read failed", zap.String("channel_id", channelID.String()), zap.Error(err))
	} else if marked {
		return name
	}

	_, err = p.rooms.CreateRoom(ctx, &livekit.CreateRoomRequest{
		Name:            name,
		EmptyTimeout:    uint32(p.emptyTimeout.Seconds()),
		MaxParticipants: p.maxParticipants,
	})
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		p.log.Warn(ctx, "media room creation failed, joining optimistically",
			zap.String("channel_id", channelID.String()), zap.Error(err))
	}

	if err := p.state.MarkRoom(ctx, channelID); err != nil {
		p.log.Warn(ctx, "room marker write failed", zap.String("channel_id", channelID.String()), zap.Error(err))
	}
	return name
}

// TeardownIfEmpty deletes the channel's room when nobody is left in it.
// Safe to call redundantly and concurrently; the worst case is a duplicate
// delete attempt the provider answers with "not found".
func (p *Provisioner) TeardownIfEmpty(ctx context.Context, channelID uuid.UUID) error {
	count, err := p.state.MemberCount(ctx, channelID)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err = p.rooms.DeleteRoom(ctx, &livekit.DeleteRoomRequest{Room: RoomName(channelID)})
	if err != nil && !strings.Contains(err.Error(), "not found") {
		p.log.Warn(ctx, "media room delete failed", zap.String("channel_id", channelID.String()), zap.Error(err))
	}

	return p.state.ClearRoom(ctx, channelID)
}
