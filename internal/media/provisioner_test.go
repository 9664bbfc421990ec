package media

import (
	"context"
	"errors"
	"sync"
	"testing"

	"voicehub/pkg/logger"

	"github.com/google/uuid"
	"github.com/livekit/protocol/livekit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRoomAPI struct {
	mu        sync.Mutex
	created   []*livekit.CreateRoomRequest
	deleted   []string
	createErr error
	deleteErr error
}

func (f *fakeRoomAPI) CreateRoom(ctx context.Context, req *livekit.CreateRoomRequest) (*livekit.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, req)
	return &livekit.Room{Name: req.Name}, nil
}

func (f *fakeRoomAPI) DeleteRoom(ctx context.Context, req *livekit.DeleteRoomRequest) (*livekit.DeleteRoomResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, req.Room)
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &livekit.DeleteRoomResponse{}, nil
}

type fakeRoomState struct {
	mu      sync.Mutex
	count   int64
	markers map[uuid.UUID]bool
}

func newFakeRoomState() *fakeRoomState {
	return &fakeRoomState{markers: map[uuid.UUID]bool{}}
}

func (f *fakeRoomState) MemberCount(ctx context.Context, channelID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count, nil
}

func (f *fakeRoomState) MarkRoom(ctx context.Context, channelID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markers[channelID] = true
	return nil
}

func (f *fakeRoomState) RoomMarked(ctx context.Context, channelID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.markers[channelID], nil
}

func (f *fakeRoomState) ClearRoom(ctx context.Context, channelID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.markers, channelID)
	return nil
}

func TestEnsureRoomCreatesOnce(t *testing.T) {
	api := &fakeRoomAPI{}
	state := newFakeRoomState()
	p := NewProvisioner(api, state, logger.NewNop(), 0, 0)
	channelID := uuid.New()

	name := p.EnsureRoom(context.Background(), channelID)
	assert.Equal(t, RoomName(channelID), name)
	require.Len(t, api.created, 1)
	assert.EqualValues(t, 300, api.created[0].EmptyTimeout)
	assert.EqualValues(t, 50, api.created[0].MaxParticipants)

	// Marker short-circuits the second call.
	p.EnsureRoom(context.Background(), channelID)
	assert.Len(t, api.created, 1)
}

func TestEnsureRoomSwallowsProviderFailure(t *testing.T) {
	api := &fakeRoomAPI{createErr: errors.New("upstream down")}
	state := newFakeRoomState()
	p := NewProvisioner(api, state, logger.NewNop(), 0, 0)
	channelID := uuid.New()

	name := p.EnsureRoom(context.Background(), channelID)
	assert.Equal(t, RoomName(channelID), name)
}

func TestTeardownSkipsOccupiedRoom(t *testing.T) {
	api := &fakeRoomAPI{}
	state := newFakeRoomState()
	state.count = 2
	p := NewProvisioner(api, state, logger.NewNop(), 0, 0)

	require.NoError(t, p.TeardownIfEmpty(context.Background(), uuid.New()))
	assert.Empty(t, api.deleted)
}

func TestTeardownDeletesEmptyRoomAndClearsMarker(t *testing.T) {
	api := &fakeRoomAPI{}
	state := newFakeRoomState()
	p := NewProvisioner(api, state, logger.NewNop(), 0, 0)
	channelID := uuid.New()

	p.EnsureRoom(context.Background(), channelID)
	require.NoError(t, p.TeardownIfEmpty(context.Background(), channelID))
	assert.Equal(t, []string{RoomName(channelID)}, api.deleted)

	marked, err := state.RoomMarked(context.Background(), channelID)
	require.NoError(t, err)
	assert.False(t, marked)
}

func TestTeardownToleratesMissingRoom(t *testing.T) {
	api := &fakeRoomAPI{deleteErr: errors.New("room not found")}
	state := newFakeRoomState()
	p := NewProvisioner(api, state, logger.NewNop(), 0, 0)
	channelID := uuid.New()

	require.NoError(t, p.TeardownIfEmpty(context.Background(), channelID))

	// Calling again is a no-op beyond one more delete attempt.
	require.NoError(t, p.TeardownIfEmpty(context.Background(), channelID))
	assert.Len(t, api.deleted, 2)
}
