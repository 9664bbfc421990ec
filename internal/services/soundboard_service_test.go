package services

import (
	"context"
	"sync"
	"testing"

	"voicehub/internal/domain/voice"
	voicehub_errors "voicehub/pkg/errors"
	"voicehub/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSoundboardRepo struct {
	mu     sync.Mutex
	sounds map[uuid.UUID]voice.SoundboardSound
}

func newFakeSoundboardRepo() *fakeSoundboardRepo {
	return &fakeSoundboardRepo{sounds: map[uuid.UUID]voice.SoundboardSound{}}
}

func (r *fakeSoundboardRepo) Create(ctx context.Context, snd *voice.SoundboardSound) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sounds[snd.ID] = *snd
	return nil
}

func (r *fakeSoundboardRepo) GetByID(ctx context.Context, id uuid.UUID) (voice.SoundboardSound, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snd, ok := r.sounds[id]
	if !ok {
		return voice.SoundboardSound{}, voicehub_errors.ErrNotFound
	}
	return snd, nil
}

func (r *fakeSoundboardRepo) ListAvailable(ctx context.Context, guildID uuid.UUID) ([]voice.SoundboardSound, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []voice.SoundboardSound
	for _, snd := range r.sounds {
		if snd.GuildID == guildID && snd.Available {
			out = append(out, snd)
		}
	}
	return out, nil
}

func (r *fakeSoundboardRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (voice.SoundboardSound, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snd, ok := r.sounds[id]
	if !ok {
		return voice.SoundboardSound{}, voicehub_errors.ErrNotFound
	}
	for col, val := range fields {
		switch col {
		case "name":
			snd.Name = val.(string)
		case "volume":
			snd.Volume = val.(float64)
		case "emoji_name":
			name := val.(string)
			snd.EmojiName = &name
		case "available":
			snd.Available = val.(bool)
		}
	}
	r.sounds[id] = snd
	return snd, nil
}

func (r *fakeSoundboardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sounds[id]; !ok {
		return voicehub_errors.ErrNotFound
	}
	delete(r.sounds, id)
	return nil
}

type soundboardFixture struct {
	service  *SoundboardService
	sounds   *fakeSoundboardRepo
	sessions *fakeSessionRepo
}

func newSoundboardFixture() *soundboardFixture {
	sounds := newFakeSoundboardRepo()
	sessions := newFakeSessionRepo()
	return &soundboardFixture{
		service:  NewSoundboardService(sounds, sessions, logger.NewNop()),
		sounds:   sounds,
		sessions: sessions,
	}
}

func (f *soundboardFixture) seedSession(userID, guildID uuid.UUID) uuid.UUID {
	channelID := uuid.New()
	f.sessions.sessions[userID] = voice.Session{
		UserID:    userID,
		ChannelID: channelID,
		GuildID:   &guildID,
		SessionID: "sess-1",
	}
	return channelID
}

func (f *soundboardFixture) seedSound(guildID uuid.UUID) voice.SoundboardSound {
	snd, err := f.service.CreateSound(context.Background(), CreateSoundInput{
		GuildID:    guildID,
		Name:       "airhorn",
		SoundHash:  "a1b2c3",
		Volume:     0.8,
		UploaderID: uuid.New(),
	})
	if err != nil {
		panic(err)
	}
	return snd
}

func TestCreateSoundDefaultsVolume(t *testing.T) {
	f := newSoundboardFixture()
	snd, err := f.service.CreateSound(context.Background(), CreateSoundInput{
		GuildID:    uuid.New(),
		Name:       "airhorn",
		SoundHash:  "a1b2c3",
		UploaderID: uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, snd.Volume)
	assert.True(t, snd.Available)
}

func TestCreateSoundValidatesInput(t *testing.T) {
	f := newSoundboardFixture()

	_, err := f.service.CreateSound(context.Background(), CreateSoundInput{
		GuildID: uuid.New(), Name: "", SoundHash: "a1b2c3",
	})
	assert.ErrorIs(t, err, voicehub_errors.ErrInvalidInput)

	_, err = f.service.CreateSound(context.Background(), CreateSoundInput{
		GuildID: uuid.New(), Name: "airhorn", SoundHash: "a1b2c3", Volume: 1.5,
	})
	assert.ErrorIs(t, err, voicehub_errors.ErrInvalidInput)
}

func TestListSoundsSkipsUnavailable(t *testing.T) {
	f := newSoundboardFixture()
	guildID := uuid.New()
	kept := f.seedSound(guildID)
	hidden := f.seedSound(guildID)

	_, err := f.sounds.UpdateFields(context.Background(), hidden.ID, map[string]interface{}{"available": false})
	require.NoError(t, err)

	items, err := f.service.ListSounds(context.Background(), guildID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, kept.ID, items[0].ID)
}

func TestUpdateSoundCrossGuildFails(t *testing.T) {
	f := newSoundboardFixture()
	snd := f.seedSound(uuid.New())

	name := "renamed"
	_, err := f.service.UpdateSound(context.Background(), uuid.New(), snd.ID, UpdateSoundInput{Name: &name})
	assert.ErrorIs(t, err, voicehub_errors.ErrNotFound)
}

func TestDeleteSoundCrossGuildFails(t *testing.T) {
	f := newSoundboardFixture()
	snd := f.seedSound(uuid.New())
	assert.ErrorIs(t, f.service.DeleteSound(context.Background(), uuid.New(), snd.ID), voicehub_errors.ErrNotFound)
}

func TestPlayBuildsInstruction(t *testing.T) {
	f := newSoundboardFixture()
	guildID := uuid.New()
	userID := uuid.New()
	channelID := f.seedSession(userID, guildID)
	snd := f.seedSound(guildID)

	instr, err := f.service.Play(context.Background(), guildID, snd.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, channelID, instr.ChannelID)
	assert.Equal(t, snd.ID, instr.SoundID)
	assert.Equal(t, userID, instr.UserID)
	assert.Equal(t, 0.8, instr.Volume)
}

func TestPlayWithoutVoiceSessionFails(t *testing.T) {
	f := newSoundboardFixture()
	guildID := uuid.New()
	snd := f.seedSound(guildID)

	_, err := f.service.Play(context.Background(), guildID, snd.ID, uuid.New())
	assert.ErrorIs(t, err, voicehub_errors.ErrNotInVoice)
}

func TestPlayFromOtherGuildSessionFails(t *testing.T) {
	f := newSoundboardFixture()
	guildID := uuid.New()
	userID := uuid.New()
	f.seedSession(userID, uuid.New())
	snd := f.seedSound(guildID)

	_, err := f.service.Play(context.Background(), guildID, snd.ID, userID)
	assert.ErrorIs(t, err, voicehub_errors.ErrNotInVoice)
}

func TestPlayUnavailableSoundFails(t *testing.T) {
	f := newSoundboardFixture()
	guildID := uuid.New()
	userID := uuid.New()
	f.seedSession(userID, guildID)
	snd := f.seedSound(guildID)

	_, err := f.sounds.UpdateFields(context.Background(), snd.ID, map[string]interface{}{"available": false})
	require.NoError(t, err)

	_, err = f.service.Play(context.Background(), guildID, snd.ID, userID)
	assert.ErrorIs(t, err, voicehub_errors.ErrNotFound)
}
