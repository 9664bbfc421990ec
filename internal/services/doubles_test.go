package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"voicehub/internal/domain/voice"
	voicehub_errors "voicehub/pkg/errors"

	"github.com/google/uuid"
)

// fakeSessionRepo is an in-memory stand-in for the Postgres session
// directory. It applies partial updates by column name the way the real
// repository does.
type fakeSessionRepo struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]voice.Session
	upsertErr error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[uuid.UUID]voice.Session{}}
}

func (r *fakeSessionRepo) Upsert(ctx context.Context, s *voice.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	if existing, ok := r.sessions[s.UserID]; ok {
		// Join-time fields overwrite; moderator flags and the pending
		// speak request survive.
		s.Deaf = existing.Deaf
		s.Mute = existing.Mute
		s.RequestToSpeakAt = existing.RequestToSpeakAt
	}
	r.sessions[s.UserID] = *s
	return nil
}

func (r *fakeSessionRepo) GetByUser(ctx context.Context, userID uuid.UUID) (voice.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	if !ok {
		return voice.Session{}, voicehub_errors.ErrNotFound
	}
	return s, nil
}

func (r *fakeSessionRepo) GetByChannel(ctx context.Context, channelID uuid.UUID) ([]voice.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []voice.Session
	for _, s := range r.sessions {
		if s.ChannelID == channelID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) GetByGuild(ctx context.Context, guildID uuid.UUID) ([]voice.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []voice.Session
	for _, s := range r.sessions {
		if s.GuildID != nil && *s.GuildID == guildID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) UpdateFields(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) (voice.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	if !ok {
		return voice.Session{}, voicehub_errors.ErrNotFound
	}
	for col, val := range fields {
		switch col {
		case "mute":
			s.Mute = val.(bool)
		case "deaf":
			s.Deaf = val.(bool)
		case "self_mute":
			s.SelfMute = val.(bool)
		case "self_deaf":
			s.SelfDeaf = val.(bool)
		case "self_video":
			s.SelfVideo = val.(bool)
		case "self_stream":
			s.SelfStream = val.(bool)
		case "suppress":
			s.Suppress = val.(bool)
		case "channel_id":
			s.ChannelID = val.(uuid.UUID)
		case "request_to_speak_timestamp":
			if val == nil {
				s.RequestToSpeakAt = nil
			} else {
				t := val.(time.Time)
				s.RequestToSpeakAt = &t
			}
		}
	}
	r.sessions[userID] = s
	return s, nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
	return nil
}

// fakePresence mirrors the Redis store in maps. Expire simulates the TTL
// backstop reaping a user's entry.
type fakePresence struct {
	mu       sync.Mutex
	members  map[uuid.UUID]map[uuid.UUID]struct{}
	entries  map[uuid.UUID]voice.PresenceEntry
	guilds   map[uuid.UUID]map[uuid.UUID]struct{}
	shares   map[string]voice.ScreenShare
	readErr  error
	writeErr error
}

func newFakePresence() *fakePresence {
	return &fakePresence{
		members: map[uuid.UUID]map[uuid.UUID]struct{}{},
		entries: map[uuid.UUID]voice.PresenceEntry{},
		guilds:  map[uuid.UUID]map[uuid.UUID]struct{}{},
		shares:  map[string]voice.ScreenShare{},
	}
}

func (p *fakePresence) Expire(userID uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, userID)
}

func (p *fakePresence) AddMember(ctx context.Context, channelID, userID uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return p.writeErr
	}
	if p.members[channelID] == nil {
		p.members[channelID] = map[uuid.UUID]struct{}{}
	}
	p.members[channelID][userID] = struct{}{}
	return nil
}

func (p *fakePresence) RemoveMember(ctx context.Context, channelID, userID uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return p.writeErr
	}
	delete(p.members[channelID], userID)
	return nil
}

func (p *fakePresence) MemberCount(ctx context.Context, channelID uuid.UUID) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int64(len(p.members[channelID])), nil
}

func (p *fakePresence) SetUserSession(ctx context.Context, userID uuid.UUID, entry voice.PresenceEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return p.writeErr
	}
	p.entries[userID] = entry
	return nil
}

func (p *fakePresence) GetUserSession(ctx context.Context, userID uuid.UUID) (*voice.PresenceEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.readErr != nil {
		return nil, p.readErr
	}
	entry, ok := p.entries[userID]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (p *fakePresence) ClearUserSession(ctx context.Context, userID uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, userID)
	return nil
}

func (p *fakePresence) AddGuildChannel(ctx context.Context, guildID, channelID uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.guilds[guildID] == nil {
		p.guilds[guildID] = map[uuid.UUID]struct{}{}
	}
	p.guilds[guildID][channelID] = struct{}{}
	return nil
}

func (p *fakePresence) RemoveGuildChannel(ctx context.Context, guildID, channelID uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.guilds[guildID], channelID)
	return nil
}

func (p *fakePresence) SetScreenShare(ctx context.Context, channelID, userID uuid.UUID, share voice.ScreenShare) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shares[channelID.String()+":"+userID.String()] = share
	return nil
}

func (p *fakePresence) ClearScreenShare(ctx context.Context, channelID, userID uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.shares, channelID.String()+":"+userID.String())
	return nil
}

// fakeProvisioner records room lifecycle calls.
type fakeProvisioner struct {
	mu       sync.Mutex
	ensured  []uuid.UUID
	tornDown []uuid.UUID
}

func (f *fakeProvisioner) EnsureRoom(ctx context.Context, channelID uuid.UUID) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensured = append(f.ensured, channelID)
	return "voice_" + channelID.String()
}

func (f *fakeProvisioner) TeardownIfEmpty(ctx context.Context, channelID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tornDown = append(f.tornDown, channelID)
	return nil
}

// fakeMinter returns a canned token, or fails when told to.
type fakeMinter struct {
	fail bool
}

func (f *fakeMinter) Mint(userID uuid.UUID, username string, channelID uuid.UUID, guildID *uuid.UUID) (string, error) {
	if f.fail {
		return "", errors.New("signing key rejected")
	}
	return "token-" + channelID.String(), nil
}

// fakeDirectory resolves channel kinds from a fixed map.
type fakeDirectory struct {
	kinds map[uuid.UUID]voice.ChannelKind
}

func (d *fakeDirectory) GetChannelKind(ctx context.Context, channelID uuid.UUID) (voice.ChannelKind, error) {
	kind, ok := d.kinds[channelID]
	if !ok {
		return voice.ChannelKind{}, voicehub_errors.ErrNotFound
	}
	return kind, nil
}
