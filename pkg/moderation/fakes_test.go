package moderation

import (
	"errors"
	"sync"
	"time"
)

// fakePlatform keeps guild roles and member role sets in memory
type fakePlatform struct {
	mu      sync.Mutex
	roles   map[string]string          // guildID -> muted role ID
	members map[string]map[string]bool // guildID_userID -> role IDs

	createdRoles int
	removeCalls  int
	kicked       []string
	banned       []string
	kickErr      error
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		roles:   make(map[string]string),
		members: make(map[string]map[string]bool),
	}
}

func (p *fakePlatform) addMember(guildID, userID string, roles ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	set := make(map[string]bool)
	for _, r := range roles {
		set[r] = true
	}
	p.members[guildID+"_"+userID] = set
}

func (p *fakePlatform) hasRole(guildID, userID, roleID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.members[guildID+"_"+userID][roleID]
}

func (p *fakePlatform) FindRole(guildID, _ string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id, ok := p.roles[guildID]; ok {
		return id, nil
	}
	return "", ErrRoleNotFound
}

func (p *fakePlatform) CreateMutedRole(guildID, _ string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.createdRoles++
	id := "role-" + guildID
	p.roles[guildID] = id
	return id, nil
}

func (p *fakePlatform) MemberRoles(guildID, userID string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	set, ok := p.members[guildID+"_"+userID]
	if !ok {
		return nil, ErrMemberNotFound
	}
	var out []string
	for r := range set {
		out = append(out, r)
	}
	return out, nil
}

func (p *fakePlatform) AddRole(guildID, userID, roleID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	set, ok := p.members[guildID+"_"+userID]
	if !ok {
		return ErrMemberNotFound
	}
	set[roleID] = true
	return nil
}

func (p *fakePlatform) RemoveRole(guildID, userID, roleID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removeCalls++
	set, ok := p.members[guildID+"_"+userID]
	if !ok {
		return ErrMemberNotFound
	}
	delete(set, roleID)
	return nil
}

func (p *fakePlatform) Kick(guildID, userID, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.kickErr != nil {
		return p.kickErr
	}
	p.kicked = append(p.kicked, userID)
	delete(p.members, guildID+"_"+userID)
	return nil
}

func (p *fakePlatform) Ban(guildID, userID, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.banned = append(p.banned, userID)
	delete(p.members, guildID+"_"+userID)
	return nil
}

// manualTimers collects scheduled callbacks until fired by the test
type manualTimers struct {
	mu     sync.Mutex
	timers []manualTimer
}

type manualTimer struct {
	d  time.Duration
	fn func()
}

func (m *manualTimers) after(d time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timers = append(m.timers, manualTimer{d: d, fn: fn})
}

func (m *manualTimers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

func (m *manualTimers) fireAll() {
	m.mu.Lock()
	timers := m.timers
	m.timers = nil
	m.mu.Unlock()

	for _, t := range timers {
		t.fn()
	}
}

// fixedClock is a settable clock
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingPublisher stores published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) PublishEvent(e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.Action)
	}
	return out
}

var errPlatformDown = errors.New("platform unavailable")
