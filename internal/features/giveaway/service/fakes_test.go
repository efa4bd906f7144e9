package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"giveaway-bot/internal/common/config"
	apperrors "giveaway-bot/internal/common/errors"
	"giveaway-bot/internal/features/giveaway/models"
)

const (
	guildID     = "100"
	channelID   = "200"
	organizerID = "300"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Giveaway.EntryEmoji = "🎉"
	cfg.Giveaway.CancelKeyword = "cancel"
	cfg.Giveaway.CountdownInterval = 10 * time.Second
	cfg.Giveaway.ResolveTimeout = time.Minute
	return cfg
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: epoch}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type sentText struct {
	Target  string // user or channel
	Message string // replied-to message, if any
	Content string
}

type edit struct {
	MessageID    string
	Announcement models.Announcement
}

type fakePlatform struct {
	mu sync.Mutex

	members  map[string]models.Member
	reactors []models.Member
	errs     map[string]error
	nextID   int

	prompts       []models.Prompt
	directs       []sentText
	announcements []models.Announcement
	edits         []edit
	deleted       []string
	reacted       []string
	cleared       []string
	replies       []sentText
	latestReplies []sentText
	sent          []sentText
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		members: make(map[string]models.Member),
		errs:    make(map[string]error),
	}
}

func (p *fakePlatform) addMember(id, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.members[id] = models.Member{ID: id, DisplayName: name}
}

func (p *fakePlatform) removeMember(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.members, id)
}

func (p *fakePlatform) setReactors(ms ...models.Member) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reactors = ms
}

func (p *fakePlatform) fail(op string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs[op] = err
}

func (p *fakePlatform) err(op string) error {
	return p.errs[op]
}

func (p *fakePlatform) SendPrompt(ctx context.Context, userID string, prompt models.Prompt) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.err("SendPrompt"); err != nil {
		return err
	}
	p.prompts = append(p.prompts, prompt)
	return nil
}

func (p *fakePlatform) SendDirect(ctx context.Context, userID, content string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.directs = append(p.directs, sentText{Target: userID, Content: content})
	return p.err("SendDirect")
}

func (p *fakePlatform) SendAnnouncement(ctx context.Context, channelID string, a models.Announcement) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.err("SendAnnouncement"); err != nil {
		return "", err
	}
	p.nextID++
	p.announcements = append(p.announcements, a)
	return fmt.Sprintf("msg-%d", p.nextID), nil
}

func (p *fakePlatform) EditAnnouncement(ctx context.Context, channelID, messageID string, a models.Announcement) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.err("EditAnnouncement"); err != nil {
		return err
	}
	p.edits = append(p.edits, edit{MessageID: messageID, Announcement: a})
	return nil
}

func (p *fakePlatform) CheckMessage(ctx context.Context, channelID, messageID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err("CheckMessage")
}

func (p *fakePlatform) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, messageID)
	return p.err("DeleteMessage")
}

func (p *fakePlatform) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reacted = append(p.reacted, messageID)
	return p.err("AddReaction")
}

func (p *fakePlatform) ClearReaction(ctx context.Context, channelID, messageID, emoji string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.err("ClearReaction"); err != nil {
		return err
	}
	p.cleared = append(p.cleared, messageID)
	return nil
}

func (p *fakePlatform) Reactors(ctx context.Context, channelID, messageID, emoji string) ([]models.Member, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.err("Reactors"); err != nil {
		return nil, err
	}
	return append([]models.Member(nil), p.reactors...), nil
}

func (p *fakePlatform) Reply(ctx context.Context, channelID, messageID, content string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.err("Reply"); err != nil {
		return err
	}
	p.replies = append(p.replies, sentText{Target: channelID, Message: messageID, Content: content})
	return nil
}

func (p *fakePlatform) ReplyToLatest(ctx context.Context, channelID, content string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.err("ReplyToLatest"); err != nil {
		return err
	}
	p.latestReplies = append(p.latestReplies, sentText{Target: channelID, Content: content})
	return nil
}

func (p *fakePlatform) Send(ctx context.Context, channelID, content string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.err("Send"); err != nil {
		return err
	}
	p.sent = append(p.sent, sentText{Target: channelID, Content: content})
	return nil
}

func (p *fakePlatform) ResolveMember(ctx context.Context, guildID, userID string) (*models.Member, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.err("ResolveMember"); err != nil {
		return nil, err
	}
	m, ok := p.members[userID]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (p *fakePlatform) directContents() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.directs))
	for i, d := range p.directs {
		out[i] = d.Content
	}
	return out
}

func (p *fakePlatform) lastDirect() string {
	contents := p.directContents()
	if len(contents) == 0 {
		return ""
	}
	return contents[len(contents)-1]
}

// fakeScheduler holds tasks until a test fires them.
type fakeScheduler struct {
	mu     sync.Mutex
	next   int
	tasks  map[string]func(ctx context.Context)
	delays map[string]time.Duration
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{
		tasks:  make(map[string]func(ctx context.Context)),
		delays: make(map[string]time.Duration),
	}
}

func (s *fakeScheduler) Schedule(delay time.Duration, fn func(ctx context.Context)) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	id := fmt.Sprintf("task-%d", s.next)
	s.tasks[id] = fn
	s.delays[id] = delay
	return id
}

func (s *fakeScheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	return true
}

func (s *fakeScheduler) pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *fakeScheduler) delay(id string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delays[id]
}

// fire runs a pending task as if its delay had elapsed.
func (s *fakeScheduler) fire(ctx context.Context, id string) bool {
	s.mu.Lock()
	fn, ok := s.tasks[id]
	delete(s.tasks, id)
	s.mu.Unlock()
	if !ok {
		return false
	}
	fn(ctx)
	return true
}

func notFound() error {
	return apperrors.New(apperrors.ErrCodeNotFound, "Unknown Message")
}

func forbidden() error {
	return apperrors.New(apperrors.ErrCodeForbidden, "Missing Permissions")
}
