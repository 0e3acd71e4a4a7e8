package bot

import (
	"time"

	"gitlab.com/yelinaung/quickrate/internal/logger"
	"gitlab.com/yelinaung/quickrate/internal/view"
)

const (
	defaultSessionIdleTTL = 30 * time.Minute
	defaultMaxSessions    = 1000
	maxCleanupInterval    = 5 * time.Minute
)

type chatSession struct {
	view     *view.Converter
	lastUsed time.Time
}

// session returns the chat's view, creating and mounting it on first use.
func (b *Bot) session(chatID int64) *view.Converter {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.cleanupIdleLocked(now)

	if s, ok := b.sessions[chatID]; ok {
		s.lastUsed = now
		return s.view
	}

	if len(b.sessions) >= b.maxSessions {
		b.evictOldestLocked()
	}

	v := view.New(b.fetcher,
		view.WithObserver(b.observer),
		view.WithName("chat:"+logger.HashChatID(chatID)),
	)
	v.Mount(b.baseCtx)
	b.sessions[chatID] = &chatSession{view: v, lastUsed: now}
	return v
}

// dropSession disposes of the chat's view. It reports whether one existed.
func (b *Bot) dropSession(chatID int64) bool {
	b.mu.Lock()
	s, ok := b.sessions[chatID]
	delete(b.sessions, chatID)
	b.mu.Unlock()

	if ok {
		s.view.Close()
	}
	return ok
}

func (b *Bot) closeAll() {
	b.mu.Lock()
	sessions := b.sessions
	b.sessions = make(map[int64]*chatSession)
	b.mu.Unlock()

	for _, s := range sessions {
		s.view.Close()
	}
}

// cleanupIdleLocked disposes of views unused for longer than idleTTL.
func (b *Bot) cleanupIdleLocked(now time.Time) {
	interval := min(b.idleTTL, maxCleanupInterval)
	if !b.lastCleanup.IsZero() && now.Sub(b.lastCleanup) < interval {
		return
	}
	for chatID, s := range b.sessions {
		if now.Sub(s.lastUsed) >= b.idleTTL {
			s.view.Close()
			delete(b.sessions, chatID)
		}
	}
	b.lastCleanup = now
}

func (b *Bot) evictOldestLocked() {
	var (
		oldestID int64
		oldest   *chatSession
	)
	for chatID, s := range b.sessions {
		if oldest == nil || s.lastUsed.Before(oldest.lastUsed) {
			oldestID, oldest = chatID, s
		}
	}
	if oldest != nil {
		oldest.view.Close()
		delete(b.sessions, oldestID)
	}
}
