package http

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"storereport/pkg/contracts/domain"
)

type pendingDownload struct {
	fileName  string
	content   []byte
	expiresAt time.Time
}

// downloadStore keeps generated workbooks in memory until their link expires.
// Nothing survives a restart.
type downloadStore struct {
	mu    sync.Mutex
	items map[string]pendingDownload
	ttl   time.Duration
	now   func() time.Time
}

func newDownloadStore(ttl time.Duration) *downloadStore {
	return &downloadStore{
		items: make(map[string]pendingDownload),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *downloadStore) put(result *domain.ReportResult) (token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	token = uuid.NewString()
	s.items[token] = pendingDownload{
		fileName:  result.FileName,
		content:   result.Content,
		expiresAt: now.Add(s.ttl),
	}
	return token
}

func (s *downloadStore) get(token string) (pendingDownload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	v, ok := s.items[token]
	return v, ok
}

func (s *downloadStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *downloadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
		}
	}
}
