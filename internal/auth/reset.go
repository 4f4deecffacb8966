package auth

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

const resetTokenTTL = time.Hour

// ResetStore keeps outstanding password-reset tokens in memory, one per
// email, expiring after an hour. Tokens do not survive a restart; a user
// simply requests a new one.
type ResetStore struct {
	mu     sync.Mutex
	tokens map[string]resetEntry
	now    func() time.Time
}

type resetEntry struct {
	token   string
	expires time.Time
}

func NewResetStore() *ResetStore {
	return &ResetStore{tokens: map[string]resetEntry{}, now: time.Now}
}

// Issue creates and stores a fresh token for the email, replacing any
// outstanding one.
func (s *ResetStore) Issue(email string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[email] = resetEntry{token: token, expires: s.now().Add(resetTokenTTL)}
	return token, nil
}

// Verify reports whether the token is the current, unexpired one for email.
func (s *ResetStore) Verify(email, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.tokens[email]
	return ok && e.token == token && e.expires.After(s.now())
}

// Clear drops the token after a successful reset.
func (s *ResetStore) Clear(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, email)
}
