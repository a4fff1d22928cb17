// Package otp holds one-time-passcode challenges in process memory.
// Each phone number carries at most one live challenge; a successful
// verification burns it.
package otp

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
	"sync"
	"time"
)

var (
	ErrNotFound = errors.New("no otp challenge for this number")
	ErrExpired  = errors.New("otp challenge expired")
	ErrInvalid  = errors.New("otp code mismatch")
)

// TTL is how long a challenge stays verifiable after Send.
const TTL = 10 * time.Minute

type challenge struct {
	code      string
	expiresAt time.Time
}

// Store is safe for concurrent use. The mutex spans every
// read-expire-compare-delete sequence, so a verify can never interleave
// with a concurrent send or verify on the same phone number.
type Store struct {
	mu         sync.Mutex
	challenges map[string]challenge
	now        func() time.Time
}

func NewStore() *Store {
	return &Store{
		challenges: make(map[string]challenge),
		now:        time.Now,
	}
}

// Send generates a fresh 6-digit code for the phone number, replacing
// any prior challenge, and returns it for delivery.
func (s *Store) Send(phone string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.challenges[phone] = challenge{code: code, expiresAt: s.now().Add(TTL)}
	s.mu.Unlock()

	return code, nil
}

// Verify checks the submitted code against the stored challenge.
// A mismatch leaves the challenge in place so the caller may retry
// until expiry; expiry and success both remove it.
func (s *Store) Verify(phone, submitted string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.challenges[phone]
	if !ok {
		return ErrNotFound
	}
	if s.now().After(ch.expiresAt) {
		delete(s.challenges, phone)
		return ErrExpired
	}
	if ch.code != submitted {
		return ErrInvalid
	}

	delete(s.challenges, phone)
	return nil
}

// generateCode draws a uniform 6-digit code from crypto/rand.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(100000+n.Int64(), 10), nil
}
