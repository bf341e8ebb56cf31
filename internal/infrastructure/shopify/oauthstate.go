package shopify

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"
)

// StateStore arena en memoria para el state CSRF del handshake OAuth,
// con TTL explícito y evicción perezosa (sin goroutine de barrido).
// Proceso único; para multi-instancia se externaliza al store persistente.
type StateStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]stateEntry
	now     func() time.Time
}

type stateEntry struct {
	shop      string
	expiresAt time.Time
}

// NewStateStore construye la arena. ttl <= 0 usa 10 minutos.
func NewStateStore(ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &StateStore{
		ttl:     ttl,
		entries: make(map[string]stateEntry),
		now:     time.Now,
	}
}

// Issue acuña un state opaco asociado a la tienda.
func (s *StateStore) Issue(shop string) (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generar state: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.entries[token] = stateEntry{shop: shop, expiresAt: s.now().Add(s.ttl)}
	return token, nil
}

// Consume valida y elimina el state (un solo uso). Devuelve la tienda
// asociada; ok=false si no existe, expiró o no corresponde.
func (s *StateStore) Consume(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	e, ok := s.entries[token]
	if !ok {
		return "", false
	}
	delete(s.entries, token)
	if s.now().After(e.expiresAt) {
		return "", false
	}
	return e.shop, true
}

// sweepLocked elimina entradas vencidas. Llamar con el mutex tomado.
func (s *StateStore) sweepLocked() {
	now := s.now()
	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}
}
