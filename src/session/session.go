package session

import (
	"sync"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"github.com/SteveDok22/TradeSim-Pro/src/model"
)

// Session is the client-side mirror of the authenticated account. It is
// constructed explicitly at login or registration and torn down at logout;
// nothing here is ambient global state.
//
// The balance cell is the single source of truth for display. SetBalance is
// its only mutation entrypoint and must only carry values confirmed by the
// server (login, register, trade open, trade close, balance reset). No caller
// may compute a balance locally and store it here.
type Session struct {
	mu      sync.RWMutex
	account *model.Account
	balance decimal.Decimal
	tokens  model.TokenPair
}

// New returns an inactive session. Begin activates it.
func New() *Session {
	return &Session{}
}

// Begin installs the confirmed account and credential pair. The account's
// balance seeds the balance cell.
func (s *Session) Begin(account model.Account, tokens model.TokenPair) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.account = &account
	s.balance = account.AccountBalance
	s.tokens = tokens

	logger.WithField("username", account.Username).Info("session started")
}

// End clears all session state. Safe to call on an inactive session.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.account = nil
	s.balance = decimal.Zero
	s.tokens = model.TokenPair{}
}

// Active reports whether a session is established.
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account != nil
}

// Account returns a copy of the session account, if any.
func (s *Session) Account() (model.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil {
		return model.Account{}, false
	}
	return *s.account, true
}

// Balance returns the last server-confirmed balance.
func (s *Session) Balance() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balance
}

// SetBalance replaces the balance cell with a server-confirmed value.
func (s *Session) SetBalance(newBalance decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.balance = newBalance
	if s.account != nil {
		s.account.AccountBalance = newBalance
	}
}

// Tokens returns the session's credential pair.
func (s *Session) Tokens() model.TokenPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens
}
