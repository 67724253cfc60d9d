package donations

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/relieffund/relieffund-backend/internal/payments"
	pkgerrors "github.com/relieffund/relieffund-backend/pkg/errors"
	"github.com/relieffund/relieffund-backend/pkg/logger"
)

type session struct {
	wizard    *Wizard
	createdAt time.Time
}

// SessionManager owns the live wizard sessions, keyed by an opaque id handed
// to the client at creation.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]session

	initiator payments.Initiator
	invoker   payments.CommandInvoker
	confirmer payments.Confirmer
	logg      *logger.Logger
}

// SessionManagerParams collects the collaborators shared by every session.
type SessionManagerParams struct {
	Initiator payments.Initiator
	Invoker   payments.CommandInvoker
	Confirmer payments.Confirmer
	Logger    *logger.Logger
}

// NewSessionManager builds an empty manager.
func NewSessionManager(params SessionManagerParams) (*SessionManager, error) {
	if params.Initiator == nil || params.Invoker == nil || params.Confirmer == nil {
		return nil, fmt.Errorf("initiator, invoker and confirmer are required")
	}
	return &SessionManager{
		sessions:  make(map[uuid.UUID]session),
		initiator: params.Initiator,
		invoker:   params.Invoker,
		confirmer: params.Confirmer,
		logg:      params.Logger,
	}, nil
}

// SessionDetails identifies the campaign a new session donates to.
type SessionDetails struct {
	CampaignID       int64
	DisasterID       string
	WalletAddress    string
	RecipientAddress string
}

// Create opens a new wizard session and returns its id.
func (m *SessionManager) Create(details SessionDetails) (uuid.UUID, *Wizard, error) {
	wizard, err := NewWizard(WizardParams{
		CampaignID:       details.CampaignID,
		DisasterID:       details.DisasterID,
		WalletAddress:    details.WalletAddress,
		RecipientAddress: details.RecipientAddress,
		Initiator:        m.initiator,
		Invoker:          m.invoker,
		Confirmer:        m.confirmer,
		Logger:           m.logg,
	})
	if err != nil {
		return uuid.Nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "open donation session")
	}

	id := uuid.New()
	m.mu.Lock()
	m.sessions[id] = session{wizard: wizard, createdAt: time.Now().UTC()}
	m.mu.Unlock()
	return id, wizard, nil
}

// Get returns the wizard for a session id.
func (m *SessionManager) Get(id uuid.UUID) (*Wizard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.sessions[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "donation session not found")
	}
	return entry.wizard, nil
}

// Delete drops a session. Unknown ids are a no-op.
func (m *SessionManager) Delete(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// PruneOlderThan drops sessions opened before the cutoff and reports how
// many were removed. Abandoned wizards hold no external resources, this only
// bounds memory.
func (m *SessionManager) PruneOlderThan(age time.Duration) int {
	cutoff := time.Now().UTC().Add(-age)
	m.mu.Lock()
	defer m.mu.Unlock()
	pruned := 0
	for id, entry := range m.sessions {
		if entry.createdAt.Before(cutoff) {
			delete(m.sessions, id)
			pruned++
		}
	}
	return pruned
}

// Len reports the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
