package wizard

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ReportMetadata is the display header of a generated report.
type ReportMetadata struct {
	ClientName      string `json:"client_name"`
	SessionDate     string `json:"session_date"`
	SessionDuration string `json:"session_duration"`
	Location        string `json:"location"`
	RBTName         string `json:"rbt_name"`
}

// GeneratedReport is the produced-once output of the generation pipeline,
// held on the draft until the user submits or discards it.
type GeneratedReport struct {
	Metadata    ReportMetadata    `json:"metadata"`
	FullContent string            `json:"full_content"`
	Sections    map[string]string `json:"sections"`
}

// Draft is one server-held in-progress report. It is owned by exactly one
// user and discarded on submit or explicit reset; it is never persisted
// mid-flow.
type Draft struct {
	ID          uuid.UUID
	OwnerUserID uuid.UUID
	CreatedAt   time.Time

	mu         sync.Mutex
	controller *Controller
	generated  *GeneratedReport
}

// Update runs fn with exclusive access to the draft's controller.
func (d *Draft) Update(fn func(c *Controller) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(d.controller)
}

// Snapshot returns a copy of the current form state.
func (d *Draft) Snapshot() SessionFormState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.controller.State()
}

// SetGenerated stores the finished pipeline output. Passing nil clears a
// previous attempt, which is what a fresh retry does.
func (d *Draft) SetGenerated(report *GeneratedReport) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.generated = report
}

func (d *Draft) Generated() *GeneratedReport {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.generated == nil {
		return nil
	}
	cp := *d.generated
	if d.generated.Sections != nil {
		cp.Sections = make(map[string]string, len(d.generated.Sections))
		for k, v := range d.generated.Sections {
			cp.Sections[k] = v
		}
	}
	return &cp
}

var (
	ErrDraftNotFound = fmt.Errorf("draft not found")
	ErrNotDraftOwner = fmt.Errorf("draft belongs to another user")
)

// Store keeps all live drafts in memory, keyed by draft ID.
type Store struct {
	mu     sync.RWMutex
	drafts map[uuid.UUID]*Draft
}

func NewStore() *Store {
	return &Store{drafts: make(map[uuid.UUID]*Draft)}
}

func (s *Store) Open(ownerUserID uuid.UUID, flow Flow) (*Draft, error) {
	controller, err := NewController(flow)
	if err != nil {
		return nil, err
	}
	draft := &Draft{
		ID:          uuid.New(),
		OwnerUserID: ownerUserID,
		CreatedAt:   time.Now().UTC(),
		controller:  controller,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draft.ID] = draft
	return draft, nil
}

func (s *Store) Get(ownerUserID, draftID uuid.UUID) (*Draft, error) {
	s.mu.RLock()
	draft, ok := s.drafts[draftID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrDraftNotFound
	}
	if draft.OwnerUserID != ownerUserID {
		return nil, ErrNotDraftOwner
	}
	return draft, nil
}

// Discard removes a draft; called on submit and on explicit abandon.
func (s *Store) Discard(draftID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, draftID)
}
