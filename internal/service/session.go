package service

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/punchamoorthee/walletops/internal/domain"
)

// PromptKind identifies which single-argument admin operation a pending
// prompt is waiting on.
type PromptKind int

const (
	PromptNone PromptKind = iota
	PromptLookup
	PromptDelete
)

// OutcomeKind discriminates the result of resuming a conversation.
type OutcomeKind string

const (
	// OutcomeNotPending means no prompt was outstanding; the message is an
	// ordinary message, not part of any flow. Benign, not an error.
	OutcomeNotPending OutcomeKind = "not_pending"
	// OutcomeInvalidID means the supplied text did not parse as a
	// non-negative integer. The prompt is already consumed; the admin must
	// re-issue the command.
	OutcomeInvalidID OutcomeKind = "invalid_id"
	OutcomeFound     OutcomeKind = "found"
	OutcomeNotFound  OutcomeKind = "not_found"
	OutcomeDeleted   OutcomeKind = "deleted"
)

// Outcome is the discriminated result of Resume.
type Outcome struct {
	Kind     OutcomeKind     `json:"kind"`
	TargetID int64           `json:"target_id,omitempty"`
	Account  *domain.Account `json:"account,omitempty"`
}

// accountAdmin is the slice of the store the session engine acts through.
type accountAdmin interface {
	GetAccount(ctx context.Context, id int64) (*domain.Account, error)
	DeleteAccount(ctx context.Context, id int64) error
}

// adminChecker gates the prompting commands.
type adminChecker interface {
	IsAdmin(ctx context.Context, id int64) (bool, error)
}

// SessionEngine tracks, per identity, one outstanding admin prompt awaiting a
// free-text argument, and resolves it on that identity's next message. It
// replaces the one-shot "register next handler" callback of chat libraries
// with explicit state any transport can drive.
//
// Identities interact serially, so per-identity state needs no ordering
// guarantees beyond the map mutex. A new prompt silently overwrites an
// outstanding one; the last selected command wins.
type SessionEngine struct {
	store accountAdmin
	auth  adminChecker

	mu      sync.Mutex
	pending map[int64]PromptKind
}

func NewSessionEngine(store accountAdmin, auth adminChecker) *SessionEngine {
	return &SessionEngine{
		store:   store,
		auth:    auth,
		pending: make(map[int64]PromptKind),
	}
}

// BeginLookup arms the account-inspection prompt for adminID. Returns
// domain.ErrNotAdmin for identities without a grant.
func (e *SessionEngine) BeginLookup(ctx context.Context, adminID int64) error {
	return e.begin(ctx, adminID, PromptLookup)
}

// BeginDelete arms the account-deletion prompt for adminID.
func (e *SessionEngine) BeginDelete(ctx context.Context, adminID int64) error {
	return e.begin(ctx, adminID, PromptDelete)
}

func (e *SessionEngine) begin(ctx context.Context, adminID int64, kind PromptKind) error {
	ok, err := e.auth.IsAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotAdmin
	}
	e.mu.Lock()
	e.pending[adminID] = kind
	e.mu.Unlock()
	return nil
}

// Pending reports the prompt currently outstanding for id, without consuming
// it.
func (e *SessionEngine) Pending(id int64) PromptKind {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending[id]
}

// Resume feeds the next message from id into the state machine. The pending
// prompt, if any, is consumed unconditionally: even an unparseable argument
// clears the state, so a later message is never misread as part of an old
// flow.
func (e *SessionEngine) Resume(ctx context.Context, id int64, text string) (Outcome, error) {
	e.mu.Lock()
	kind := e.pending[id]
	delete(e.pending, id)
	e.mu.Unlock()

	if kind == PromptNone {
		return Outcome{Kind: OutcomeNotPending}, nil
	}

	target, err := parseUserID(text)
	if err != nil {
		return Outcome{Kind: OutcomeInvalidID}, nil
	}

	switch kind {
	case PromptLookup:
		account, err := e.store.GetAccount(ctx, target)
		if err == domain.ErrAccountNotFound {
			return Outcome{Kind: OutcomeNotFound, TargetID: target}, nil
		}
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Kind: OutcomeFound, TargetID: target, Account: account}, nil
	default:
		if err := e.store.DeleteAccount(ctx, target); err != nil {
			return Outcome{}, err
		}
		return Outcome{Kind: OutcomeDeleted, TargetID: target}, nil
	}
}

// parseUserID accepts only non-negative base-10 integers, mirroring the
// digits-only check the admin prompts require.
func parseUserID(text string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, err
	}
	if id < 0 {
		return 0, strconv.ErrSyntax
	}
	return id, nil
}
