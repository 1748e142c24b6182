package identity

import (
	"context"
	"sync"

	"github.com/easm/dashboard/internal/domain/identity"
	"github.com/easm/dashboard/internal/domain/shared"
	"github.com/easm/dashboard/internal/infrastructure/auth"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// LoginPath is where the session sends the user after logout or expiry.
const LoginPath = "/login"

// AuthClient is the part of the upstream client the session needs.
type AuthClient interface {
	LoadToken(ctx context.Context) (bool, error)
	Token() string
	Verify(ctx context.Context) (*identity.VerifyResponse, error)
	Login(ctx context.Context, creds identity.Credentials) (*identity.AuthResponse, error)
	Register(ctx context.Context, reg identity.Registration) (*identity.AuthResponse, error)
	Logout(ctx context.Context) error
}

// TransitionRecorder counts state transitions.
type TransitionRecorder interface {
	RecordSessionTransition(state string)
}

// Listener receives a copy of the session after every change.
type Listener func(identity.Session)

// Navigator is told where the user should be sent.
type Navigator func(path string)

// SessionService owns the session state machine:
// unresolved -> verifying -> authenticated | anonymous.
type SessionService struct {
	client   AuthClient
	validate *validator.Validate
	recorder TransitionRecorder
	logger   *zap.Logger

	mu      sync.RWMutex
	session identity.Session
	// epoch changes on every login, logout or expiry so a verify that
	// started earlier cannot overwrite their outcome.
	epoch uint64

	subMu      sync.Mutex
	listeners  map[uint64]Listener
	order      []uint64
	nextID     uint64
	navigators []Navigator
}

// SessionOption configures a SessionService.
type SessionOption func(*SessionService)

// WithTransitionRecorder records every state change.
func WithTransitionRecorder(r TransitionRecorder) SessionOption {
	return func(s *SessionService) {
		s.recorder = r
	}
}

// NewSessionService creates a session in the unresolved state.
func NewSessionService(client AuthClient, logger *zap.Logger, opts ...SessionOption) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SessionService{
		client:    client,
		validate:  validator.New(),
		logger:    logger,
		session:   identity.Session{State: identity.StateUnresolved},
		listeners: make(map[uint64]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve restores the session from the persisted token. Without a token the
// session becomes anonymous and no call is made; otherwise it verifies the
// token and becomes authenticated, or anonymous with the token cleared.
func (s *SessionService) Resolve(ctx context.Context) identity.Session {
	hasToken, err := s.client.LoadToken(ctx)
	if err != nil {
		s.logger.Warn("Failed to load persisted token", zap.Error(err))
	}
	if !hasToken {
		s.apply(s.currentEpoch(), identity.Session{State: identity.StateAnonymous})
		return s.Snapshot()
	}

	epoch := s.currentEpoch()
	s.apply(epoch, identity.Session{State: identity.StateVerifying, Loading: true})

	resp, err := s.client.Verify(ctx)
	if err != nil {
		s.logger.Info("Token verification failed", zap.Error(err))
		if s.currentEpoch() == epoch {
			if err := s.client.Logout(ctx); err != nil {
				s.logger.Warn("Failed to clear token after failed verification", zap.Error(err))
			}
		}
		s.apply(epoch, identity.Session{State: identity.StateAnonymous})
		return s.Snapshot()
	}

	s.apply(epoch, s.authenticated(&resp.User, &resp.Organization, s.client.Token()))
	return s.Snapshot()
}

// Login validates the credentials, authenticates and persists the tokens.
// On failure the session is anonymous and the client error is returned.
func (s *SessionService) Login(ctx context.Context, creds identity.Credentials) (identity.Session, error) {
	if err := s.validate.Struct(creds); err != nil {
		return s.Snapshot(), shared.ErrInvalidInput.WithMessage("A valid email and password are required")
	}

	epoch := s.bumpEpoch()
	s.setLoading(true)

	resp, err := s.client.Login(ctx, creds)
	if err != nil {
		s.logger.Info("Login failed", zap.String("email", creds.Email), zap.Error(err))
		s.apply(epoch, identity.Session{State: identity.StateAnonymous})
		return s.Snapshot(), err
	}

	s.logger.Info("Login succeeded", zap.String("user_id", resp.User.ID))
	s.apply(epoch, s.authenticated(&resp.User, &resp.Organization, resp.Tokens.AccessToken))
	return s.Snapshot(), nil
}

// Register creates an account. It does not sign the user in.
func (s *SessionService) Register(ctx context.Context, reg identity.Registration) (*identity.AuthResponse, error) {
	if err := s.validate.Struct(reg); err != nil {
		return nil, shared.ErrInvalidInput.WithMessage(err.Error())
	}
	return s.client.Register(ctx, reg)
}

// Logout clears the tokens, makes the session anonymous and navigates to login.
func (s *SessionService) Logout(ctx context.Context) error {
	epoch := s.bumpEpoch()
	err := s.client.Logout(ctx)
	s.apply(epoch, identity.Session{State: identity.StateAnonymous})
	s.navigate(LoginPath)
	return err
}

// HandleUnauthorized is registered on the upstream client; the client has
// already cleared the tokens when it runs.
func (s *SessionService) HandleUnauthorized(ctx context.Context) {
	epoch := s.bumpEpoch()
	s.logger.Info("Session expired, forcing logout")
	s.apply(epoch, identity.Session{State: identity.StateAnonymous})
	s.navigate(LoginPath)
}

// Snapshot returns a copy of the current session.
func (s *SessionService) Snapshot() identity.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySession(s.session)
}

// Subscribe registers fn for session changes and returns its cancel func.
func (s *SessionService) Subscribe(fn Listener) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners[id] = fn
	s.order = append(s.order, id)
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.listeners, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// OnNavigate registers fn to be told about forced navigation.
func (s *SessionService) OnNavigate(fn Navigator) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.navigators = append(s.navigators, fn)
}

func (s *SessionService) authenticated(user *identity.User, org *identity.Organization, token string) identity.Session {
	next := identity.Session{
		State:           identity.StateAuthenticated,
		IsAuthenticated: true,
		User:            user,
		Organization:    org,
	}
	if exp, err := auth.ExpiresAt(token); err == nil {
		next.TokenExpiresAt = &exp
	}
	return next
}

func (s *SessionService) currentEpoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

func (s *SessionService) bumpEpoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	return s.epoch
}

func (s *SessionService) setLoading(loading bool) {
	s.mu.Lock()
	s.session.Loading = loading
	snap := copySession(s.session)
	s.mu.Unlock()
	s.publish(snap)
}

// apply installs next if no login, logout or expiry happened since epoch.
func (s *SessionService) apply(epoch uint64, next identity.Session) {
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		s.logger.Debug("Discarding superseded session update", zap.String("state", string(next.State)))
		return
	}
	changed := s.session.State != next.State
	s.session = next
	snap := copySession(s.session)
	s.mu.Unlock()

	if changed && s.recorder != nil {
		s.recorder.RecordSessionTransition(string(next.State))
	}
	s.publish(snap)
}

func (s *SessionService) publish(snap identity.Session) {
	s.subMu.Lock()
	listeners := make([]Listener, 0, len(s.order))
	for _, id := range s.order {
		listeners = append(listeners, s.listeners[id])
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

func (s *SessionService) navigate(path string) {
	s.subMu.Lock()
	navigators := make([]Navigator, len(s.navigators))
	copy(navigators, s.navigators)
	s.subMu.Unlock()

	for _, fn := range navigators {
		fn(path)
	}
}

func copySession(in identity.Session) identity.Session {
	out := in
	if in.User != nil {
		u := *in.User
		out.User = &u
	}
	if in.Organization != nil {
		o := *in.Organization
		out.Organization = &o
	}
	if in.TokenExpiresAt != nil {
		t := *in.TokenExpiresAt
		out.TokenExpiresAt = &t
	}
	return out
}
