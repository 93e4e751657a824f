package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/JotaC95/HotelApp/internal/adapters/authroles"
	"github.com/JotaC95/HotelApp/internal/apiclient"
	domainauth "github.com/JotaC95/HotelApp/internal/domain/auth"
	apperrors "github.com/JotaC95/HotelApp/internal/errors"
	obserrors "github.com/JotaC95/HotelApp/internal/observability/errors"
	"github.com/JotaC95/HotelApp/internal/observability/metrics"
	"github.com/JotaC95/HotelApp/internal/observability/statsd"
	"github.com/JotaC95/HotelApp/internal/ports"
)

const (
	// DefaultProbePath is the protected resource used to validate credentials.
	DefaultProbePath     = "/rooms/"
	defaultRevokeTimeout = 5 * time.Second
)

// SessionClient is the part of the shared API client the session manager drives.
type SessionClient interface {
	SetAuthorization(value string)
	Probe(ctx context.Context, path string) error
	AddInterceptor(fn apiclient.Interceptor) (remove func())
}

// SessionManagerOptions groups dependencies for SessionManager.
type SessionManagerOptions struct {
	Client   SessionClient          // Required: shared API client
	Store    ports.CredentialStore  // Required: device credential storage
	Identity ports.IdentityProvider // Optional: nil resolves every session to the default role
	Roles    ports.RoleMapper       // Optional: defaults to authroles.DefaultRoleMapper
	Logger   *slog.Logger           // Optional: structured logger
	Metrics  statsd.Sink            // Optional: StatsD sink

	ProbePath     string
	RevokeTimeout time.Duration
}

// SessionManager is the single source of truth for authentication state. It
// is the only writer of the client's Authorization header.
//
// Every transition that changes who is signed in (SignIn, SignOut, a 401
// revocation) bumps an epoch. Asynchronous work records the epoch it started
// under and applies its result only while that epoch is current, so a
// concurrent sign-out always wins over a sign-in still in flight.
type SessionManager struct {
	client        SessionClient
	store         ports.CredentialStore
	identity      ports.IdentityProvider
	roles         ports.RoleMapper
	logger        *slog.Logger
	metrics       statsd.Sink
	probePath     string
	revokeTimeout time.Duration

	mu     sync.Mutex
	state  domainauth.State
	epoch  uint64
	header string // Authorization value last installed on the client
	closed bool
	initOp *Op
	ops    map[*Op]struct{}
	subs   map[chan domainauth.State]struct{}

	removeInterceptor func()

	// persistMu orders credential writes against clears.
	persistMu sync.Mutex
	refresh   singleflight.Group
}

// NewSessionManager constructs a SessionManager and registers its 401
// interceptor on the client. Call Close to deregister it.
func NewSessionManager(opts SessionManagerOptions) (*SessionManager, error) {
	if opts.Client == nil {
		return nil, errors.New("session client is required")
	}
	if opts.Store == nil {
		return nil, errors.New("credential store is required")
	}

	roles := opts.Roles
	if roles == nil {
		roles = authroles.DefaultRoleMapper()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	probePath := strings.TrimSpace(opts.ProbePath)
	if probePath == "" {
		probePath = DefaultProbePath
	}
	revokeTimeout := opts.RevokeTimeout
	if revokeTimeout <= 0 {
		revokeTimeout = defaultRevokeTimeout
	}

	s := &SessionManager{
		client:        opts.Client,
		store:         opts.Store,
		identity:      opts.Identity,
		roles:         roles,
		logger:        logger.With("component", "session_manager"),
		metrics:       opts.Metrics,
		probePath:     probePath,
		revokeTimeout: revokeTimeout,
		ops:           make(map[*Op]struct{}),
		subs:          make(map[chan domainauth.State]struct{}),
	}
	s.removeInterceptor = opts.Client.AddInterceptor(s.onResponse)
	return s, nil
}

// Initialize rehydrates the session from stored credentials. It runs once;
// later calls return the first handle. The handle never reports an error:
// every failure degrades to an unauthenticated session. Ready becomes true
// when the probe settles, before identity resolution finishes.
func (s *SessionManager) Initialize(ctx context.Context) *Op {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initOp != nil {
		return s.initOp
	}
	epoch := s.epoch
	s.initOp = s.startOpLocked(ctx, func(ctx context.Context) error {
		outcome, authenticated := s.rehydrate(ctx, epoch)
		metrics.EmitRehydrate(s.metrics, outcome)
		s.markReady()
		if authenticated {
			s.resolveIdentity(ctx, epoch, nil)
		}
		return nil
	})
	return s.initOp
}

func (s *SessionManager) rehydrate(ctx context.Context, epoch uint64) (string, bool) {
	creds, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn("load stored credentials", obserrors.Attrs(err)...)
		s.applyIf(epoch, resetState)
		return metrics.OutcomeStorage, false
	}
	if creds == nil || !creds.Valid() {
		s.applyIf(epoch, resetState)
		return metrics.OutcomeAbsent, false
	}

	header := creds.BasicAuthorization()
	if !s.applyIf(epoch, func(*domainauth.State) bool {
		s.setHeaderLocked(header)
		return false
	}) {
		return metrics.OutcomeSuperseded, false
	}

	if err := s.client.Probe(ctx, s.probePath); err != nil {
		s.logger.Info("stored credentials not accepted", obserrors.Attrs(err)...)
		s.applyIf(epoch, s.resetAndClearHeader)
		return metrics.OutcomeOf(err), false
	}

	if !s.applyIf(epoch, markAuthenticated) {
		return metrics.OutcomeSuperseded, false
	}
	s.logger.Info("session rehydrated")
	return metrics.OutcomeOK, true
}

// SignIn validates the credentials with a probe, persists them on success
// and resolves the identity. The handle reports an auth_rejected error for a
// 401, service_unavailable for any other probe failure, storage when the
// credentials could not be persisted, and validation for empty input. On
// any failure the session is left unauthenticated and nothing is persisted.
func (s *SessionManager) SignIn(ctx context.Context, username, password string) *Op {
	creds := domainauth.Credentials{Username: strings.TrimSpace(username), Password: password}
	if !creds.Valid() {
		field := "username"
		if creds.Username != "" {
			field = "password"
		}
		return finishedOp(apperrors.ValidationField(field, "username and password are required"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return finishedOp(errClosed())
	}
	s.epoch++
	epoch := s.epoch
	s.setHeaderLocked(creds.BasicAuthorization())

	return s.startOpLocked(ctx, func(ctx context.Context) error {
		start := time.Now()
		err := s.signIn(ctx, epoch, creds)
		metrics.EmitSignIn(s.metrics, metrics.OutcomeOf(err), time.Since(start))
		if err != nil {
			s.logger.Info("sign in failed", obserrors.Attrs(err)...)
		}
		return err
	})
}

func (s *SessionManager) signIn(ctx context.Context, epoch uint64, creds domainauth.Credentials) error {
	if err := s.client.Probe(ctx, s.probePath); err != nil {
		s.applyIf(epoch, s.resetAndClearHeader)
		return classifyProbeError(err)
	}

	if err := s.persist(ctx, epoch, creds); err != nil {
		s.applyIf(epoch, s.resetAndClearHeader)
		if apperrors.IsCanceled(err) {
			return err
		}
		if !apperrors.IsStorage(err) {
			err = apperrors.Wrap(err, apperrors.ErrCodeStorage, "persist credentials")
		}
		return err
	}

	if !s.applyIf(epoch, markAuthenticated) {
		return errSuperseded()
	}
	s.logger.Info("signed in", "user", creds.Username)
	s.resolveIdentity(ctx, epoch, &creds.Username)
	return nil
}

func (s *SessionManager) persist(ctx context.Context, epoch uint64, creds domainauth.Credentials) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if !s.current(epoch) {
		return errSuperseded()
	}
	return s.store.Save(ctx, creds)
}

// SignOut clears stored credentials, the Authorization header and the
// in-memory state. It never fails; a storage error is logged and the
// session is still signed out.
func (s *SessionManager) SignOut(ctx context.Context) {
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.setHeaderLocked("")
	resetState(&s.state)
	s.publishLocked()
	s.mu.Unlock()

	s.clearStore(ctx, epoch)
	s.logger.Info("signed out")
}

// clearStore deletes stored credentials unless a newer sign-in has
// superseded epoch, in which case the stored entry belongs to that session.
func (s *SessionManager) clearStore(ctx context.Context, epoch uint64) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	s.mu.Lock()
	superseded := s.epoch != epoch
	s.mu.Unlock()
	if superseded {
		return
	}
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Warn("clear stored credentials", obserrors.Attrs(err)...)
	}
}

// onResponse revokes an authenticated session when a non-probe request
// sent with the current credentials receives 401. A late 401 for a request
// sent under earlier credentials is ignored. The original caller still gets
// its auth_rejected error.
func (s *SessionManager) onResponse(ev apiclient.ResponseEvent) {
	if ev.Status != 401 || ev.Probe {
		return
	}

	s.mu.Lock()
	if s.closed || !s.state.Authenticated {
		s.mu.Unlock()
		return
	}
	if ev.Authorization != s.header {
		s.mu.Unlock()
		s.logger.Debug("ignoring 401 for earlier credentials",
			"method", ev.Method, "path", ev.Path, "request_id", ev.RequestID)
		return
	}
	s.epoch++
	epoch := s.epoch
	s.setHeaderLocked("")
	resetState(&s.state)
	s.publishLocked()
	s.mu.Unlock()

	s.logger.Warn("session revoked by server",
		"method", ev.Method, "path", ev.Path, "status", ev.Status, "request_id", ev.RequestID)
	metrics.EmitRevoked(s.metrics)

	ctx, cancel := context.WithTimeout(context.Background(), s.revokeTimeout)
	defer cancel()
	s.clearStore(ctx, epoch)
}

// RefreshRole re-runs the identity lookup and updates role and username
// without touching Authenticated. Concurrent calls share one lookup. It is a
// no-op when the session is not authenticated.
func (s *SessionManager) RefreshRole(ctx context.Context) {
	s.mu.Lock()
	if s.closed || !s.state.Authenticated {
		s.mu.Unlock()
		return
	}
	epoch := s.epoch
	fallback := s.state.Username
	s.mu.Unlock()

	key := strconv.FormatUint(epoch, 10)
	_, _, _ = s.refresh.Do(key, func() (any, error) {
		s.resolveIdentity(ctx, epoch, fallback)
		return nil, nil
	})
}

func (s *SessionManager) resolveIdentity(ctx context.Context, epoch uint64, fallback *string) {
	role, username := s.lookupIdentity(ctx, fallback)
	s.applyIf(epoch, func(st *domainauth.State) bool {
		if !st.Authenticated {
			return false
		}
		st.Role = &role
		st.Username = username
		return true
	})
}

// lookupIdentity never fails: any error yields the default role and no username.
func (s *SessionManager) lookupIdentity(ctx context.Context, fallback *string) (domainauth.Role, *string) {
	if s.identity == nil {
		return domainauth.DefaultRole, nil
	}
	id, err := s.identity.Identity(apiclient.WithProbe(ctx))
	if err != nil {
		err = apperrors.Wrap(err, apperrors.ErrCodeIdentityUnavailable, "identity lookup")
		s.logger.Debug("identity unavailable, using default role", obserrors.Attrs(err)...)
		return domainauth.DefaultRole, nil
	}
	role := s.roles.Map(id.Groups)
	if name := strings.TrimSpace(id.Username); name != "" {
		return role, &name
	}
	if fallback != nil {
		name := *fallback
		return role, &name
	}
	return role, nil
}

// HasRole reports whether the current session carries role r. No I/O.
func (s *SessionManager) HasRole(r domainauth.Role) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.HasRole(r)
}

// State returns a snapshot of the session state.
func (s *SessionManager) State() domainauth.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe returns a channel that receives the current state and then every
// change. The channel holds one value; a slow reader only sees the latest
// state. cancel closes the channel.
func (s *SessionManager) Subscribe() (<-chan domainauth.State, func()) {
	ch := make(chan domainauth.State, 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	ch <- s.state
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
			}
		})
	}
}

// Close cancels in-flight operations, deregisters the 401 interceptor and
// closes subscriber channels. Results of canceled operations are dropped.
func (s *SessionManager) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for op := range s.ops {
		op.cancel()
	}
	for ch := range s.subs {
		close(ch)
	}
	s.subs = map[chan domainauth.State]struct{}{}
	remove := s.removeInterceptor
	s.mu.Unlock()

	if remove != nil {
		remove()
	}
}

func (s *SessionManager) current(epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.epoch == epoch
}

// applyIf runs fn under the lock when epoch is current and the manager is
// open. fn reports whether it changed the state.
func (s *SessionManager) applyIf(epoch uint64, fn func(*domainauth.State) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.epoch != epoch {
		return false
	}
	if fn(&s.state) {
		s.publishLocked()
	}
	return true
}

func (s *SessionManager) markReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state.Ready {
		return
	}
	s.state.Ready = true
	s.publishLocked()
}

// setHeaderLocked installs value on the client. s.mu must be held.
func (s *SessionManager) setHeaderLocked(value string) {
	s.header = value
	s.client.SetAuthorization(value)
}

func (s *SessionManager) resetAndClearHeader(st *domainauth.State) bool {
	s.setHeaderLocked("")
	return resetState(st)
}

func (s *SessionManager) publishLocked() {
	snap := s.state
	for ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
	metrics.EmitAuthenticated(s.metrics, snap.Authenticated)
}

func resetState(st *domainauth.State) bool {
	changed := st.Authenticated || st.Role != nil || st.Username != nil
	st.Authenticated = false
	st.Role = nil
	st.Username = nil
	return changed
}

func markAuthenticated(st *domainauth.State) bool {
	st.Authenticated = true
	st.Role = nil
	st.Username = nil
	return true
}

func classifyProbeError(err error) error {
	switch {
	case apperrors.IsAuthRejected(err), apperrors.IsServiceUnavailable(err), apperrors.IsCanceled(err):
		return err
	default:
		return apperrors.Wrap(err, apperrors.ErrCodeServiceUnavailable, "validate credentials")
	}
}

func errSuperseded() error {
	return &apperrors.AppError{Code: apperrors.ErrCodeCanceled, Message: "superseded by a newer session change"}
}

func errClosed() error {
	return &apperrors.AppError{Code: apperrors.ErrCodeCanceled, Message: "session manager closed"}
}
