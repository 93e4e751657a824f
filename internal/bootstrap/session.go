package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/JotaC95/HotelApp/config"
	"github.com/JotaC95/HotelApp/internal/adapters/authroles"
	"github.com/JotaC95/HotelApp/internal/adapters/credstore"
	"github.com/JotaC95/HotelApp/internal/adapters/identity"
	redisadapter "github.com/JotaC95/HotelApp/internal/adapters/redis"
	"github.com/JotaC95/HotelApp/internal/apiclient"
	"github.com/JotaC95/HotelApp/internal/cryptoutil"
	"github.com/JotaC95/HotelApp/internal/observability/statsd"
	"github.com/JotaC95/HotelApp/internal/ports"
	"github.com/JotaC95/HotelApp/internal/service"
)

// CredentialStoreConfig contains configuration for the credential store.
type CredentialStoreConfig struct {
	Credentials config.CredentialsConfig
	Redis       config.RedisConfig
	RedisClient redis.UniversalClient // Optional: dialed from Redis when nil
	Sealer      cryptoutil.Sealer
	Logger      *slog.Logger
}

// BuildCredentialStore creates the configured credential store. The returned
// close func releases any connection the store opened; it is never nil.
//
//nolint:ireturn // the backend is chosen at runtime.
func BuildCredentialStore(cfg CredentialStoreConfig) (ports.CredentialStore, func() error, error) {
	noop := func() error { return nil }
	sealer := cfg.Sealer
	if sealer == nil {
		sealer = cryptoutil.NoopSealer{}
	}

	switch cfg.Credentials.Backend {
	case config.CredentialsBackendRedis:
		client := cfg.RedisClient
		closeFn := noop
		if client == nil {
			var err error
			client, err = ConnectRedis(RedisConnectConfig{Redis: cfg.Redis, Logger: cfg.Logger})
			if err != nil {
				return nil, noop, fmt.Errorf("credential store: %w", err)
			}
			closeFn = client.Close
		}
		store := redisadapter.NewCredentialStore(client, redisadapter.CredentialStoreOptions{
			Prefix: cfg.Redis.KeyPrefix,
			Key:    cfg.Credentials.Key,
			Sealer: sealer,
		})
		return store, closeFn, nil

	case config.CredentialsBackendFile, "":
		dir := cfg.Credentials.Dir
		if dir == "" {
			dir = credstore.DefaultDir()
		}
		if dir == "" {
			return nil, noop, errors.New("credential store: no home directory; set CREDENTIALS_DIR")
		}
		return credstore.NewFileStore(dir, cfg.Credentials.Key, sealer), noop, nil

	default:
		return nil, noop, fmt.Errorf("credential store: unknown backend %q", cfg.Credentials.Backend)
	}
}

// SessionDeps groups dependencies for BuildSession.
type SessionDeps struct {
	Config *config.AppConfig
	Logger *slog.Logger

	// Optional overrides, mainly for tests.
	Store     ports.CredentialStore
	Transport http.RoundTripper
}

// Session holds the wired client-side session stack.
type Session struct {
	Client  *apiclient.Client
	Manager *service.SessionManager
	Metrics *statsd.Client

	closers []func() error
}

// Close disposes the session manager and releases connections.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	if s.Manager != nil {
		s.Manager.Close()
	}
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BuildSession wires the API client, credential store, identity provider,
// role mapper and session manager from configuration.
func BuildSession(deps SessionDeps) (*Session, error) {
	if deps.Config == nil {
		return nil, errors.New("session config is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sess := &Session{}
	sess.Metrics = buildMetrics(logger, cfg.Observability)
	if sess.Metrics != nil {
		sess.closers = append(sess.closers, sess.Metrics.Close)
	}

	client, err := apiclient.New(apiclient.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
		Logger:    logger,
		Metrics:   metricsSink(sess.Metrics),
		Transport: deps.Transport,
	})
	if err != nil {
		return nil, errors.Join(err, sess.Close())
	}
	sess.Client = client

	store := deps.Store
	if store == nil {
		var closeStore func() error
		store, closeStore, err = BuildCredentialStore(CredentialStoreConfig{
			Credentials: cfg.Credentials,
			Redis:       cfg.Redis,
			Sealer:      CreateSealer(cfg.Credentials.EncryptionKey, logger),
			Logger:      logger,
		})
		if err != nil {
			return nil, errors.Join(err, sess.Close())
		}
		sess.closers = append(sess.closers, closeStore)
	}

	idp, err := identity.NewProvider(identity.Options{
		Client:       client,
		Path:         cfg.API.IdentityPath,
		UsernameExpr: cfg.Identity.UsernameExpr,
		GroupsExpr:   cfg.Identity.GroupsExpr,
	})
	if err != nil {
		return nil, errors.Join(err, sess.Close())
	}

	mgr, err := service.NewSessionManager(service.SessionManagerOptions{
		Client:   client,
		Store:    store,
		Identity: idp,
		Roles: authroles.PrecedenceRoleMapper{
			SupervisorGroups:  cfg.Roles.SupervisorGroups,
			MaintenanceGroups: cfg.Roles.MaintenanceGroups,
			FrontdeskGroups:   cfg.Roles.FrontdeskGroups,
		},
		Logger:    logger,
		Metrics:   metricsSink(sess.Metrics),
		ProbePath: cfg.API.ProbePath,
	})
	if err != nil {
		return nil, errors.Join(err, sess.Close())
	}
	sess.Manager = mgr
	return sess, nil
}

func buildMetrics(logger *slog.Logger, cfg config.ObservabilityConfig) *statsd.Client {
	if !cfg.Metrics.IsEnabled() {
		return nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.Metrics.StatsdAddress,
		Prefix:  cfg.Metrics.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}

// metricsSink avoids handing a typed nil *statsd.Client to an interface.
//
//nolint:ireturn // statsd.Sink is the consumer-facing abstraction.
func metricsSink(c *statsd.Client) statsd.Sink {
	if c == nil {
		return nil
	}
	return c
}
