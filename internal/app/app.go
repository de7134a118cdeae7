package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/samvad-hq/aboutme-client/internal/config"
	"github.com/samvad-hq/aboutme-client/internal/domain"
	"github.com/samvad-hq/aboutme-client/internal/logger"
	"github.com/samvad-hq/aboutme-client/internal/storage"
	"github.com/samvad-hq/aboutme-client/pkg/aboutme"
	"github.com/samvad-hq/aboutme-client/pkg/publishers"
)

// Client is the part of aboutme.Client the app calls.
type Client interface {
	UserView(ctx context.Context, username string, extended bool) (*aboutme.Response, error)
	UsersViewDirectory(ctx context.Context, typ string, extended bool) (*aboutme.Response, error)
	UsersViewRandom(ctx context.Context, extended bool) (*aboutme.Response, error)
	Post(ctx context.Context, objectType, action, object string) (*aboutme.Response, error)
}

// EventPublisher delivers lookup events downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
	Size() int
	Close() error
}

// App runs lookups and records their results in the archive and publishers.
type App struct {
	mu        sync.Mutex
	client    Client
	newClient func() (Client, error)
	store     storage.Store
	fanout    EventPublisher
	log       logger.Logger
}

// New builds the app from configuration. The API client is created on the
// first Lookup, so archive reads work without a developer key.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	clientCfg := cfg.ClientConfig()
	newClient := func() (Client, error) {
		client, err := aboutme.New(clientCfg, nil, log)
		if err != nil {
			return nil, fmt.Errorf("init client: %w", err)
		}
		return client, nil
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		SnapshotTTL:     cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.DebugObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"snapshot_ttl_seconds":     int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		return nil, errors.Join(err, store.Close())
	}

	a := NewWithDeps(nil, store, fanout, log)
	a.newClient = newClient
	return a, nil
}

// NewWithDeps assembles an App from already-built parts.
func NewWithDeps(client Client, store storage.Store, fanout EventPublisher, log logger.Logger) *App {
	if log == nil {
		log = logger.NopLogger{}
	}
	if store == nil {
		store, _ = storage.NewStore("none", "", storage.Options{})
	}
	if fanout == nil {
		fanout = publishers.NewFanout(nil)
	}
	return &App{client: client, store: store, fanout: fanout, log: log}
}

func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(path) == "" {
		return publishers.NewFanout(nil), nil
	}

	reg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := reg.Enabled()
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, c := range enabled {
		summaries = append(summaries, map[string]string{"id": c.ID, "type": c.Type})
	}
	log.DebugObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubs), nil
}

func (a *App) apiClient() (Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client != nil {
		return a.client, nil
	}
	if a.newClient == nil {
		return nil, fmt.Errorf("app is not initialized")
	}
	client, err := a.newClient()
	if err != nil {
		return nil, err
	}
	a.client = client
	return client, nil
}

// Lookup runs one operation. The response is archived and published; failures
// there are logged and do not fail the lookup.
func (a *App) Lookup(ctx context.Context, l domain.Lookup) (*aboutme.Response, error) {
	if a == nil {
		return nil, fmt.Errorf("app is not initialized")
	}
	client, err := a.apiClient()
	if err != nil {
		return nil, err
	}

	resp, err := call(ctx, client, l)
	if err != nil {
		return nil, err
	}

	key := l.Key()
	if err := a.store.Put(key, resp.Raw); err != nil {
		a.log.WarnObj("snapshot write failed", "snapshot_error", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
	}

	if a.fanout.Size() > 0 {
		delivered, err := a.fanout.Publish(ctx, publishers.NewEvent(l, resp.Status, resp.Raw))
		if err != nil {
			a.log.ErrorObj("lookup publish failed", "publish_error", map[string]any{
				"key":       key,
				"delivered": delivered,
				"error":     err.Error(),
			})
		}
	}
	return resp, nil
}

func call(ctx context.Context, client Client, l domain.Lookup) (*aboutme.Response, error) {
	switch l.Operation {
	case domain.OpUserView:
		return client.UserView(ctx, l.Subject, l.Extended)
	case domain.OpUsersViewDirectory:
		return client.UsersViewDirectory(ctx, l.Subject, l.Extended)
	case domain.OpUsersViewRandom:
		return client.UsersViewRandom(ctx, l.Extended)
	case domain.OpPost:
		if strings.TrimSpace(l.Subject) == "" || strings.TrimSpace(l.Action) == "" {
			return nil, fmt.Errorf("post lookup needs an object type and an action")
		}
		return client.Post(ctx, l.Subject, l.Action, l.Object)
	default:
		return nil, fmt.Errorf("unknown lookup operation %q", l.Operation)
	}
}

// Snapshot returns the archived body for key.
func (a *App) Snapshot(key string) ([]byte, bool, error) {
	if a == nil || a.store == nil {
		return nil, false, fmt.Errorf("app is not initialized")
	}
	return a.store.Get(key)
}

// Close releases the archive and publishers.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	return errors.Join(a.fanout.Close(), a.store.Close())
}
