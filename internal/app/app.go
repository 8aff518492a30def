package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/samvad-hq/samvad-request/internal/config"
	"github.com/samvad-hq/samvad-request/internal/logger"
	"github.com/samvad-hq/samvad-request/internal/storage"
	"github.com/samvad-hq/samvad-request/pkg/httpclient"
	"github.com/samvad-hq/samvad-request/pkg/reporting"
	"github.com/samvad-hq/samvad-request/pkg/request"
)

// Call describes one outbound request issued through the App.
type Call struct {
	URL     string
	Method  string
	Body    any
	Headers map[string]string
	Timeout time.Duration
}

// App wires configuration, logging, the resty transport and the failure
// reporting pipeline around a request.Client.
type App struct {
	cfg    *config.Config
	client *request.Client
	fanout *reporting.Fanout
	store  storage.Store
	log    logger.Logger
}

// New builds the runtime. A nil sugar logger disables logging.
func New(ctx context.Context, cfg *config.Config, sugar *zap.SugaredLogger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if sugar == nil {
		sugar = zap.NewNop().Sugar()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.New(sugar)

	a := &App{cfg: cfg, log: log}
	opts := []request.ClientOption{request.WithLogger(log)}

	dispatcher, err := a.initReporting(ctx)
	if err != nil {
		return nil, err
	}
	if dispatcher != nil {
		opts = append(opts, request.WithObserver(dispatcher))
	}

	transport := httpclient.NewRestyTransport(cfg.RequestTimeout, sugar)
	a.client = request.NewClient(transport, opts...)

	log.InfoObj("request client ready", "client_config", map[string]any{
		"timeout_seconds": int(cfg.RequestTimeout.Seconds()),
		"user_agent":      cfg.UserAgent,
		"reporters":       a.fanout.Size(),
	})
	return a, nil
}

// initReporting loads reporters and the dedupe store. It returns a nil
// dispatcher when no reporters file is configured.
func (a *App) initReporting(ctx context.Context) (*reporting.Dispatcher, error) {
	if strings.TrimSpace(a.cfg.ReportersFile) == "" {
		a.log.DebugObj("failure reporting disabled", "reporters_file", "")
		return nil, nil
	}

	reg, err := reporting.LoadConfig(a.cfg.ReportersFile)
	if err != nil {
		return nil, fmt.Errorf("load reporters registry: %w", err)
	}

	enabled := reg.Enabled()
	if len(enabled) == 0 {
		a.log.WarnObj("no reporters enabled; failures will only be logged", "reporters_file", a.cfg.ReportersFile)
		return nil, nil
	}

	sinks, err := reporting.BuildAll(ctx, reporting.DefaultRegistry(), enabled, a.log)
	if err != nil {
		return nil, fmt.Errorf("build reporters: %w", err)
	}
	a.fanout = reporting.NewFanout(sinks)

	summaries := make([]map[string]string, 0, len(enabled))
	for _, cfg := range enabled {
		summaries = append(summaries, map[string]string{"id": cfg.ID, "type": cfg.Type})
	}
	a.log.InfoObj("reporters registry loaded", "reporters_meta", map[string]any{
		"count":     len(summaries),
		"reporters": summaries,
	})

	store, err := storage.NewStore(a.cfg.StorageType, a.cfg.BBoltPath, storage.Options{
		ReportTTL:       a.cfg.StorageTTL,
		CleanupInterval: a.cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = a.fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	a.store = store
	a.log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     a.cfg.StorageType,
		"path":                     a.cfg.BBoltPath,
		"report_ttl_seconds":       int(a.cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(a.cfg.StorageCleanupInterval.Seconds()),
	})

	return reporting.NewDispatcher(a.fanout, store, a.log), nil
}

// Client exposes the configured request client.
func (a *App) Client() *request.Client { return a.client }

// Execute issues call, adding the configured User-Agent unless the caller set one.
func (a *App) Execute(ctx context.Context, call Call) (request.Result, error) {
	if a == nil || a.client == nil {
		return request.Result{}, fmt.Errorf("app is not initialized")
	}

	headers := make(map[string]string, len(call.Headers)+1)
	hasUA := false
	for k, v := range call.Headers {
		headers[k] = v
		if strings.EqualFold(k, "User-Agent") {
			hasUA = true
		}
	}
	if !hasUA && a.cfg.UserAgent != "" {
		headers["User-Agent"] = a.cfg.UserAgent
	}

	return a.client.Do(ctx, call.URL, call.Method, call.Body, request.Options{
		Headers: headers,
		Timeout: call.Timeout,
	})
}

// Close releases reporters and the storage backend.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	if err := a.fanout.Close(); err != nil {
		errs = append(errs, err)
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.ErrorObj("storage close failed", "error", err)
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	return errors.Join(errs...)
}
