package main

import (
	"context"
	"fmt"

	"github.com/freshkart/storefront-go/internal/address"
	"github.com/freshkart/storefront-go/internal/cart"
	"github.com/freshkart/storefront-go/internal/catalog"
	"github.com/freshkart/storefront-go/internal/checkout"
	"github.com/freshkart/storefront-go/internal/orders"
	"github.com/freshkart/storefront-go/internal/session"
	"github.com/freshkart/storefront-go/pkg/api"
	"github.com/freshkart/storefront-go/pkg/config"
	"github.com/freshkart/storefront-go/pkg/logger"
	"github.com/freshkart/storefront-go/pkg/metrics"
	redisclient "github.com/freshkart/storefront-go/pkg/redis"
	"github.com/freshkart/storefront-go/pkg/state"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// app holds the wired client stack shared by every command.
type app struct {
	cfg       *config.Config
	logg      *logger.Logger
	store     state.Store
	client    *api.Client
	session   *session.Manager
	cart      *cart.Synchronizer
	catalog   catalog.Service
	addresses address.Service
	orders    orders.Service
	policy    checkout.Policy

	closers []func() error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logg := logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	a := &app{cfg: cfg, logg: logg}

	if err := a.buildStore(ctx); err != nil {
		return nil, err
	}

	// The token source closes over the manager assigned below; until then the
	// client sends unauthenticated requests.
	tokens := api.TokenSourceFunc(func() string {
		if a.session == nil {
			return ""
		}
		return a.session.Token()
	})

	apiMetrics := metrics.NewAPIMetrics(prometheus.NewRegistry())
	client, err := api.NewClient(cfg.API, tokens, logg, api.WithMetrics(apiMetrics))
	if err != nil {
		return nil, err
	}
	a.client = client

	// A CLI process exits before any proactive refresh would fire.
	mgr, err := session.NewManager(client, a.store, logg, session.WithAutoRefresh(false))
	if err != nil {
		return nil, err
	}
	a.session = mgr

	sync, err := cart.NewSynchronizer(client, mgr, logg)
	if err != nil {
		return nil, err
	}
	a.cart = sync

	if a.catalog, err = catalog.NewService(client, logg); err != nil {
		return nil, err
	}
	if a.addresses, err = address.NewService(client, logg); err != nil {
		return nil, err
	}
	if a.orders, err = orders.NewService(client, mgr, logg); err != nil {
		return nil, err
	}

	if a.policy, err = shippingPolicy(cfg.Shipping); err != nil {
		return nil, err
	}

	if err := mgr.Initialize(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) buildStore(ctx context.Context) error {
	switch a.cfg.State.NormalizedBackend() {
	case config.StateBackendRedis:
		client, err := redisclient.New(ctx, a.cfg.Redis)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, client.Close)
		store, err := state.NewRedisStore(client)
		if err != nil {
			return err
		}
		a.store = store
	default:
		store, err := state.NewSQLiteStore(a.cfg.State.SQLitePath)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, store.Close)
		a.store = store
	}
	return nil
}

func (a *app) close() error {
	var firstErr error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func shippingPolicy(cfg config.ShippingConfig) (checkout.Policy, error) {
	threshold, err := decimal.NewFromString(cfg.FreeThreshold)
	if err != nil {
		return checkout.Policy{}, fmt.Errorf("parsing shipping free threshold: %w", err)
	}
	fee, err := decimal.NewFromString(cfg.FlatFee)
	if err != nil {
		return checkout.Policy{}, fmt.Errorf("parsing shipping flat fee: %w", err)
	}
	return checkout.Policy{FreeShippingThreshold: threshold, FlatFee: fee}, nil
}
