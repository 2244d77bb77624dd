package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/kduhealth/medportal/internal/config"
	"github.com/kduhealth/medportal/internal/events"
	"github.com/kduhealth/medportal/internal/flags"
	"github.com/kduhealth/medportal/internal/infrastructure/sqlite"
	"github.com/kduhealth/medportal/internal/log"
	"github.com/kduhealth/medportal/internal/metrics"
	"github.com/kduhealth/medportal/internal/profiles"
	"github.com/kduhealth/medportal/internal/registration"
	"github.com/kduhealth/medportal/internal/tracing"
)

// runtime holds the collaborators built from a loaded config. Every command
// opens one and closes it on exit.
type runtime struct {
	cfg      config.Config
	flags    *flags.Registry
	db       *sqlite.DB
	tracing  *tracing.Provider
	metrics  *metrics.Registration
	broker   *events.Broker
	nats     *events.NATSPublisher
	profiles *profiles.Directory
}

func openRuntime(ctx context.Context, cfg config.Config, opts ...sqlite.Option) (*runtime, error) {
	rt := &runtime{
		cfg:     cfg,
		flags:   flags.New(cfg.Flags),
		metrics: metrics.New(),
		broker:  events.NewBroker(),
	}

	db, err := sqlite.NewDB(cfg.Storage.Path, opts...)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	rt.db = db

	provider, err := tracing.NewProvider(ctx, cfg.Tracing)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("starting tracing: %w", err)
	}
	rt.tracing = provider

	if rt.flags.Enabled(flags.FlagRegistrationEvents) && cfg.Events.NATSURL != "" {
		pub, err := events.DialNATS(cfg.Events.NATSURL, cfg.Events.Subject)
		if err != nil {
			_ = rt.Close(ctx)
			return nil, err
		}
		rt.nats = pub
	}

	if cfg.Metrics.Listen != "" {
		go func() {
			if err := rt.metrics.Serve(ctx, cfg.Metrics.Listen); err != nil {
				log.ErrorErr(log.CatMetrics, "metrics endpoint stopped", err, "addr", cfg.Metrics.Listen)
			}
		}()
	}

	rt.profiles = profiles.NewDirectory(db.Documents(), cfg.Cache.ProfileTTL)
	return rt, nil
}

// publisher returns the event sinks enabled by flags and config.
func (rt *runtime) publisher() registration.EventPublisher {
	if !rt.flags.Enabled(flags.FlagRegistrationEvents) {
		return nil
	}
	sinks := events.Fanout{events.NewBrokerPublisher(rt.broker)}
	if rt.nats != nil {
		sinks = append(sinks, rt.nats)
	}
	return sinks
}

// newService builds a registration service backed by the local database.
func (rt *runtime) newService() *registration.Service {
	return registration.NewService(registration.Deps{
		Identity: rt.db.Identities(),
		Store:    rt.db.Documents(),
		Tracer:   rt.tracing.Tracer(),
		Metrics:  rt.metrics,
		Events:   rt.publisher(),
		Domain:   rt.cfg.Institution.EmailDomain,
	})
}

func (rt *runtime) reconciler() *registration.Reconciler {
	return registration.NewReconciler(rt.db.Identities(), rt.db.Documents(), nil)
}

// Close releases everything openRuntime acquired.
func (rt *runtime) Close(ctx context.Context) error {
	var errs []error
	if rt.nats != nil {
		rt.nats.Close()
	}
	rt.broker.Close()
	if rt.tracing != nil {
		if err := rt.tracing.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flushing traces: %w", err))
		}
	}
	if rt.db != nil {
		if err := rt.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing database: %w", err))
		}
	}
	return errors.Join(errs...)
}
