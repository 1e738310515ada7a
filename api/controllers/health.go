package controllers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/petcareclinic/petcare-backend/api/responses"
	"github.com/petcareclinic/petcare-backend/pkg/config"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is satisfied by the database and redis clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Petcare-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every dependency and reports each one's state.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Petcare-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var (
			mu     sync.Mutex
			g      errgroup.Group
			errs   error
			checks = make(map[string]string, len(deps))
		)
		for name, dep := range deps {
			if dep == nil {
				mu.Lock()
				checks[name] = "skipped"
				mu.Unlock()
				continue
			}
			g.Go(func() error {
				err := dep.Ping(ctx)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					checks[name] = "down"
					errs = multierr.Append(errs, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
					return nil
				}
				checks[name] = "up"
				return nil
			})
		}
		_ = g.Wait()

		if errs != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "not ready").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
