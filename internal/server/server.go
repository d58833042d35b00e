// Package server is the read API over stored transmission graphs.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	mid "github.com/jerusalem-70-ad/jad-builder/internal/server/middleware"
	"github.com/jerusalem-70-ad/jad-builder/pkg/logger"
	"github.com/jerusalem-70-ad/jad-builder/pkg/store"
)

// CacheTTL bounds how long a graph is served from memory after a rebuild.
const CacheTTL = 5 * time.Minute

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// NewGraphCache returns an LRU of stored graphs keyed by route id.
func NewGraphCache(size int) *expirable.LRU[string, *store.StoredGraph] {
	return expirable.NewLRU[string, *store.StoredGraph](size, nil, CacheTTL)
}

type Params struct {
	App    *mid.App
	APIKey string
}

// New builds the echo instance with every route registered.
func New(params Params) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(mid.AppContextMiddleware(params.App))
	if params.App.Metrics != nil {
		e.Use(mid.MetricsMiddleware(params.App.Metrics))
	}
	e.Use(echomw.CORS())
	e.Use(echomw.RequestLogger())
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit("1M"))

	RegisterRoutes(e, params.App, params.APIKey)
	return e
}

// Run serves e on port until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, e *echo.Echo, port int) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + strconv.Itoa(port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
		return err
	}
	return nil
}
