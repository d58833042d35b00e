package middleware

import (
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/labstack/echo/v4"

	"github.com/jerusalem-70-ad/jad-builder/internal/queue"
	"github.com/jerusalem-70-ad/jad-builder/pkg/metrics"
	"github.com/jerusalem-70-ad/jad-builder/pkg/store"
)

// App carries the shared clients of the API. Queue, Cache and Metrics may
// be nil.
type App struct {
	Store   store.GraphStorage
	Queue   queue.Publisher
	Cache   *expirable.LRU[string, *store.StoredGraph]
	Metrics *metrics.Collector
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
