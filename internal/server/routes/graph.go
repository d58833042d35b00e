package routes

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jerusalem-70-ad/jad-builder/internal/server/middleware"
	"github.com/jerusalem-70-ad/jad-builder/pkg/logger"
	"github.com/jerusalem-70-ad/jad-builder/pkg/store"
)

// lookupGraph resolves the :id parameter, a numeric passage id or a
// jad_id, through the cache.
func lookupGraph(c echo.Context) (*store.StoredGraph, error) {
	app := c.(*middleware.AppContext).App
	key := cacheKey(c.Param("id"))

	if app.Cache != nil {
		if g, ok := app.Cache.Get(key); ok {
			if app.Metrics != nil {
				app.Metrics.CacheHits.Inc()
			}
			return g, nil
		}
		if app.Metrics != nil {
			app.Metrics.CacheMisses.Inc()
		}
	}

	g, err := fetchGraph(c.Request().Context(), app.Store, key)
	if err != nil {
		return nil, err
	}
	if app.Cache != nil {
		app.Cache.Add(key, g)
	}
	return g, nil
}

// cacheKey canonicalises numeric ids so "042" and "42" share an entry.
// Anything else is taken as a jad_id.
func cacheKey(param string) string {
	if id, err := strconv.Atoi(param); err == nil {
		return strconv.Itoa(id)
	}
	return param
}

func fetchGraph(ctx context.Context, s store.GraphStorage, key string) (*store.StoredGraph, error) {
	if id, err := strconv.Atoi(key); err == nil {
		return s.GetGraph(ctx, id)
	}
	return s.GetGraphByJadID(ctx, key)
}

func graphError(c echo.Context, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Passage not found"})
	}
	logger.Error("[Server] Failed to load graph", "id", c.Param("id"), "err", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}

// GetGraphHandler returns the transmission graph of one passage.
func GetGraphHandler(c echo.Context) error {
	g, err := lookupGraph(c)
	if err != nil {
		return graphError(c, err)
	}
	c.Response().Header().Set("X-Build-Id", g.BuildID)
	return c.JSON(http.StatusOK, g.Graph)
}
