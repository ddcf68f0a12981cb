// Package api serves the sampled snapshots over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Handler answers the read API routes.
type Handler struct {
	reader  Reader
	cache   Cache
	metrics Metrics
	logger  *zap.Logger
}

// NewHandler wires a Handler. cache may be nil.
func NewHandler(reader Reader, cache Cache, metrics Metrics, logger *zap.Logger) (*Handler, error) {
	if reader == nil {
		return nil, errors.New("api reader is required")
	}
	if metrics == nil {
		return nil, errors.New("api metrics are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{reader: reader, cache: cache, metrics: metrics, logger: logger.Named("api")}, nil
}

// Router returns the gin engine wrapped with CORS.
func (h *Handler) Router() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), h.observe)

	router.GET("/health", h.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.GET("/blocks", h.listBlocks)
	v1.GET("/blocks/:hash", h.blockByHash)
	v1.GET("/transactions/:txid", h.transactionByTxID)
	v1.GET("/market", h.listMarket)
	v1.GET("/market/:hash", h.latestMarket)

	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}).Handler(router)
}

func (h *Handler) observe(c *gin.Context) {
	started := time.Now()
	c.Next()
	h.metrics.ObserveRequest(c.FullPath(), c.Writer.Status(), started)
}

func (h *Handler) health(c *gin.Context) {
	if err := h.reader.Ping(c.Request.Context()); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) listBlocks(c *gin.Context) {
	limit, ok := h.limit(c)
	if !ok {
		return
	}
	h.cachedList(c, fmt.Sprintf("blocks:%d", limit), func(ctx context.Context) (any, error) {
		return h.reader.ListBlocks(ctx, limit)
	})
}

func (h *Handler) blockByHash(c *gin.Context) {
	block, err := h.reader.BlockByHash(c.Request.Context(), c.Param("hash"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, block)
}

func (h *Handler) transactionByTxID(c *gin.Context) {
	tx, err := h.reader.TransactionByTxID(c.Request.Context(), c.Param("txid"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *Handler) listMarket(c *gin.Context) {
	limit, ok := h.limit(c)
	if !ok {
		return
	}
	h.cachedList(c, fmt.Sprintf("market:%d", limit), func(ctx context.Context) (any, error) {
		snapshots, err := h.reader.ListMarketSnapshots(ctx, limit)
		if err != nil {
			return nil, err
		}
		return newMarketViews(snapshots), nil
	})
}

func (h *Handler) latestMarket(c *gin.Context) {
	snapshot, err := h.reader.LatestMarketSnapshot(c.Request.Context(), c.Param("hash"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newMarketView(snapshot))
}

// limit parses ?limit= and answers 400 itself when it is out of range.
func (h *Handler) limit(c *gin.Context) (int, bool) {
	raw, present := c.GetQuery("limit")
	if !present {
		return DefaultLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > MaxLimit {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("limit must be an integer between 1 and %d", MaxLimit)})
		return 0, false
	}
	return limit, true
}

// cachedList serves key from the cache when possible and fills it otherwise.
// Cache failures are logged and never fail the request.
func (h *Handler) cachedList(c *gin.Context, key string, load func(ctx context.Context) (any, error)) {
	ctx := c.Request.Context()
	if h.cache != nil {
		body, hit, err := h.cache.Get(ctx, key)
		if err != nil {
			h.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		h.metrics.ObserveCache(hit)
		if hit {
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			return
		}
	}

	value, err := load(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	body, err := json.Marshal(value)
	if err != nil {
		h.fail(c, err)
		return
	}
	if h.cache != nil {
		if err := h.cache.Set(ctx, key, body); err != nil {
			h.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, failure.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.logger.Error("request failed", zap.String("route", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
