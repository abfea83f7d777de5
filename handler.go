package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"lg/nutrition-go-api/config"
	"lg/nutrition-go-api/nutrition"
)

// dbPool is the subset of *pgxpool.Pool the handlers use. Tests substitute a
// pgxmock pool.
type dbPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// Handler holds shared dependencies for all route handlers.
type Handler struct {
	db         dbPool
	engine     *nutrition.Engine
	cache      resultCache
	metrics    *metrics
	projection config.ProjectionConfig
	now        func() time.Time // overridable for tests
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
// args is either a single pgx.NamedArgs or positional values from squirrel.
func queryOne[T any](db dbPool, ctx context.Context, sql string, args ...any) (T, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](db dbPool, ctx context.Context, sql string, args ...any) ([]T, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// newDBPool creates a connection pool and pings it. We use a pool (not a
// single conn) because managed Postgres closes idle connections.
func newDBPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse DB URL: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	if cfg.SimpleProtocol {
		// Avoids "cached plan must not change result type" after schema changes.
		poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.GET("/healthz", h.healthz)
	router.POST("/api/login", h.login)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.GET("/profile", h.getProfile)
	api.PUT("/profile", h.putProfile)
	api.POST("/nutrition/calculate", h.calculate)
	api.GET("/nutrition/projection", h.getProjection)
	api.GET("/history", h.listHistory)
	api.POST("/history", h.createHistoryEntry)
	api.DELETE("/history/:id", h.deleteHistoryEntry)
	api.GET("/history/comparison", h.getHistoryComparison)
	api.GET("/history/projection", h.getHistoryProjection)
	api.GET("/goals", h.getGoals)
	api.PUT("/goals", h.putGoals)
	api.GET("/meal-log/daily", h.getDailyMealLog)
	api.GET("/meal-log/week-summary", h.getMealLogWeek)
	api.GET("/meal-log/progress", h.getMealLogProgress)
	api.POST("/meal-log/items", h.createMealLogItem)
	api.PUT("/meal-log/items/:id", h.updateMealLogItem)
	api.DELETE("/meal-log/items/:id", h.deleteMealLogItem)
	api.PUT("/meal-log/water", h.putWater)
	api.GET("/meal-log/template", h.getMealTemplate)
	api.PUT("/meal-log/template", h.putMealTemplate)
	api.POST("/meal-log/template/apply", h.applyMealTemplate)
}

// healthz reports whether the database is reachable.
// GET /healthz (public).
func (h *Handler) healthz(c *gin.Context) {
	if err := h.db.Ping(c); err != nil {
		log.WithError(err).Warn("[healthz] database ping failed")
		apiError(c, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
