package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ds8/tip-allowance/internal/api/shared/dto"
	"github.com/ds8/tip-allowance/internal/domain"
	"github.com/ds8/tip-allowance/internal/logger"
	"github.com/ds8/tip-allowance/internal/raindrop"
	"github.com/ds8/tip-allowance/internal/stats"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// GetAllowance returns the allowance report of an identity
	// GET /api/v1/allowance/:fid
	GetAllowance(c *gin.Context)

	// GetRaindrop returns the raindrop balance of an identity
	// GET /api/v1/raindrop/:fid
	GetRaindrop(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /healthz
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	stats    stats.Service
	resolver stats.IdentityResolver
	raindrop raindrop.Service
	period   time.Duration
	timeout  time.Duration
}

// NewHandler creates a new REST API handler. raindropService may be nil when the feature is disabled.
func NewHandler(statsService stats.Service, resolver stats.IdentityResolver, raindropService raindrop.Service, period, timeout time.Duration) Handler {
	if timeout <= 0 {
		timeout = stats.DEFAULT_REQUEST_TIMEOUT
	}
	return &handler{
		stats:    statsService,
		resolver: resolver,
		raindrop: raindropService,
		period:   period,
		timeout:  timeout,
	}
}

// GetAllowance computes the report; upstream failures degrade fields, never the status
func (h *handler) GetAllowance(c *gin.Context) {
	fid, err := domain.ParseFID(c.Param("fid"))
	if err != nil {
		respondBadRequest(c, "Invalid fid", err.Error())
		return
	}

	result := h.stats.Report(c.Request.Context(), fid)
	window := domain.AllowanceWindow{
		Start: result.Report.WindowStart,
		End:   result.Report.WindowStart.Add(h.period),
	}

	c.JSON(http.StatusOK, dto.NewAllowanceResponse(result.Identity, result.Report, window))
}

// GetRaindrop computes the raindrop balance; unknown parts are null
func (h *handler) GetRaindrop(c *gin.Context) {
	fid, err := domain.ParseFID(c.Param("fid"))
	if err != nil {
		respondBadRequest(c, "Invalid fid", err.Error())
		return
	}

	if h.raindrop == nil {
		respondNotFound(c, "Raindrop balance is not enabled")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	response := dto.RaindropResponse{FID: uint64(fid)}

	identity, err := h.resolver.ResolveIdentity(ctx, fid)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to resolve identity for raindrop balance",
			zap.Uint64("fid", uint64(fid)),
			zap.Error(err),
		)
		c.JSON(http.StatusOK, response)
		return
	}

	balance := h.raindrop.Balance(ctx, fid, identity.Wallets)
	response.Total = balance.Total
	response.Remaining = balance.Remaining

	c.JSON(http.StatusOK, response)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
