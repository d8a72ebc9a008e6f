// Package api exposes the attendance ledger over HTTP. Handlers are a thin
// request/response mapping; all invariants live in the ledger.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kada-dev/kada-commute/internal/ledger"
	"github.com/kada-dev/kada-commute/internal/notify"
	"github.com/kada-dev/kada-commute/pkg/schema"
)

// Ledger is the attendance surface the handlers call. Both *ledger.Ledger
// and *ledger.Serialized satisfy it; the daemon wires the serialized one.
type Ledger interface {
	FindEmployee(ctx context.Context, name string) (schema.Employee, error)
	CheckIn(ctx context.Context, emp schema.Employee, opts ledger.CheckOptions) (schema.Record, error)
	CheckOut(ctx context.Context, emp schema.Employee, opts ledger.CheckOptions) (string, error)
	UpdateRecord(ctx context.Context, employeeID, date, checkin, checkout string) error
	DeleteRecord(ctx context.Context, employeeID, date string) error
	EmployeeHistory(ctx context.Context, employeeID string) ([]schema.Record, error)
}

// Handler holds the wiring for the HTTP surface.
type Handler struct {
	Ledger Ledger
	Logs   *notify.Broadcaster
	// Timeout bounds each ledger operation; zero means no bound.
	Timeout time.Duration
}

// Routes registers every endpoint under /api.
func (h *Handler) Routes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/login", h.Login)
		api.POST("/check-in", h.CheckIn)
		api.POST("/check-out", h.CheckOut)
		api.GET("/history/:employee_id", h.History)
		api.PUT("/record", h.UpdateRecord)
		api.DELETE("/record", h.DeleteRecord)
		api.GET("/stream-logs", h.StreamLogs)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req schema.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	emp, err := h.Ledger.FindEmployee(ctx, req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, emp)
}

func (h *Handler) CheckIn(c *gin.Context) {
	var req schema.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	emp := schema.Employee{ID: req.EmployeeID, Name: req.Name, Location: req.Location}
	if _, err := h.Ledger.CheckIn(ctx, emp, ledger.CheckOptions{Time: req.Time, Date: req.Date}); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, schema.StatusResponse{Status: "success", Message: "Check-in successful"})
}

func (h *Handler) CheckOut(c *gin.Context) {
	var req schema.CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	emp := schema.Employee{ID: req.EmployeeID, Name: req.Name}
	if _, err := h.Ledger.CheckOut(ctx, emp, ledger.CheckOptions{Time: req.Time, Date: req.Date}); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, schema.StatusResponse{Status: "success", Message: "Check-out successful"})
}

func (h *Handler) History(c *gin.Context) {
	ctx, cancel := h.opCtx(c)
	defer cancel()

	records, err := h.Ledger.EmployeeHistory(ctx, c.Param("employee_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) UpdateRecord(c *gin.Context) {
	var req schema.UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var checkin, checkout string
	switch req.Field {
	case "checkin":
		checkin = req.Value
	case "checkout":
		checkout = req.Value
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	if err := h.Ledger.UpdateRecord(ctx, req.EmployeeID, req.Date, checkin, checkout); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, schema.StatusResponse{Status: "success", Message: "Record updated"})
}

func (h *Handler) DeleteRecord(c *gin.Context) {
	var req schema.DeleteRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	if err := h.Ledger.DeleteRecord(ctx, req.EmployeeID, req.Date); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, schema.StatusResponse{Status: "success", Message: "Record deleted"})
}

// StreamLogs streams broadcaster lines as server-sent events until the
// client goes away.
func (h *Handler) StreamLogs(c *gin.Context) {
	if h.Logs == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "log streaming disabled"})
		return
	}

	lines, cancel := h.Logs.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-lines:
			if !ok {
				return false
			}
			c.SSEvent("message", msg)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *Handler) opCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.Timeout <= 0 {
		return c.Request.Context(), func() {}
	}
	return context.WithTimeout(c.Request.Context(), h.Timeout)
}

// fail translates ledger errors into status codes: missing things are 404,
// bad input is 400, a malformed or absent backing partition is 409, a store
// deadline is 504, everything else is 500.
func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrEmployeeNotFound),
		errors.Is(err, ledger.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidDate),
		errors.Is(err, ledger.ErrNoFieldsToUpdate):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrPartitionNotFound),
		errors.Is(err, ledger.ErrEmptyPartition),
		errors.Is(err, ledger.ErrSchemaMismatch):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrStoreTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
