package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pratodigital/checkout/internal/checkout"
	"github.com/pratodigital/checkout/internal/httpx"
	"github.com/pratodigital/checkout/internal/order"
	"github.com/pratodigital/checkout/internal/payment"
)

// checkoutHandler godoc
// @Summary  Submit a checkout attempt
// @Tags     checkout
// @Accept   json
// @Produce  json
// @Param    X-Tenant-ID  header  string            true   "Tenant"
// @Param    request      body    checkout.Request  true   "Checkout request"
// @Success  201  {object}  checkout.Result  "Order committed"
// @Success  202  {object}  checkout.Result  "Suspended on a payment session"
// @Failure  400  {object}  map[string]string
// @Failure  409  {object}  map[string]string
// @Failure  502  {object}  map[string]string
// @Router   /checkout [post]
func checkoutHandler(p *checkout.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkout.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		req.TenantID = httpx.TenantID(c)

		// Accepted but not deduplicated yet; logged for correlation.
		if key := c.GetHeader("Idempotency-Key"); key != "" {
			log.Printf("[http] checkout idempotency_key=%s tenant=%s", key, req.TenantID)
		}

		res, err := p.Run(c.Request.Context(), req)
		if err != nil {
			writeCheckoutError(c, err)
			return
		}
		if res.Suspended {
			c.JSON(http.StatusAccepted, res)
			return
		}
		c.JSON(http.StatusCreated, res)
	}
}

// confirmPaymentHandler godoc
// @Summary  Confirm a settled online payment and commit its order
// @Tags     checkout
// @Produce  json
// @Param    X-Tenant-ID  header  string  true  "Tenant"
// @Param    session_id   path    string  true  "Payment session id"
// @Success  201  {object}  checkout.Result
// @Failure  404  {object}  map[string]string
// @Failure  409  {object}  map[string]string
// @Failure  410  {object}  map[string]string
// @Router   /payments/{session_id}/confirm [post]
func confirmPaymentHandler(p *checkout.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := p.Confirm(c.Request.Context(), c.Param("session_id"))
		if err != nil {
			writeCheckoutError(c, err)
			return
		}
		c.JSON(http.StatusCreated, res)
	}
}

// getOrderHandler godoc
// @Summary  Fetch a committed order with its items
// @Tags     orders
// @Produce  json
// @Param    X-Tenant-ID  header  string  true  "Tenant"
// @Param    id           path    string  true  "Order id"
// @Success  200  {object}  map[string]any
// @Failure  404  {object}  map[string]string
// @Router   /orders/{id} [get]
func getOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, items, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil || o.TenantID != httpx.TenantID(c) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": o, "items": items})
	}
}

// writeCheckoutError maps the pipeline's error taxonomy onto HTTP statuses.
func writeCheckoutError(c *gin.Context, err error) {
	var (
		verr *checkout.ValidationError
		serr *checkout.StockError
		gerr *checkout.GatewayError
		cerr *checkout.CommitError
		ierr *checkout.InternalError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Reason})
	case errors.As(err, &serr):
		c.JSON(http.StatusConflict, gin.H{"error": serr.Reason})
	case errors.As(err, &gerr):
		c.JSON(http.StatusBadGateway, gin.H{"error": gerr.Error()})
	case errors.Is(err, payment.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, payment.ErrSessionExpired):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	case errors.Is(err, payment.ErrSessionConsumed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &cerr):
		log.Printf("[http] order commit failed: %v", errors.Unwrap(cerr))
		c.JSON(http.StatusInternalServerError, gin.H{"error": cerr.Error()})
	case errors.As(err, &ierr):
		log.Printf("[http] checkout resolution failed: %v", errors.Unwrap(ierr))
		c.JSON(http.StatusInternalServerError, gin.H{"error": ierr.Error()})
	default:
		log.Printf("[http] checkout failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
