package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mensbreakfast/breakfast-backend/internal/auth"
	"github.com/mensbreakfast/breakfast-backend/internal/finance/domain"
	"github.com/mensbreakfast/breakfast-backend/internal/finance/service"
	"github.com/mensbreakfast/breakfast-backend/internal/logging"
)

type Handler struct {
	svc *service.FinanceService
}

func New(svc *service.FinanceService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/finance")
	g.POST("/transactions", h.AddTransaction)
	g.GET("/transactions", h.ListTransactions)
	g.GET("/summary", h.Summary)
	g.GET("/options", h.Options)
}

type addTransactionRequest struct {
	Type          string       `json:"type"`
	Amount        domain.Money `json:"amount"`
	Category      string       `json:"category"`
	PaymentMethod string       `json:"payment_method"`
	Description   string       `json:"description"`
}

func (h *Handler) AddTransaction(c *gin.Context) {
	var body addTransactionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body", "details": err.Error()})
		return
	}

	tx, err := h.svc.AddTransaction(c.Request.Context(), auth.UserFirebaseUID(c), domain.CreateTransactionRequest{
		Type:          domain.TransactionType(body.Type),
		Amount:        body.Amount,
		Category:      body.Category,
		PaymentMethod: body.PaymentMethod,
		Description:   body.Description,
	})
	if err != nil {
		writeError(c, "add_transaction", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

func (h *Handler) ListTransactions(c *gin.Context) {
	txs, err := h.svc.ListTransactions(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		writeError(c, "list_transactions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

func (h *Handler) Summary(c *gin.Context) {
	sum, err := h.svc.Summary(c.Request.Context(), auth.UserFirebaseUID(c), c.Query("tz"))
	if err != nil {
		writeError(c, "finance_summary", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_income":  sum.TotalIncome,
		"total_expense": sum.TotalExpense,
		"net_balance":   sum.NetBalance,
		"day_groups":    sum.DayGroups,
		"empty":         len(sum.DayGroups) == 0,
	})
}

func (h *Handler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"types":           domain.Types,
		"categories":      domain.Categories,
		"payment_methods": domain.PaymentMethods,
	})
}

func writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrMissingCategory),
		errors.Is(err, domain.ErrInvalidType),
		errors.Is(err, domain.ErrInvalidMethod),
		errors.Is(err, domain.ErrInvalidTimezone):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logging.New(c.Request.Context()).Error(op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
