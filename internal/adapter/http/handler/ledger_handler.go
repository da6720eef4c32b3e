package handler

import (
	"strconv"

	"multibank/internal/adapter/http/dto"
	"multibank/internal/core/ports"
	"multibank/pkg/apperror"
	"multibank/pkg/response"

	"github.com/gin-gonic/gin"
)

// LedgerHandler serves the append-only transaction history.
type LedgerHandler struct {
	ledgerSvc ports.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerSvc ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

// History handles GET /api/v1/cards/:id/transactions.
func (h *LedgerHandler) History(c *gin.Context) {
	cardID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || cardID <= 0 {
		response.Error(c, apperror.Validation("card id must be a positive integer"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	txns, total, err := h.ledgerSvc.History(c.Request.Context(), cardID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, dto.FromTransaction(&txns[i]))
	}

	response.OK(c, dto.HistoryResponse{
		Transactions: items,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
	})
}
