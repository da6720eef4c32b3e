package handler

import (
	"multibank/internal/adapter/http/dto"
	"multibank/internal/core/domain"
	"multibank/internal/core/ports"
	"multibank/pkg/apperror"
	"multibank/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransferHandler handles transfer endpoints. Ownership of the source card
// is verified by the fronting authentication layer before requests land here.
type TransferHandler struct {
	transferSvc ports.TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferSvc ports.TransferService) *TransferHandler {
	return &TransferHandler{transferSvc: transferSvc}
}

// Transfer handles POST /api/v1/transfers.
func (h *TransferHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	var asset domain.Asset
	if req.Asset != "" {
		asset, err = domain.ParseAsset(req.Asset)
		if err != nil {
			response.Error(c, apperror.ErrInvalidAsset(req.Asset))
			return
		}
	}

	txn, err := h.transferSvc.Transfer(c.Request.Context(), ports.TransferRequest{
		FromCardID:  req.FromCardID,
		Destination: req.Destination,
		Amount:      amount,
		SourceAsset: asset,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.FromTransaction(txn))
}
