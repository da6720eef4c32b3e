package handler

import (
	"io"

	"multibank/internal/adapter/http/dto"
	"multibank/internal/core/ports"
	"multibank/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RatesHandler serves the latest exchange-rate snapshot and the push-style
// snapshot stream.
type RatesHandler struct {
	rates      ports.RateProvider
	subscriber ports.RateSubscriber
	log        zerolog.Logger
}

// NewRatesHandler creates a new RatesHandler.
func NewRatesHandler(rates ports.RateProvider, subscriber ports.RateSubscriber, log zerolog.Logger) *RatesHandler {
	return &RatesHandler{rates: rates, subscriber: subscriber, log: log}
}

// Latest handles GET /api/v1/rates.
func (h *RatesHandler) Latest(c *gin.Context) {
	rate, err := h.rates.Latest(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromRate(rate))
}

// Stream handles GET /api/v1/rates/stream: server-sent events carrying the
// current snapshot immediately, then every refresh until the client leaves.
func (h *RatesHandler) Stream(c *gin.Context) {
	snapshots, cancel, err := h.subscriber.Subscribe(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case rate, ok := <-snapshots:
			if !ok {
				return false
			}
			c.SSEvent("rates", dto.FromRate(&rate))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
