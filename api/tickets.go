package api

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/flightledger/internal/domain"
	"github.com/zvrva/flightledger/internal/ledger"
	"github.com/zvrva/flightledger/internal/vault"
)

type TicketHandler struct {
	service ledger.UseCase
	vault   vault.UseCase
}

type buyTicketRequest struct {
	// Payload is the passenger's ciphertext, base64 encoded. The ledger
	// stores it verbatim; it is never decrypted server side.
	Payload []byte `json:"payload"`
}

type cancelTicketResponse struct {
	Refund int64          `json:"refund"`
	Flight *domain.Flight `json:"flight"`
}

func NewTicketHandler(service ledger.UseCase, vault vault.UseCase) *TicketHandler {
	return &TicketHandler{service: service, vault: vault}
}

func (h *TicketHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.POST("/flights/:id/tickets", auth, h.buy)
	router.DELETE("/flights/:id/tickets", auth, h.cancel)
	router.GET("/flights/:id/tickets/payload", auth, h.payload)
}

func (h *TicketHandler) buy(c *gin.Context) {
	id, err := domain.ParseFlightID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var req buyTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.service.Apply(c.Request.Context(), caller(c), ledger.BuyTicket{
		FlightID:  id,
		Passenger: caller(c),
		Payload:   req.Payload,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res.Flight)
}

func (h *TicketHandler) cancel(c *gin.Context) {
	id, err := domain.ParseFlightID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := h.service.Apply(c.Request.Context(), caller(c), ledger.CancelTicket{
		FlightID:  id,
		Passenger: caller(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelTicketResponse{Refund: res.Refund, Flight: res.Flight})
}

// payload hands the caller back their own deposited ciphertext. Other
// passengers' payloads are unreachable through any query.
func (h *TicketHandler) payload(c *gin.Context) {
	id, err := domain.ParseFlightID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	payload, err := h.vault.Retrieve(c.Request.Context(), id, caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payload": base64.StdEncoding.EncodeToString(payload)})
}
