package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/flightledger/internal/domain"
	"github.com/zvrva/flightledger/internal/ledger"
)

type FlightHandler struct {
	service ledger.UseCase
}

type createFlightRequest struct {
	ID            string `json:"id" binding:"required"`
	MaxPassengers uint32 `json:"max_passengers"`
	Price         int64  `json:"price"`
	Src           string `json:"src" binding:"required"`
	Dest          string `json:"dest" binding:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func NewFlightHandler(service ledger.UseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("/flights", h.list)
	router.GET("/flights/:id", h.get)
	router.POST("/flights", auth, h.create)
	router.PATCH("/flights/:id/status", auth, h.updateStatus)
	router.GET("/my/flights", auth, h.listMine)
}

// list serves both the full listing and the exact-route search when the
// src and dest query parameters are present.
func (h *FlightHandler) list(c *gin.Context) {
	src, dest := c.Query("src"), c.Query("dest")

	var op ledger.Op = ledger.ListAll{}
	if src != "" || dest != "" {
		op = ledger.SearchByRoute{Src: src, Dest: dest}
	}
	res, err := h.service.Apply(c.Request.Context(), caller(c), op)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res.Flights)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := domain.ParseFlightID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := h.service.Apply(c.Request.Context(), caller(c), ledger.GetFlight{FlightID: id})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res.Flight)
}

func (h *FlightHandler) listMine(c *gin.Context) {
	res, err := h.service.Apply(c.Request.Context(), caller(c), ledger.ListForPassenger{Passenger: caller(c)})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res.Flights)
}

func (h *FlightHandler) create(c *gin.Context) {
	var req createFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := domain.ParseFlightID(req.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := h.service.Apply(c.Request.Context(), caller(c), ledger.CreateFlight{
		ID:            id,
		MaxPassengers: req.MaxPassengers,
		Price:         req.Price,
		Src:           req.Src,
		Dest:          req.Dest,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res.Flight)
}

func (h *FlightHandler) updateStatus(c *gin.Context) {
	id, err := domain.ParseFlightID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, err := domain.ParseFlightStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := h.service.Apply(c.Request.Context(), caller(c), ledger.UpdateFlightStatus{FlightID: id, NewStatus: status})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res.Flight)
}
