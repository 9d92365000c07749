package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/zvrva/flightledger/internal/domain"
	"github.com/zvrva/flightledger/internal/ledger"
)

// MockLedger is a mock implementation of ledger.UseCase
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Apply(ctx context.Context, caller domain.Identity, op ledger.Op) (*ledger.Result, error) {
	args := m.Called(ctx, caller, op)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Result), args.Error(1)
}

func testID() (domain.FlightID, string) {
	hex := strings.Repeat("ab", 32)
	id, _ := domain.ParseFlightID(hex)
	return id, hex
}

func TestFlightHandler_get(t *testing.T) {
	mockService := &MockLedger{}
	handler := NewFlightHandler(mockService)

	id, hex := testID()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: hex}}
	c.Request = httptest.NewRequest("GET", "/v1/flights/"+hex, nil)

	flight := &domain.Flight{ID: id, MaxPassengers: 100, Price: 5000, Src: "SVO", Dest: "LED", Status: domain.StatusBooking}
	mockService.On("Apply", c.Request.Context(), domain.Identity(""), ledger.GetFlight{FlightID: id}).
		Return(&ledger.Result{Flight: flight}, nil)

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_get_NotFound(t *testing.T) {
	mockService := &MockLedger{}
	handler := NewFlightHandler(mockService)

	id, hex := testID()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: hex}}
	c.Request = httptest.NewRequest("GET", "/v1/flights/"+hex, nil)

	mockService.On("Apply", c.Request.Context(), domain.Identity(""), ledger.GetFlight{FlightID: id}).
		Return(nil, domain.ErrNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_get_BadID(t *testing.T) {
	mockService := &MockLedger{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "zz"}}
	c.Request = httptest.NewRequest("GET", "/v1/flights/zz", nil)

	handler.get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_list_All(t *testing.T) {
	mockService := &MockLedger{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/v1/flights", nil)

	flights := []domain.Flight{{Src: "SVO", Dest: "LED"}}
	mockService.On("Apply", c.Request.Context(), domain.Identity(""), ledger.ListAll{}).
		Return(&ledger.Result{Flights: flights}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_list_RouteSearch(t *testing.T) {
	mockService := &MockLedger{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/v1/flights?src=SVO&dest=LED", nil)

	flights := []domain.Flight{{Src: "SVO", Dest: "LED"}}
	mockService.On("Apply", c.Request.Context(), domain.Identity(""), ledger.SearchByRoute{Src: "SVO", Dest: "LED"}).
		Return(&ledger.Result{Flights: flights}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_create(t *testing.T) {
	mockService := &MockLedger{}
	handler := NewFlightHandler(mockService)

	id, hex := testID()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"id":"` + hex + `","max_passengers":100,"price":250,"src":"SVO","dest":"LED"}`
	c.Request = httptest.NewRequest("POST", "/v1/flights", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(identityKey, domain.Identity("admin"))

	op := ledger.CreateFlight{ID: id, MaxPassengers: 100, Price: 250, Src: "SVO", Dest: "LED"}
	flight := &domain.Flight{ID: id, AdminOwner: "admin", MaxPassengers: 100, Price: 250, Src: "SVO", Dest: "LED", Status: domain.StatusBooking}
	mockService.On("Apply", c.Request.Context(), domain.Identity("admin"), op).
		Return(&ledger.Result{Flight: flight}, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_updateStatus(t *testing.T) {
	mockService := &MockLedger{}
	handler := NewFlightHandler(mockService)

	id, hex := testID()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: hex}}
	c.Request = httptest.NewRequest("PATCH", "/v1/flights/"+hex+"/status", strings.NewReader(`{"status":"TAKEOFF"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(identityKey, domain.Identity("admin"))

	op := ledger.UpdateFlightStatus{FlightID: id, NewStatus: domain.StatusTakeoff}
	flight := &domain.Flight{ID: id, AdminOwner: "admin", Status: domain.StatusTakeoff}
	mockService.On("Apply", c.Request.Context(), domain.Identity("admin"), op).
		Return(&ledger.Result{Flight: flight}, nil)

	handler.updateStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_updateStatus_InvalidTransition(t *testing.T) {
	mockService := &MockLedger{}
	handler := NewFlightHandler(mockService)

	id, hex := testID()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: hex}}
	c.Request = httptest.NewRequest("PATCH", "/v1/flights/"+hex+"/status", strings.NewReader(`{"status":"CANCELLED"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(identityKey, domain.Identity("admin"))

	op := ledger.UpdateFlightStatus{FlightID: id, NewStatus: domain.StatusCancelled}
	mockService.On("Apply", c.Request.Context(), domain.Identity("admin"), op).
		Return(nil, domain.ErrInvalidTransition)

	handler.updateStatus(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}
