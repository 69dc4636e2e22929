package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sohan0019/PlantNet/middleware"
	"github.com/sohan0019/PlantNet/models"
	"github.com/sohan0019/PlantNet/repository"
	"github.com/sohan0019/PlantNet/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ---- fakes over the service interfaces ----

type fakePlantStore struct {
	plant *models.Plant
}

func (f *fakePlantStore) FindByID(_ context.Context, id string) (*models.Plant, error) {
	if f.plant != nil && f.plant.ID.Hex() == id {
		cp := *f.plant
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakePlantStore) DecrementQuantity(_ context.Context, id string, quantity int) error {
	if f.plant == nil || f.plant.ID.Hex() != id {
		return repository.ErrNotFound
	}
	if f.plant.Quantity < quantity {
		return repository.ErrInsufficientStock
	}
	f.plant.Quantity -= quantity
	return nil
}

type fakeOrderStore struct {
	orders map[string]*models.Order
}

func (f *fakeOrderStore) Insert(_ context.Context, order *models.Order) (string, error) {
	if _, ok := f.orders[order.TransactionID]; ok {
		return "", repository.ErrDuplicateTransaction
	}
	cp := *order
	cp.ID = primitive.NewObjectID()
	cp.CreatedAt = time.Now().UTC()
	f.orders[order.TransactionID] = &cp
	return cp.ID.Hex(), nil
}

func (f *fakeOrderStore) FindByTransactionID(_ context.Context, transactionID string) (*models.Order, error) {
	o, ok := f.orders[transactionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderStore) MarkStockAdjusted(_ context.Context, transactionID string) error {
	if o, ok := f.orders[transactionID]; ok {
		o.StockAdjusted = true
		return nil
	}
	return repository.ErrNotFound
}

type fakeGateway struct {
	sessions map[string]*models.CheckoutSession
	created  int
}

func (f *fakeGateway) CreateCheckoutSession(_ context.Context, plant *models.Plant, quantity int, customer models.Customer) (*models.CheckoutSessionRef, error) {
	f.created++
	id := fmt.Sprintf("cs_%d", f.created)
	f.sessions[id] = &models.CheckoutSession{
		SessionID:       id,
		PaymentIntentID: "pi_" + id,
		PaymentStatus:   models.SessionStatusPaid,
		AmountTotal:     int64(plant.Price*100) * int64(quantity),
		Metadata: map[string]string{
			models.MetaPlantID:       plant.ID.Hex(),
			models.MetaCustomerEmail: customer.Email,
			models.MetaCustomerName:  customer.Name,
			models.MetaQuantity:      strconv.Itoa(quantity),
		},
	}
	return &models.CheckoutSessionRef{SessionID: id, URL: "https://checkout.example/" + id}, nil
}

func (f *fakeGateway) RetrieveSession(_ context.Context, sessionID string) (*models.CheckoutSession, error) {
	sess, ok := f.sessions[sessionID]
	if !ok {
		return nil, services.ErrSessionNotFound
	}
	cp := *sess
	return &cp, nil
}

// ---- setup ----

func checkoutTestRouter(cc *CheckoutController) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// Stand-in for the auth middleware.
	withEmail := func(c *gin.Context) {
		c.Set(middleware.EmailKey, "alice@example.com")
		c.Next()
	}
	r.POST("/create-checkout-session", withEmail, cc.CreateCheckoutSession)
	r.POST("/payment-success", withEmail, cc.PaymentSuccess)
	return r
}

func newCheckoutFixture(quantity int, price float64) (*CheckoutController, *fakePlantStore, *fakeOrderStore, *fakeGateway) {
	plants := &fakePlantStore{plant: &models.Plant{
		ID:       primitive.NewObjectID(),
		Name:     "Snake Plant",
		Category: "Indoor",
		Price:    price,
		Quantity: quantity,
		Seller:   models.Seller{Name: "Green Roots", Email: "seller@example.com"},
	}}
	orders := &fakeOrderStore{orders: make(map[string]*models.Order)}
	gw := &fakeGateway{sessions: make(map[string]*models.CheckoutSession)}
	svc := services.NewCheckoutService(plants, orders, gw, nil, zap.NewNop())
	cc := &CheckoutController{Service: svc, Logger: zap.NewNop()}
	return cc, plants, orders, gw
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

// ---- tests ----

func TestCreateCheckoutSession_ReturnsURL(t *testing.T) {
	cc, plants, _, _ := newCheckoutFixture(5, 12.50)
	r := checkoutTestRouter(cc)

	body := fmt.Sprintf(`{"plant_id":%q,"quantity":2,"name":"Alice"}`, plants.plant.ID.Hex())
	w := postJSON(r, "/create-checkout-session", body)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["url"])
	assert.NotEmpty(t, resp["session_id"])
}

func TestCreateCheckoutSession_BadPayload(t *testing.T) {
	cc, _, _, _ := newCheckoutFixture(5, 12.50)
	r := checkoutTestRouter(cc)

	w := postJSON(r, "/create-checkout-session", `{"quantity":0}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCheckoutSession_InsufficientStock(t *testing.T) {
	cc, plants, _, _ := newCheckoutFixture(1, 12.50)
	r := checkoutTestRouter(cc)

	body := fmt.Sprintf(`{"plant_id":%q,"quantity":2}`, plants.plant.ID.Hex())
	w := postJSON(r, "/create-checkout-session", body)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPaymentSuccess_SettlesAndRepeatsIdempotently(t *testing.T) {
	cc, plants, orders, _ := newCheckoutFixture(5, 10.00)
	r := checkoutTestRouter(cc)

	body := fmt.Sprintf(`{"plant_id":%q,"quantity":2}`, plants.plant.ID.Hex())
	w := postJSON(r, "/create-checkout-session", body)
	assert.Equal(t, http.StatusOK, w.Code)

	var created map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	settle := fmt.Sprintf(`{"session_id":%q}`, created["session_id"])
	first := postJSON(r, "/payment-success", settle)
	assert.Equal(t, http.StatusOK, first.Code)

	var firstResp models.SettlementResult
	assert.NoError(t, json.Unmarshal(first.Body.Bytes(), &firstResp))
	assert.NotEmpty(t, firstResp.OrderID)
	assert.Equal(t, 3, plants.plant.Quantity)

	second := postJSON(r, "/payment-success", settle)
	assert.Equal(t, http.StatusOK, second.Code)

	var secondResp models.SettlementResult
	assert.NoError(t, json.Unmarshal(second.Body.Bytes(), &secondResp))
	assert.Equal(t, firstResp.OrderID, secondResp.OrderID)
	assert.Equal(t, 3, plants.plant.Quantity)
	assert.Len(t, orders.orders, 1)
}

func TestPaymentSuccess_UnknownSession(t *testing.T) {
	cc, _, _, _ := newCheckoutFixture(5, 10.00)
	r := checkoutTestRouter(cc)

	w := postJSON(r, "/payment-success", `{"session_id":"cs_missing"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
