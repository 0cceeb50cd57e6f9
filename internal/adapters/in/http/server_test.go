package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpin "fastdispatch/internal/adapters/in/http"
	"fastdispatch/internal/core/application/usecases/commands"
	"fastdispatch/internal/core/domain/model/courier"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/domain/model/order"
	"fastdispatch/internal/core/ports"
	"fastdispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryUnitOfWork backs the handlers with an in-memory courier store. The
// order, escrow, and tracking repositories are not exercised here; the
// postgres adapter has its own integration suite.
type memoryUnitOfWork struct {
	couriers map[string]*courier.Profile
}

func newMemoryUnitOfWork() *memoryUnitOfWork {
	return &memoryUnitOfWork{couriers: make(map[string]*courier.Profile)}
}

func (u *memoryUnitOfWork) Create() ports.UnitOfWork                 { return u }
func (u *memoryUnitOfWork) Begin(context.Context) error              { return nil }
func (u *memoryUnitOfWork) Commit(context.Context) error             { return nil }
func (u *memoryUnitOfWork) Rollback(context.Context) error           { return nil }
func (u *memoryUnitOfWork) OrderRepository() ports.OrderRepository   { return emptyOrderRepository{} }
func (u *memoryUnitOfWork) EscrowRepository() ports.EscrowRepository { return nil }
func (u *memoryUnitOfWork) TrackingRepository() ports.TrackingRepository {
	return nil
}

// emptyOrderRepository satisfies the presence handler's active-delivery
// check without any orders in play.
type emptyOrderRepository struct{}

func (emptyOrderRepository) Add(context.Context, *order.Order) error    { return nil }
func (emptyOrderRepository) Update(context.Context, *order.Order) error { return nil }
func (emptyOrderRepository) UpdateIfStatus(context.Context, *order.Order, order.Status) error {
	return nil
}

func (emptyOrderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	return nil, errs.NewObjectNotFoundError("order id", id)
}

func (emptyOrderRepository) GetByNumber(_ context.Context, number string) (*order.Order, error) {
	return nil, errs.NewObjectNotFoundError("order number", number)
}

func (emptyOrderRepository) GetActiveByCourier(context.Context, kernel.UUID) ([]*order.Order, error) {
	return nil, nil
}

func (u *memoryUnitOfWork) CourierRepository() ports.CourierRepository {
	return memoryCourierRepository{store: u.couriers}
}

type memoryCourierRepository struct {
	store map[string]*courier.Profile
}

func (r memoryCourierRepository) Add(_ context.Context, profile *courier.Profile) error {
	r.store[profile.ID().String()] = profile
	return nil
}

func (r memoryCourierRepository) Update(_ context.Context, profile *courier.Profile) error {
	r.store[profile.ID().String()] = profile
	return nil
}

func (r memoryCourierRepository) Get(_ context.Context, id kernel.UUID) (*courier.Profile, error) {
	profile, ok := r.store[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("courier id", id)
	}
	return profile, nil
}

func (r memoryCourierRepository) GetAllEligible(context.Context) ([]*courier.Profile, error) {
	return nil, nil
}

func (r memoryCourierRepository) Reserve(context.Context, kernel.UUID) error { return nil }
func (r memoryCourierRepository) Free(context.Context, kernel.UUID) error    { return nil }

func newTestServer(t *testing.T) (*echo.Echo, *memoryUnitOfWork) {
	t.Helper()

	uow := newMemoryUnitOfWork()
	server := httpin.NewServer(httpin.Handlers{
		CreateCourier:   commands.NewCreateCourierCommandHandler(uow),
		VerifyCourier:   commands.NewVerifyCourierCommandHandler(uow),
		CourierPresence: commands.NewSetCourierPresenceCommandHandler(uow),
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	e := echo.New()
	server.RegisterRoutes(e)
	return e, uow
}

func doJSON(e *echo.Echo, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func adminHeaders() map[string]string {
	return map[string]string{
		httpin.HeaderActorID:   kernel.NewUUID().String(),
		httpin.HeaderActorRole: "ADMIN",
	}
}

func TestHealth(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateCourier(t *testing.T) {
	t.Run("valid request creates a pending courier", func(t *testing.T) {
		e, uow := newTestServer(t)

		rec := doJSON(e, http.MethodPost, "/api/v1/couriers",
			`{"name":"Ade","tier":2,"rating":4.7}`, nil)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp struct {
			ID           string `json:"id"`
			Name         string `json:"name"`
			Verification string `json:"verification"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Ade", resp.Name)
		assert.Equal(t, "PENDING", resp.Verification)
		assert.Contains(t, uow.couriers, resp.ID)
	})

	t.Run("missing name is a bad request", func(t *testing.T) {
		e, _ := newTestServer(t)

		rec := doJSON(e, http.MethodPost, "/api/v1/couriers",
			`{"tier":2,"rating":4.7}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestVerifyCourier(t *testing.T) {
	createCourier := func(t *testing.T, e *echo.Echo) string {
		t.Helper()
		rec := doJSON(e, http.MethodPost, "/api/v1/couriers",
			`{"name":"Bola","tier":1,"rating":4.0}`, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
		var resp struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp.ID
	}

	t.Run("admin approves a pending courier", func(t *testing.T) {
		e, _ := newTestServer(t)
		id := createCourier(t, e)

		rec := doJSON(e, http.MethodPost, "/api/v1/couriers/"+id+"/verification",
			`{"approved":true}`, adminHeaders())

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Verification string `json:"verification"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "APPROVED", resp.Verification)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		e, _ := newTestServer(t)
		id := createCourier(t, e)

		rec := doJSON(e, http.MethodPost, "/api/v1/couriers/"+id+"/verification",
			`{"approved":true}`, map[string]string{
				httpin.HeaderActorID:   kernel.NewUUID().String(),
				httpin.HeaderActorRole: "CUSTOMER",
			})

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown courier is not found", func(t *testing.T) {
		e, _ := newTestServer(t)

		rec := doJSON(e, http.MethodPost,
			"/api/v1/couriers/"+kernel.NewUUID().String()+"/verification",
			`{"approved":true}`, adminHeaders())

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing actor headers is a bad request", func(t *testing.T) {
		e, _ := newTestServer(t)
		id := createCourier(t, e)

		rec := doJSON(e, http.MethodPost, "/api/v1/couriers/"+id+"/verification",
			`{"approved":true}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCourierPresence(t *testing.T) {
	e, uow := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/couriers",
		`{"name":"Chidi","tier":3,"rating":4.9}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(e, http.MethodPost, "/api/v1/couriers/"+created.ID+"/presence",
		`{"online":true}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		IsOnline    bool `json:"isOnline"`
		IsAvailable bool `json:"isAvailable"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsOnline)
	assert.True(t, resp.IsAvailable)
	assert.True(t, uow.couriers[created.ID].IsOnline())
}

func TestRequestValidation(t *testing.T) {
	t.Run("malformed order id is a bad request", func(t *testing.T) {
		e, _ := newTestServer(t)

		rec := doJSON(e, http.MethodGet, "/api/v1/orders/not-a-uuid", "", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown assignment decision is a bad request", func(t *testing.T) {
		e, _ := newTestServer(t)

		rec := doJSON(e, http.MethodPost,
			"/api/v1/orders/"+kernel.NewUUID().String()+"/assignment/response",
			`{"courierId":"`+kernel.NewUUID().String()+`","decision":"MAYBE"}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown actor role is a bad request", func(t *testing.T) {
		e, _ := newTestServer(t)

		rec := doJSON(e, http.MethodPost,
			"/api/v1/orders/"+kernel.NewUUID().String()+"/confirm", "",
			map[string]string{
				httpin.HeaderActorID:   kernel.NewUUID().String(),
				httpin.HeaderActorRole: "OVERLORD",
			})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown dispute resolution is a bad request", func(t *testing.T) {
		e, _ := newTestServer(t)

		rec := doJSON(e, http.MethodPost,
			"/api/v1/orders/"+kernel.NewUUID().String()+"/escrow/resolve",
			`{"resolution":"SPLIT"}`, adminHeaders())

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
