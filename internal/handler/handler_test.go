package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pweat/rejestr-prac/internal/dto"
	"github.com/pweat/rejestr-prac/internal/middleware"
	"github.com/pweat/rejestr-prac/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

// Fakes embed the service interface and override only what a test calls.

type fakeClients struct {
	service.ClientService
	created *dto.ClientRequest
	err     error
}

func (f *fakeClients) Create(_ context.Context, req dto.ClientRequest) (*dto.ClientResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = &req
	return &dto.ClientResponse{ID: 1, Name: req.Name, PhoneNumber: req.PhoneNumber}, nil
}

func (f *fakeClients) Get(_ context.Context, id uint) (*dto.ClientDetailResponse, error) {
	return nil, f.err
}

type fakeInventory struct {
	service.InventoryService
	userID uint
	req    dto.InventoryOperationRequest
}

func (f *fakeInventory) ApplyOperation(_ context.Context, userID uint, req dto.InventoryOperationRequest) (*dto.InventoryItemResponse, error) {
	f.userID, f.req = userID, req
	return &dto.InventoryItemResponse{ID: req.ItemID, Quantity: decimal.NewFromInt(-7)}, nil
}

type fakeOffers struct {
	service.OfferService
	doc *service.OfferDocument
	err error
}

func (f *fakeOffers) RenderPDF(context.Context, uint) (*service.OfferDocument, error) {
	return f.doc, f.err
}

func (f *fakeOffers) Send(context.Context, uint) error { return f.err }

func perform(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateClient_Created(t *testing.T) {
	svc := &fakeClients{}
	r := gin.New()
	r.POST("/clients", NewClientsHandler(svc).Create)

	w := perform(r, http.MethodPost, "/clients", map[string]string{"name": "Jan", "phone_number": "600100200"})
	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, "Jan", svc.created.Name)
}

func TestCreateClient_PhoneNumberOnly(t *testing.T) {
	svc := &fakeClients{}
	r := gin.New()
	r.POST("/clients", NewClientsHandler(svc).Create)

	w := perform(r, http.MethodPost, "/clients", `{"phone_number":"123456789"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.created)
	assert.Empty(t, svc.created.Name)
	assert.Equal(t, "123456789", svc.created.PhoneNumber)
}

func TestCreateClient_ValidationFields(t *testing.T) {
	r := gin.New()
	r.POST("/clients", NewClientsHandler(&fakeClients{}).Create)

	w := perform(r, http.MethodPost, "/clients", map[string]string{"name": "Jan", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation failed", body.Error)
	assert.Equal(t, "required", body.Fields["phone_number"])
	assert.Equal(t, "email", body.Fields["email"])
}

func TestCreateClient_MalformedJSON(t *testing.T) {
	r := gin.New()
	r.POST("/clients", NewClientsHandler(&fakeClients{}).Create)

	w := perform(r, http.MethodPost, "/clients", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid JSON")
}

func TestGetClient_InvalidID(t *testing.T) {
	r := gin.New()
	r.GET("/clients/:id", NewClientsHandler(&fakeClients{}).Get)

	for _, id := range []string{"abc", "0", "-3"} {
		w := perform(r, http.MethodGet, "/clients/"+id, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
	}
}

func TestRespondError_StatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{&service.Error{Kind: service.ErrValidation, Msg: "name is required."}, http.StatusBadRequest, "name is required."},
		{&service.Error{Kind: service.ErrConflict, Msg: "client with this phone number already exists."}, http.StatusBadRequest, "client with this phone number already exists."},
		{&service.Error{Kind: service.ErrNotFound, Msg: "client not found."}, http.StatusNotFound, "client not found."},
		{&service.Error{Kind: service.ErrInvalidCredentials, Msg: "invalid username or password."}, http.StatusUnauthorized, "invalid username or password."},
		{&service.Error{Kind: service.ErrUnavailable, Msg: "e-mail delivery is not configured."}, http.StatusServiceUnavailable, "e-mail delivery is not configured."},
		{&service.Error{Kind: service.ErrOperationFailed, Msg: "operation failed.", Err: errors.New("deadlock")}, http.StatusInternalServerError, "operation failed."},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.status, " ", tc.msg), func(t *testing.T) {
			var attached []*gin.Error
			r := gin.New()
			r.Use(func(c *gin.Context) {
				c.Next()
				attached = c.Errors
			})
			r.GET("/c/:id", NewClientsHandler(&fakeClients{err: tc.err}).Get)

			w := perform(r, http.MethodGet, "/c/1", nil)
			assert.Equal(t, tc.status, w.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tc.msg), w.Body.String())

			// server-side failures go to the request log, client errors do not
			if tc.status >= http.StatusInternalServerError {
				require.Len(t, attached, 1)
				assert.ErrorIs(t, attached[0].Err, tc.err)
			} else {
				assert.Empty(t, attached)
			}
		})
	}
}

func TestInventoryOperation_PassesAuthenticatedUser(t *testing.T) {
	svc := &fakeInventory{}
	r := gin.New()
	r.POST("/inventory/operation", func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, &middleware.JWTClaims{UserID: 9, Role: "editor"})
	}, NewInventoryHandler(svc).Operation)

	w := perform(r, http.MethodPost, "/inventory/operation", `{"itemId":3,"operationType":"withdrawal","quantity":10}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(9), svc.userID)
	assert.True(t, svc.req.Quantity.Equal(decimal.NewFromInt(10)))
	assert.JSONEq(t, `-7`, string(mustField(t, w.Body.Bytes(), "quantity")))
}

func mustField(t *testing.T, body []byte, key string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &m))
	return m[key]
}

func TestOfferPDF_Download(t *testing.T) {
	svc := &fakeOffers{doc: &service.OfferDocument{FileName: "oferta-OF_1_03_2024.pdf", Content: []byte("%PDF-1.3 test")}}
	r := gin.New()
	r.GET("/offers/:id/pdf", NewOffersHandler(svc).PDF)

	w := perform(r, http.MethodGet, "/offers/1/pdf", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="oferta-OF_1_03_2024.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3 test", w.Body.String())
}

func TestOfferSend_Unavailable(t *testing.T) {
	svc := &fakeOffers{err: &service.Error{Kind: service.ErrUnavailable, Msg: "e-mail service is temporarily unavailable."}}
	r := gin.New()
	r.POST("/offers/:id/send", NewOffersHandler(svc).Send)

	w := perform(r, http.MethodPost, "/offers/2/send", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
