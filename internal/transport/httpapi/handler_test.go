package httpapi_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"northwind/internal/service/orders"
	"northwind/internal/storage/memory"
	"northwind/internal/transport/httpapi"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.OrderRepository) {
	t.Helper()

	repo := memory.NewOrderRepository()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	entry := logger.WithField("layer", "test")

	service := orders.NewServiceWithoutMetrics(repo, nil, entry)
	server := httptest.NewServer(httpapi.NewHandler(service, entry).Router())
	t.Cleanup(server.Close)

	return server, repo
}

func doJSON(t *testing.T, method, url string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reader).Encode(body))
	}

	req, err := http.NewRequest(method, url, &reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	var payload bytes.Buffer
	_, err = payload.ReadFrom(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp, payload.Bytes()
}

func createOrder(t *testing.T, server *httptest.Server) int {
	t.Helper()

	resp, body := doJSON(t, http.MethodPost, server.URL+"/orders", map[string]interface{}{
		"customer_id": "VINET",
		"ship_city":   "Reims",
		"freight":     32.38,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		OrderID int    `json:"order_id"`
		State   string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	require.Greater(t, created.OrderID, 0)
	require.Equal(t, "new", created.State)

	return created.OrderID
}

func TestHandler_CreateAndGetOrder(t *testing.T) {
	server, _ := newTestServer(t)

	id := createOrder(t, server)

	resp, body := doJSON(t, http.MethodGet, fmt.Sprintf("%s/orders/%d", server.URL, id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var order struct {
		OrderID    int      `json:"order_id"`
		State      string   `json:"state"`
		CustomerID *string  `json:"customer_id"`
		Freight    *float64 `json:"freight"`
	}
	require.NoError(t, json.Unmarshal(body, &order))
	require.Equal(t, id, order.OrderID)
	require.Equal(t, "new", order.State)
	require.NotNil(t, order.CustomerID)
	require.Equal(t, "VINET", *order.CustomerID)
	require.NotNil(t, order.Freight)
	require.Equal(t, 32.38, *order.Freight)
}

func TestHandler_GetOrderNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, server.URL+"/orders/404", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_InvalidOrderID(t *testing.T) {
	server, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, server.URL+"/orders/0", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_UpdateOrder(t *testing.T) {
	server, _ := newTestServer(t)
	id := createOrder(t, server)

	resp, body := doJSON(t, http.MethodPut, fmt.Sprintf("%s/orders/%d", server.URL, id), map[string]interface{}{
		"customer_id": "VINET",
		"ship_city":   "Lille",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var order struct {
		ShipCity *string `json:"ship_city"`
	}
	require.NoError(t, json.Unmarshal(body, &order))
	require.NotNil(t, order.ShipCity)
	require.Equal(t, "Lille", *order.ShipCity)
}

func TestHandler_LifecycleAndGuards(t *testing.T) {
	server, _ := newTestServer(t)
	id := createOrder(t, server)

	resp, body := doJSON(t, http.MethodPost, fmt.Sprintf("%s/orders/%d/submit", server.URL, id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var order struct {
		State string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(body, &order))
	require.Equal(t, "in_progress", order.State)

	// Повторный submit отклоняется конфликтом.
	resp, _ = doJSON(t, http.MethodPost, fmt.Sprintf("%s/orders/%d/submit", server.URL, id), nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// Update после submit тоже конфликт.
	resp, _ = doJSON(t, http.MethodPut, fmt.Sprintf("%s/orders/%d", server.URL, id), map[string]interface{}{
		"ship_city": "Lille",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPost, fmt.Sprintf("%s/orders/%d/complete", server.URL, id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &order))
	require.Equal(t, "completed", order.State)

	// Completed-заказ не удаляется.
	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/orders/%d", server.URL, id), nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, fmt.Sprintf("%s/orders/%d", server.URL, id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandler_DeleteNewOrder(t *testing.T) {
	server, _ := newTestServer(t)
	id := createOrder(t, server)

	resp, _ := doJSON(t, http.MethodDelete, fmt.Sprintf("%s/orders/%d", server.URL, id), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, fmt.Sprintf("%s/orders/%d", server.URL, id), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_ListOrders(t *testing.T) {
	server, _ := newTestServer(t)
	createOrder(t, server)
	createOrder(t, server)

	resp, body := doJSON(t, http.MethodGet, server.URL+"/orders", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []json.RawMessage
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 2)
}

func TestHandler_Reports(t *testing.T) {
	server, repo := newTestServer(t)
	id := createOrder(t, server)

	chai := repo.SeedProduct("Chai")
	chang := repo.SeedProduct("Chang")
	require.NoError(t, repo.SeedDetail(id, chai, 18.0, 10, 0))
	require.NoError(t, repo.SeedDetail(id, chang, 19.0, 4, 0.25))

	resp, body := doJSON(t, http.MethodGet, fmt.Sprintf("%s/orders/%d?detailed=true", server.URL, id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detailed struct {
		Details []struct {
			ProductName string `json:"product_name"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(body, &detailed))
	require.Len(t, detailed.Details, 2)

	resp, body = doJSON(t, http.MethodGet, fmt.Sprintf("%s/orders/%d/lines", server.URL, id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var lines []struct {
		ProductName   string  `json:"product_name"`
		Discount      int32   `json:"discount"`
		ExtendedPrice float64 `json:"extended_price"`
	}
	require.NoError(t, json.Unmarshal(body, &lines))
	require.Len(t, lines, 2)
	require.Equal(t, "Chai", lines[0].ProductName)
	require.Equal(t, 180.0, lines[0].ExtendedPrice)
	require.Equal(t, int32(25), lines[1].Discount)
	require.Equal(t, 57.0, lines[1].ExtendedPrice)

	resp, body = doJSON(t, http.MethodGet, server.URL+"/customers/VINET/order-history", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var history []struct {
		ProductName string `json:"product_name"`
		Total       int64  `json:"total"`
	}
	require.NoError(t, json.Unmarshal(body, &history))
	require.Len(t, history, 2)
	require.Equal(t, "Chai", history[0].ProductName)
	require.Equal(t, int64(10), history[0].Total)
}

func TestHandler_InvalidBody(t *testing.T) {
	server, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, server.URL+"/orders", bytes.NewBufferString("{not json"))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
