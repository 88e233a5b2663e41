package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"northwind/internal/domain"
	"northwind/internal/service/orders"
)

// Handler — HTTP-фасад над сервисом заказов.
type Handler struct {
	service *orders.Service
	logger  *log.Entry
}

// NewHandler создаёт HTTP handler.
func NewHandler(service *orders.Service, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.New().WithField("component", "httpapi")
	}
	return &Handler{service: service, logger: logger}
}

// Router регистрирует маршруты API.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/orders", h.listOrders).Methods(http.MethodGet)
	r.HandleFunc("/orders", h.createOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id:[0-9]+}", h.getOrder).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id:[0-9]+}", h.updateOrder).Methods(http.MethodPut)
	r.HandleFunc("/orders/{id:[0-9]+}", h.deleteOrder).Methods(http.MethodDelete)
	r.HandleFunc("/orders/{id:[0-9]+}/submit", h.submitOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id:[0-9]+}/complete", h.completeOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id:[0-9]+}/lines", h.orderLines).Methods(http.MethodGet)
	r.HandleFunc("/customers/{id}/order-history", h.customerHistory).Methods(http.MethodGet)

	return r
}

func (h *Handler) listOrders(w http.ResponseWriter, _ *http.Request) {
	result, err := h.service.GetOrders()
	if err != nil {
		h.writeError(w, err)
		return
	}

	response := make([]orderResponse, 0, len(result))
	for _, order := range result {
		response = append(response, newOrderResponse(order))
	}
	h.writeJSON(w, http.StatusOK, response)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	detailed := r.URL.Query().Get("detailed") == "true"

	order, err := h.service.GetOrderByID(id, detailed)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newOrderResponse(order))
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var payload orderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	saved, err := h.service.AddNew(payload.toOrder(0))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, newOrderResponse(saved))
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var payload orderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	saved, err := h.service.Update(payload.toOrder(id))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newOrderResponse(saved))
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.Delete(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !deleted {
		h.writeJSON(w, http.StatusConflict, errorResponse{Error: "order cannot be deleted"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) submitOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	when, ok := h.lifecycleDate(w, r)
	if !ok {
		return
	}

	submitted, err := h.service.SubmitToWork(id, when)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !submitted {
		h.writeJSON(w, http.StatusConflict, errorResponse{Error: "order is already submitted"})
		return
	}

	order, err := h.service.GetOrderByID(id, false)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newOrderResponse(order))
}

func (h *Handler) completeOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	when, ok := h.lifecycleDate(w, r)
	if !ok {
		return
	}

	completed, err := h.service.MarkAsComplete(id, when)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !completed {
		h.writeJSON(w, http.StatusConflict, errorResponse{Error: "order is already completed"})
		return
	}

	order, err := h.service.GetOrderByID(id, false)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newOrderResponse(order))
}

func (h *Handler) orderLines(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	lines, err := h.service.GetCustOrdersDetail(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response := make([]orderLineResponse, 0, len(lines))
	for _, line := range lines {
		response = append(response, orderLineResponse{
			ProductName:   line.ProductName,
			UnitPrice:     line.UnitPrice,
			Quantity:      line.Quantity,
			Discount:      line.Discount,
			ExtendedPrice: line.ExtendedPrice,
		})
	}
	h.writeJSON(w, http.StatusOK, response)
}

func (h *Handler) customerHistory(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["id"]

	history, err := h.service.GetCustOrderHist(customerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response := make([]productHistoryResponse, 0, len(history))
	for _, row := range history {
		response = append(response, productHistoryResponse{
			ProductName: row.ProductName,
			Total:       row.Total,
		})
	}
	h.writeJSON(w, http.StatusOK, response)
}

func (h *Handler) orderID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid order id"})
		return 0, false
	}
	return id, true
}

// lifecycleDate читает дату из тела запроса; пустое тело означает "сейчас".
func (h *Handler) lifecycleDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	var payload lifecycleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return time.Time{}, false
	}
	if payload.Date != nil {
		return *payload.Date, true
	}
	return time.Now().UTC(), true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsNotFound(err):
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case domain.IsLocked(err):
		h.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrOrderRequired):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		h.logger.WithError(err).Error("request failed")
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.WithError(err).Error("failed to encode response")
	}
}
