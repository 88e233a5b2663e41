package httpapi

import (
	"time"

	"northwind/internal/domain"
)

// orderPayload — JSON-представление изменяемых полей заказа.
// Даты жизненного цикла через этот payload не принимаются: для них
// есть выделенные операции submit и complete.
type orderPayload struct {
	CustomerID     *string    `json:"customer_id"`
	EmployeeID     *int       `json:"employee_id"`
	RequiredDate   *time.Time `json:"required_date"`
	ShipVia        *int       `json:"ship_via"`
	Freight        *float64   `json:"freight"`
	ShipName       *string    `json:"ship_name"`
	ShipAddress    *string    `json:"ship_address"`
	ShipCity       *string    `json:"ship_city"`
	ShipRegion     *string    `json:"ship_region"`
	ShipPostalCode *string    `json:"ship_postal_code"`
	ShipCountry    *string    `json:"ship_country"`
}

func (p orderPayload) toOrder(orderID int) *domain.Order {
	return domain.Hydrate(domain.OrderData{
		OrderID:        orderID,
		CustomerID:     p.CustomerID,
		EmployeeID:     p.EmployeeID,
		RequiredDate:   p.RequiredDate,
		ShipVia:        p.ShipVia,
		Freight:        p.Freight,
		ShipName:       p.ShipName,
		ShipAddress:    p.ShipAddress,
		ShipCity:       p.ShipCity,
		ShipRegion:     p.ShipRegion,
		ShipPostalCode: p.ShipPostalCode,
		ShipCountry:    p.ShipCountry,
	})
}

// orderResponse — JSON-представление заказа.
type orderResponse struct {
	OrderID        int                   `json:"order_id"`
	State          string                `json:"state"`
	CustomerID     *string               `json:"customer_id"`
	EmployeeID     *int                  `json:"employee_id"`
	OrderDate      *time.Time            `json:"order_date"`
	RequiredDate   *time.Time            `json:"required_date"`
	ShippedDate    *time.Time            `json:"shipped_date"`
	ShipVia        *int                  `json:"ship_via"`
	Freight        *float64              `json:"freight"`
	ShipName       *string               `json:"ship_name"`
	ShipAddress    *string               `json:"ship_address"`
	ShipCity       *string               `json:"ship_city"`
	ShipRegion     *string               `json:"ship_region"`
	ShipPostalCode *string               `json:"ship_postal_code"`
	ShipCountry    *string               `json:"ship_country"`
	Details        []orderDetailResponse `json:"details,omitempty"`
}

type orderDetailResponse struct {
	ProductID   int     `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int32   `json:"quantity"`
	Discount    float64 `json:"discount"`
}

func newOrderResponse(order *domain.Order) orderResponse {
	data := order.Data()

	response := orderResponse{
		OrderID:        data.OrderID,
		State:          order.State().String(),
		CustomerID:     data.CustomerID,
		EmployeeID:     data.EmployeeID,
		OrderDate:      data.OrderDate,
		RequiredDate:   data.RequiredDate,
		ShippedDate:    data.ShippedDate,
		ShipVia:        data.ShipVia,
		Freight:        data.Freight,
		ShipName:       data.ShipName,
		ShipAddress:    data.ShipAddress,
		ShipCity:       data.ShipCity,
		ShipRegion:     data.ShipRegion,
		ShipPostalCode: data.ShipPostalCode,
		ShipCountry:    data.ShipCountry,
	}
	for _, d := range data.Details {
		response.Details = append(response.Details, orderDetailResponse{
			ProductID:   d.ProductID,
			ProductName: d.ProductName,
			UnitPrice:   d.UnitPrice,
			Quantity:    d.Quantity,
			Discount:    d.Discount,
		})
	}
	return response
}

// lifecycleRequest — необязательное тело submit и complete операций.
type lifecycleRequest struct {
	Date *time.Time `json:"date"`
}

type productHistoryResponse struct {
	ProductName string `json:"product_name"`
	Total       int64  `json:"total"`
}

type orderLineResponse struct {
	ProductName   string  `json:"product_name"`
	UnitPrice     float64 `json:"unit_price"`
	Quantity      int32   `json:"quantity"`
	Discount      int32   `json:"discount"`
	ExtendedPrice float64 `json:"extended_price"`
}

type errorResponse struct {
	Error string `json:"error"`
}
