package memory

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"northwind/internal/domain"
)

// OrderRepository — in-memory реализация domain.OrderRepository для
// локальной разработки и тестов. Контракт тот же, что у postgres-версии:
// идентификаторы присваивает хранилище, guard'ы жизненного цикла
// проверяются внутри мутирующей операции под общим мьютексом.
type OrderRepository struct {
	mu sync.RWMutex

	orders  map[int]domain.OrderData
	details map[int][]domain.OrderDetail
	// Каталог продуктов: в postgres его заполняет миграция,
	// здесь — SeedProduct.
	products map[int]string

	nextOrderID   int
	nextProductID int
}

// NewOrderRepository возвращает пустой in-memory репозиторий.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders:        make(map[int]domain.OrderData),
		details:       make(map[int][]domain.OrderDetail),
		products:      make(map[int]string),
		nextOrderID:   1,
		nextProductID: 1,
	}
}

// SeedProduct добавляет продукт в каталог и возвращает его идентификатор.
func (r *OrderRepository) SeedProduct(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextProductID
	r.nextProductID++
	r.products[id] = name
	return id
}

// SeedDetail добавляет позицию к существующему заказу. Позиции в этой
// модели read-only, поэтому запись доступна только как тестовый seed.
func (r *OrderRepository) SeedDetail(orderID, productID int, unitPrice float64, quantity int32, discount float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[orderID]; !ok {
		return fmt.Errorf("seed detail: %w", domain.ErrOrderNotFound)
	}
	if _, ok := r.products[productID]; !ok {
		return fmt.Errorf("seed detail: unknown product %d", productID)
	}

	r.details[orderID] = append(r.details[orderID], domain.OrderDetail{
		OrderID:   orderID,
		ProductID: productID,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		Discount:  discount,
	})
	return nil
}

// GetOrders возвращает все заказы без позиций, отсортированные по идентификатору.
func (r *OrderRepository) GetOrders() ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int, 0, len(r.orders))
	for id := range r.orders {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	result := make([]*domain.Order, 0, len(ids))
	for _, id := range ids {
		result = append(result, domain.Hydrate(r.orders[id]))
	}
	return result, nil
}

// GetOrderByID возвращает заказ или domain.ErrOrderNotFound.
func (r *OrderRepository) GetOrderByID(id int, detailed bool) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.getOrderLocked(id, detailed)
}

// AddNew сохраняет новый заказ. Даты жизненного цикла не берутся из
// payload: новый заказ всегда стартует в состоянии New.
func (r *OrderRepository) AddNew(order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, domain.ErrOrderRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data := order.Data()
	data.OrderID = r.nextOrderID
	r.nextOrderID++
	data.OrderDate = nil
	data.ShippedDate = nil
	data.Details = nil
	r.orders[data.OrderID] = data

	return r.getOrderLocked(data.OrderID, false)
}

// Update применяет изменяемые поля заказа. Guard складывается в ту же
// критическую секцию, что и запись: payload с датами жизненного цикла
// и заказ вне состояния New отклоняются как ErrOrderLocked.
func (r *OrderRepository) Update(order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, domain.ErrOrderRequired
	}

	data := order.Data()
	if data.OrderDate != nil || data.ShippedDate != nil {
		return nil, fmt.Errorf("update order %d: %w", data.OrderID, domain.ErrOrderLocked)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[data.OrderID]
	if !ok {
		return nil, fmt.Errorf("update order %d: %w", data.OrderID, domain.ErrOrderNotFound)
	}
	if stored.OrderDate != nil || stored.ShippedDate != nil {
		return nil, fmt.Errorf("update order %d: %w", data.OrderID, domain.ErrOrderLocked)
	}

	stored.CustomerID = data.CustomerID
	stored.EmployeeID = data.EmployeeID
	stored.RequiredDate = data.RequiredDate
	stored.ShipVia = data.ShipVia
	stored.Freight = data.Freight
	stored.ShipName = data.ShipName
	stored.ShipAddress = data.ShipAddress
	stored.ShipCity = data.ShipCity
	stored.ShipRegion = data.ShipRegion
	stored.ShipPostalCode = data.ShipPostalCode
	stored.ShipCountry = data.ShipCountry
	r.orders[data.OrderID] = stored

	return r.getOrderLocked(data.OrderID, false)
}

// Delete удаляет заказ вместе с позициями. Completed-заказы не удаляются:
// для них, как и для отсутствующей строки, возвращается false.
func (r *OrderRepository) Delete(id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[id]
	if !ok || stored.ShippedDate != nil {
		return false, nil
	}

	delete(r.orders, id)
	delete(r.details, id)
	return true, nil
}

// SubmitToWork проставляет OrderDate, если он ещё пуст.
func (r *OrderRepository) SubmitToWork(id int, orderDate time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[id]
	if !ok || stored.OrderDate != nil {
		return false, nil
	}

	d := orderDate
	stored.OrderDate = &d
	r.orders[id] = stored
	return true, nil
}

// MarkAsComplete проставляет ShippedDate, если он ещё пуст.
func (r *OrderRepository) MarkAsComplete(id int, shippedDate time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[id]
	if !ok || stored.ShippedDate != nil {
		return false, nil
	}

	d := shippedDate
	stored.ShippedDate = &d
	r.orders[id] = stored
	return true, nil
}

// GetCustOrderHist агрегирует историю заказов клиента по продуктам,
// повторяя семантику отчётной функции cust_order_hist.
func (r *OrderRepository) GetCustOrderHist(customerID string) ([]domain.ProductHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	totals := make(map[string]int64)
	for id, stored := range r.orders {
		if stored.CustomerID == nil || *stored.CustomerID != customerID {
			continue
		}
		for _, d := range r.details[id] {
			totals[r.products[d.ProductID]] += int64(d.Quantity)
		}
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]domain.ProductHistory, 0, len(names))
	for _, name := range names {
		result = append(result, domain.ProductHistory{ProductName: name, Total: totals[name]})
	}
	return result, nil
}

// GetCustOrdersDetail возвращает детализацию заказа: скидка в процентах,
// итоговая цена округлена до двух знаков, как в cust_orders_detail.
func (r *OrderRepository) GetCustOrdersDetail(orderID int) ([]domain.OrderLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	details := r.details[orderID]
	result := make([]domain.OrderLine, 0, len(details))
	for _, d := range details {
		extended := d.UnitPrice * float64(d.Quantity) * (1 - d.Discount)
		result = append(result, domain.OrderLine{
			ProductName:   r.products[d.ProductID],
			UnitPrice:     d.UnitPrice,
			Quantity:      d.Quantity,
			Discount:      int32(math.Round(d.Discount * 100)),
			ExtendedPrice: math.Round(extended*100) / 100,
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ProductName < result[j].ProductName })
	return result, nil
}

// getOrderLocked читает заказ под уже удерживаемой блокировкой.
func (r *OrderRepository) getOrderLocked(id int, detailed bool) (*domain.Order, error) {
	stored, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("get order %d: %w", id, domain.ErrOrderNotFound)
	}

	if detailed {
		details := make([]domain.OrderDetail, 0, len(r.details[id]))
		for _, d := range r.details[id] {
			d.ProductName = r.products[d.ProductID]
			details = append(details, d)
		}
		stored.Details = details
	}

	return domain.Hydrate(stored), nil
}

var _ domain.OrderRepository = (*OrderRepository)(nil)
