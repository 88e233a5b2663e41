package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"northwind/internal/domain"
)

const (
	opTimeout = 5 * time.Second

	orderColumns = `order_id, customer_id, employee_id, order_date, required_date, shipped_date,
		ship_via, freight, ship_name, ship_address, ship_city, ship_region, ship_postal_code, ship_country`
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
//
// Все guard'ы жизненного цикла свёрнуты в условия мутирующих запросов:
// конкурирующие вызовы против одного заказа разрешаются на стороне базы,
// и "ноль затронутых строк" — единственный сигнал сработавшего guard'а.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

func (r *orderRepository) GetOrders() ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY order_id
	`)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		data, err := scanOrderData(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, domain.Hydrate(data))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) GetOrderByID(id int, detailed bool) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return r.getOrderByID(ctx, id, detailed)
}

func (r *orderRepository) getOrderByID(ctx context.Context, id int, detailed bool) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE order_id = $1
	`, id)

	data, err := scanOrderData(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	if detailed {
		details, err := r.loadDetails(ctx, id)
		if err != nil {
			return nil, err
		}
		data.Details = details
	}

	return domain.Hydrate(data), nil
}

func (r *orderRepository) AddNew(order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, domain.ErrOrderRequired
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data := order.Data()

	// Даты жизненного цикла у вызывающего не берутся: новая строка всегда
	// стартует с пустыми order_date и shipped_date.
	var id int
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO orders (
			customer_id, employee_id, required_date, ship_via, freight,
			ship_name, ship_address, ship_city, ship_region, ship_postal_code, ship_country
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING order_id
	`,
		data.CustomerID, data.EmployeeID, data.RequiredDate, data.ShipVia, data.Freight,
		data.ShipName, data.ShipAddress, data.ShipCity, data.ShipRegion, data.ShipPostalCode, data.ShipCountry,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	// Перечитываем строку, чтобы вернуть ровно то, что присвоило хранилище.
	return r.getOrderByID(ctx, id, false)
}

func (r *orderRepository) Update(order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, domain.ErrOrderRequired
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data := order.Data()

	// Даты жизненного цикла пишутся только выделенными операциями; у заказа
	// в состоянии New они в хранилище пусты, поэтому непустой payload
	// заведомо расходится с сохранённой версией.
	if data.OrderDate != nil || data.ShippedDate != nil {
		return nil, domain.ErrOrderLocked
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET customer_id = $1,
		    employee_id = $2,
		    required_date = $3,
		    ship_via = $4,
		    freight = $5,
		    ship_name = $6,
		    ship_address = $7,
		    ship_city = $8,
		    ship_region = $9,
		    ship_postal_code = $10,
		    ship_country = $11
		WHERE order_id = $12
		  AND order_date IS NULL
		  AND shipped_date IS NULL
	`,
		data.CustomerID, data.EmployeeID, data.RequiredDate, data.ShipVia, data.Freight,
		data.ShipName, data.ShipAddress, data.ShipCity, data.ShipRegion, data.ShipPostalCode, data.ShipCountry,
		data.OrderID,
	)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, err := r.orderExists(ctx, data.OrderID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, domain.ErrOrderNotFound
		}
		// Строка есть, но guard не пропустил: заказ уже не в состоянии New.
		return nil, domain.ErrOrderLocked
	}

	return r.getOrderByID(ctx, data.OrderID, false)
}

func (r *orderRepository) Delete(id int) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	// Completed-заказы сохраняются бессрочно; позиции удаляются каскадом.
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM orders
		WHERE order_id = $1
		  AND shipped_date IS NULL
	`, id)
	if err != nil {
		return false, fmt.Errorf("delete order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *orderRepository) SubmitToWork(id int, orderDate time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET order_date = $2
		WHERE order_id = $1
		  AND order_date IS NULL
	`, id, orderDate)
	if err != nil {
		return false, fmt.Errorf("submit order to work: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *orderRepository) MarkAsComplete(id int, shippedDate time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET shipped_date = $2
		WHERE order_id = $1
		  AND shipped_date IS NULL
	`, id, shippedDate)
	if err != nil {
		return false, fmt.Errorf("mark order as complete: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *orderRepository) GetCustOrderHist(customerID string) ([]domain.ProductHistory, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_name, total
		FROM cust_order_hist($1)
	`, customerID)
	if err != nil {
		return nil, fmt.Errorf("cust_order_hist: %w", err)
	}
	defer rows.Close()

	history := make([]domain.ProductHistory, 0)
	for rows.Next() {
		var row domain.ProductHistory
		if err := rows.Scan(&row.ProductName, &row.Total); err != nil {
			return nil, fmt.Errorf("scan cust_order_hist row: %w", err)
		}
		history = append(history, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cust_order_hist rows: %w", err)
	}

	return history, nil
}

func (r *orderRepository) GetCustOrdersDetail(orderID int) ([]domain.OrderLine, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_name, unit_price, quantity, discount, extended_price
		FROM cust_orders_detail($1)
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("cust_orders_detail: %w", err)
	}
	defer rows.Close()

	lines := make([]domain.OrderLine, 0)
	for rows.Next() {
		var row domain.OrderLine
		if err := rows.Scan(&row.ProductName, &row.UnitPrice, &row.Quantity, &row.Discount, &row.ExtendedPrice); err != nil {
			return nil, fmt.Errorf("scan cust_orders_detail row: %w", err)
		}
		lines = append(lines, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cust_orders_detail rows: %w", err)
	}

	return lines, nil
}

func (r *orderRepository) loadDetails(ctx context.Context, orderID int) ([]domain.OrderDetail, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT d.order_id, d.product_id, d.unit_price, d.quantity, d.discount, p.product_name
		FROM order_details AS d
		JOIN products AS p ON p.product_id = d.product_id
		WHERE d.order_id = $1
		ORDER BY d.product_id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order details: %w", err)
	}
	defer rows.Close()

	details := make([]domain.OrderDetail, 0)
	for rows.Next() {
		var d domain.OrderDetail
		if err := rows.Scan(&d.OrderID, &d.ProductID, &d.UnitPrice, &d.Quantity, &d.Discount, &d.ProductName); err != nil {
			return nil, fmt.Errorf("scan order detail: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order details: %w", err)
	}

	return details, nil
}

func (r *orderRepository) orderExists(ctx context.Context, orderID int) (bool, error) {
	var id int
	err := r.db.QueryRowContext(ctx, `SELECT order_id FROM orders WHERE order_id = $1`, orderID).Scan(&id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check order exists: %w", err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrderData(row rowScanner) (domain.OrderData, error) {
	var data domain.OrderData
	err := row.Scan(
		&data.OrderID, &data.CustomerID, &data.EmployeeID, &data.OrderDate, &data.RequiredDate,
		&data.ShippedDate, &data.ShipVia, &data.Freight, &data.ShipName, &data.ShipAddress,
		&data.ShipCity, &data.ShipRegion, &data.ShipPostalCode, &data.ShipCountry,
	)
	return data, err
}

var _ domain.OrderRepository = (*orderRepository)(nil)
