package domain

import "time"

// OrderState описывает жизненный цикл заказа.
type OrderState int

const (
	// OrderStateNew — заказ создан, но ещё не передан в работу (нет OrderDate).
	OrderStateNew OrderState = iota
	// OrderStateInProgress — заказ передан в работу (OrderDate проставлен).
	OrderStateInProgress
	// OrderStateCompleted — заказ отгружен (ShippedDate проставлен); терминальное состояние.
	OrderStateCompleted
)

// String возвращает строковое представление состояния для логов и событий.
func (s OrderState) String() string {
	switch s {
	case OrderStateNew:
		return "new"
	case OrderStateInProgress:
		return "in_progress"
	case OrderStateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Order — агрегат заказа. Поля неэкспортируемые: изменяемые атрибуты
// доступны только через guarded-сеттеры, которые отклоняют запись после
// перехода заказа из состояния New. OrderID, OrderDate и ShippedDate
// сеттеров не имеют вовсе — их пишет только репозиторий через
// выделенные операции жизненного цикла.
type Order struct {
	id             int
	customerID     *string
	employeeID     *int
	orderDate      *time.Time
	requiredDate   *time.Time
	shippedDate    *time.Time
	shipVia        *int
	freight        *float64
	shipName       *string
	shipAddress    *string
	shipCity       *string
	shipRegion     *string
	shipPostalCode *string
	shipCountry    *string

	details []OrderDetail
}

// OrderData — плоский снимок всех полей заказа. Используется репозиторием
// при материализации строки из хранилища и при сборке параметров записи.
type OrderData struct {
	OrderID        int
	CustomerID     *string
	EmployeeID     *int
	OrderDate      *time.Time
	RequiredDate   *time.Time
	ShippedDate    *time.Time
	ShipVia        *int
	Freight        *float64
	ShipName       *string
	ShipAddress    *string
	ShipCity       *string
	ShipRegion     *string
	ShipPostalCode *string
	ShipCountry    *string
	Details        []OrderDetail
}

// NewOrder создаёт пустой заказ в состоянии New: идентификатор и даты
// жизненного цикла не заданы, все остальные поля открыты для записи.
func NewOrder() *Order {
	return &Order{}
}

// Hydrate восстанавливает заказ из снимка хранилища, минуя проверки
// guarded-сеттеров: гидратация отражает сохранённую истину, а не вызов,
// легальность которого нужно проверять.
func Hydrate(data OrderData) *Order {
	return &Order{
		id:             data.OrderID,
		customerID:     clonePtr(data.CustomerID),
		employeeID:     clonePtr(data.EmployeeID),
		orderDate:      clonePtr(data.OrderDate),
		requiredDate:   clonePtr(data.RequiredDate),
		shippedDate:    clonePtr(data.ShippedDate),
		shipVia:        clonePtr(data.ShipVia),
		freight:        clonePtr(data.Freight),
		shipName:       clonePtr(data.ShipName),
		shipAddress:    clonePtr(data.ShipAddress),
		shipCity:       clonePtr(data.ShipCity),
		shipRegion:     clonePtr(data.ShipRegion),
		shipPostalCode: clonePtr(data.ShipPostalCode),
		shipCountry:    clonePtr(data.ShipCountry),
		details:        append([]OrderDetail(nil), data.Details...),
	}
}

// Data возвращает копию всех полей заказа.
func (o *Order) Data() OrderData {
	return OrderData{
		OrderID:        o.id,
		CustomerID:     clonePtr(o.customerID),
		EmployeeID:     clonePtr(o.employeeID),
		OrderDate:      clonePtr(o.orderDate),
		RequiredDate:   clonePtr(o.requiredDate),
		ShippedDate:    clonePtr(o.shippedDate),
		ShipVia:        clonePtr(o.shipVia),
		Freight:        clonePtr(o.freight),
		ShipName:       clonePtr(o.shipName),
		ShipAddress:    clonePtr(o.shipAddress),
		ShipCity:       clonePtr(o.shipCity),
		ShipRegion:     clonePtr(o.shipRegion),
		ShipPostalCode: clonePtr(o.shipPostalCode),
		ShipCountry:    clonePtr(o.shipCountry),
		Details:        append([]OrderDetail(nil), o.details...),
	}
}

// State выводится из дат жизненного цикла и никогда не хранится отдельно:
// инвариант New → InProgress → Completed не нарушить, потому что OrderDate
// и ShippedDate после установки не очищаются.
func (o *Order) State() OrderState {
	switch {
	case o.shippedDate != nil:
		return OrderStateCompleted
	case o.orderDate != nil:
		return OrderStateInProgress
	default:
		return OrderStateNew
	}
}

// OrderID возвращает идентификатор, присвоенный хранилищем (0 до записи).
func (o *Order) OrderID() int { return o.id }

// OrderDate возвращает дату передачи в работу или nil.
func (o *Order) OrderDate() *time.Time { return clonePtr(o.orderDate) }

// ShippedDate возвращает дату отгрузки или nil.
func (o *Order) ShippedDate() *time.Time { return clonePtr(o.shippedDate) }

func (o *Order) CustomerID() *string      { return clonePtr(o.customerID) }
func (o *Order) EmployeeID() *int         { return clonePtr(o.employeeID) }
func (o *Order) RequiredDate() *time.Time { return clonePtr(o.requiredDate) }
func (o *Order) ShipVia() *int            { return clonePtr(o.shipVia) }
func (o *Order) Freight() *float64        { return clonePtr(o.freight) }
func (o *Order) ShipName() *string        { return clonePtr(o.shipName) }
func (o *Order) ShipAddress() *string     { return clonePtr(o.shipAddress) }
func (o *Order) ShipCity() *string        { return clonePtr(o.shipCity) }
func (o *Order) ShipRegion() *string      { return clonePtr(o.shipRegion) }
func (o *Order) ShipPostalCode() *string  { return clonePtr(o.shipPostalCode) }
func (o *Order) ShipCountry() *string     { return clonePtr(o.shipCountry) }

// Details возвращает позиции заказа, загруженные при детальном чтении.
func (o *Order) Details() []OrderDetail {
	return append([]OrderDetail(nil), o.details...)
}

// SetCustomerID изменяет клиента; разрешено только в состоянии New.
func (o *Order) SetCustomerID(v *string) error {
	if err := o.guardMutable(); err != nil {
		return err
	}
	o.customerID = clonePtr(v)
	return nil
}

// SetEmployeeID изменяет сотрудника; разрешено только в состоянии New.
func (o *Order) SetEmployeeID(v *int) error {
	if err := o.guardMutable(); err != nil {
		return err
	}
	o.employeeID = clonePtr(v)
	return nil
}

// SetRequiredDate изменяет требуемую дату поставки; разрешено только в состоянии New.
func (o *Order) SetRequiredDate(v *time.Time) error {
	if err := o.guardMutable(); err != nil {
		return err
	}
	o.requiredDate = clonePtr(v)
	return nil
}

// SetShipVia изменяет способ доставки; разрешено только в состоянии New.
func (o *Order) SetShipVia(v *int) error {
	if err := o.guardMutable(); err != nil {
		return err
	}
	o.shipVia = clonePtr(v)
	return nil
}

// SetFreight изменяет стоимость доставки; разрешено только в состоянии New.
func (o *Order) SetFreight(v *float64) error {
	if err := o.guardMutable(); err != nil {
		return err
	}
	o.freight = clonePtr(v)
	return nil
}

// SetShipName изменяет получателя; разрешено только в состоянии New.
func (o *Order) SetShipName(v *string) error {
	if err := o.guardMutable(); err != nil {
		return err
	}
	o.shipName = clonePtr(v)
	return nil
}

// SetShipAddress изменяет адрес доставки; разрешено только в состоянии New.
func (o *Order) SetShipAddress(v *string) error {
	if err := o.guardMutable(); err != nil {
		return err
	}
	o.shipAddress = clonePtr(v)
	return nil
}

// SetShipCity изменяет город доставки; разрешено только в состоянии New.
func (o *Order) SetShipCity(v *string) error {
	if err := o.guardMutable(); err != nil {
		return err
	}
	o.shipCity = clonePtr(v)
	return nil
}

// SetShipRegion изменяет регион доставки; разрешено только в состоянии New.
func (o *Order) SetShipRegion(v *string) error {
	if err := o.guardMutable(); err != nil {
		return err
	}
	o.shipRegion = clonePtr(v)
	return nil
}

// SetShipPostalCode изменяет почтовый индекс; разрешено только в состоянии New.
func (o *Order) SetShipPostalCode(v *string) error {
	if err := o.guardMutable(); err != nil {
		return err
	}
	o.shipPostalCode = clonePtr(v)
	return nil
}

// SetShipCountry изменяет страну доставки; разрешено только в состоянии New.
func (o *Order) SetShipCountry(v *string) error {
	if err := o.guardMutable(); err != nil {
		return err
	}
	o.shipCountry = clonePtr(v)
	return nil
}

// guardMutable проверяется до записи, поэтому отклонённая мутация не
// оставляет частичных изменений.
func (o *Order) guardMutable() error {
	if o.State() != OrderStateNew {
		return ErrOrderLocked
	}
	return nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
