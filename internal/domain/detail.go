package domain

// OrderDetail — позиция заказа. Read-only проекция: создаётся только при
// детальном чтении заказа (join с каталогом продуктов), пути записи нет.
type OrderDetail struct {
	OrderID     int
	ProductID   int
	UnitPrice   float64
	Quantity    int32
	Discount    float64
	ProductName string
}

// ProductHistory — строка отчёта "история заказов клиента":
// суммарное количество по каждому продукту.
type ProductHistory struct {
	ProductName string
	Total       int64
}

// OrderLine — строка отчёта "детализация заказа". Discount отдаётся в
// процентах, ExtendedPrice округлена до двух знаков — как в исходной
// отчётной процедуре.
type OrderLine struct {
	ProductName   string
	UnitPrice     float64
	Quantity      int32
	Discount      int32
	ExtendedPrice float64
}
