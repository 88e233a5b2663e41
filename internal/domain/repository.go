package domain

import "time"

// OrderRepository описывает требования к хранилищу заказов.
//
// Операции, которым нужно "проверить текущее состояние и изменить"
// (Update, Delete, SubmitToWork, MarkAsComplete), обязаны складывать
// guard прямо в условие мутирующего запроса: "ноль затронутых строк" —
// авторитетный сигнал сработавшего guard'а, отдельного окна
// чтение-потом-запись быть не должно.
type OrderRepository interface {
	// GetOrders возвращает все заказы без позиций.
	GetOrders() ([]*Order, error)
	// GetOrderByID возвращает заказ по идентификатору или ErrOrderNotFound.
	// При detailed вторым запросом подгружаются позиции с именами продуктов.
	GetOrderByID(id int, detailed bool) (*Order, error)
	// AddNew сохраняет новый заказ. Даты жизненного цикла у вызывающего
	// не берутся — хранилище всегда стартует их пустыми. Возвращается
	// заказ, перечитанный по присвоенному идентификатору.
	AddNew(order *Order) (*Order, error)
	// Update применяет изменяемые поля заказа. Возвращает ErrOrderLocked,
	// если сохранённая версия уже не в состоянии New или payload несёт
	// даты жизненного цикла; ErrOrderNotFound — если строки нет.
	// При успехе заказ перечитывается после записи.
	Update(order *Order) (*Order, error)
	// Delete удаляет заказ; разрешено только в состояниях New и InProgress.
	// Completed-заказы сохраняются бессрочно. Возвращает, была ли удалена строка.
	Delete(id int) (bool, error)
	// SubmitToWork проставляет OrderDate, переводя New → InProgress.
	// Возвращает false, если OrderDate уже установлен.
	SubmitToWork(id int, orderDate time.Time) (bool, error)
	// MarkAsComplete проставляет ShippedDate, переводя заказ в Completed
	// из любого нетерминального состояния. Возвращает false, если
	// ShippedDate уже установлен.
	MarkAsComplete(id int, shippedDate time.Time) (bool, error)
	// GetCustOrderHist возвращает историю заказов клиента из отчётной
	// процедуры хранилища.
	GetCustOrderHist(customerID string) ([]ProductHistory, error)
	// GetCustOrdersDetail возвращает детализацию заказа из отчётной
	// процедуры хранилища.
	GetCustOrdersDetail(orderID int) ([]OrderLine, error)
}
