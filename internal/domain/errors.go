package domain

import "errors"

var (
	// ErrOrderNotFound возвращается, если заказ не найден в хранилище.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderLocked — отклонённая мутация: поле закрыто для записи после
	// выхода заказа из состояния New, либо обновление пытается изменить
	// даты жизненного цикла через общий путь записи.
	ErrOrderLocked = errors.New("order is locked for changes")
	// ErrOrderRequired — в операцию записи передан nil-заказ.
	ErrOrderRequired = errors.New("order is required")
)

// IsLocked проверяет, является ли ошибка отклонённой мутацией.
func IsLocked(err error) bool {
	return errors.Is(err, ErrOrderLocked)
}

// IsNotFound проверяет, является ли ошибка отсутствием заказа.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound)
}
