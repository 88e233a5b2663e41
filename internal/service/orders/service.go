package orders

import (
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"northwind/internal/domain"
	"northwind/internal/metrics"
)

// Имена операций для метрик и логов.
const (
	opGetOrders           = "get_orders"
	opGetOrderByID        = "get_order_by_id"
	opAddNew              = "add_new"
	opUpdate              = "update"
	opDelete              = "delete"
	opSubmitToWork        = "submit_to_work"
	opMarkAsComplete      = "mark_as_complete"
	opGetCustOrderHist    = "get_cust_order_hist"
	opGetCustOrdersDetail = "get_cust_orders_detail"
)

// Service — прикладной слой над OrderRepository: пробрасывает операции
// хранилища, фиксирует метрики и публикует события жизненного цикла.
// Guard'ы не дублируются: их исход приходит из хранилища, сервис лишь
// классифицирует его для наблюдаемости.
type Service struct {
	repo    domain.OrderRepository
	events  domain.EventPublisher
	logger  *log.Entry
	metrics *metrics.RepositoryMetrics
}

// NewService создаёт рабочий экземпляр сервиса. Publisher опционален:
// при nil события не публикуются.
func NewService(repo domain.OrderRepository, events domain.EventPublisher, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "orders")
	}
	return &Service{
		repo:    repo,
		events:  events,
		logger:  logger,
		metrics: metrics.NewRepositoryMetrics(),
	}
}

// NewServiceWithoutMetrics создаёт сервис без метрик (для тестов).
func NewServiceWithoutMetrics(repo domain.OrderRepository, events domain.EventPublisher, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "orders")
	}
	return &Service{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// GetOrders возвращает все заказы без позиций.
func (s *Service) GetOrders() ([]*domain.Order, error) {
	defer s.observe(opGetOrders, time.Now())

	result, err := s.repo.GetOrders()
	s.record(opGetOrders, err, true)
	return result, err
}

// GetOrderByID возвращает заказ, при detailed — вместе с позициями.
func (s *Service) GetOrderByID(id int, detailed bool) (*domain.Order, error) {
	defer s.observe(opGetOrderByID, time.Now())

	result, err := s.repo.GetOrderByID(id, detailed)
	s.record(opGetOrderByID, err, true)
	if err != nil && !domain.IsNotFound(err) {
		s.logger.WithError(err).WithField("order_id", id).Error("get order failed")
	}
	return result, err
}

// AddNew сохраняет новый заказ и публикует событие order.created.
func (s *Service) AddNew(order *domain.Order) (*domain.Order, error) {
	defer s.observe(opAddNew, time.Now())

	saved, err := s.repo.AddNew(order)
	s.record(opAddNew, err, true)
	if err != nil {
		s.logger.WithError(err).Error("add new order failed")
		return nil, err
	}

	s.publish(domain.EventOrderCreated, saved.OrderID(), saved.CustomerID(), saved.State())
	return saved, nil
}

// Update применяет изменяемые поля заказа и публикует событие order.updated.
func (s *Service) Update(order *domain.Order) (*domain.Order, error) {
	defer s.observe(opUpdate, time.Now())

	saved, err := s.repo.Update(order)
	s.record(opUpdate, err, true)
	if err != nil {
		if domain.IsLocked(err) || domain.IsNotFound(err) {
			s.logger.WithError(err).Warn("order update rejected")
		} else {
			s.logger.WithError(err).Error("order update failed")
		}
		return nil, err
	}

	s.publish(domain.EventOrderUpdated, saved.OrderID(), saved.CustomerID(), saved.State())
	return saved, nil
}

// Delete удаляет заказ, если тот ещё не завершён.
func (s *Service) Delete(id int) (bool, error) {
	defer s.observe(opDelete, time.Now())

	// Строка после удаления недоступна, поэтому данные для события
	// снимаются до мутации. На guard это не влияет: он остаётся в
	// условии удаляющего запроса.
	var customerID *string
	if current, err := s.repo.GetOrderByID(id, false); err == nil {
		customerID = current.CustomerID()
	}

	deleted, err := s.repo.Delete(id)
	s.record(opDelete, err, deleted)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", id).Error("order delete failed")
		return false, err
	}
	if !deleted {
		s.logger.WithField("order_id", id).Warn("order delete rejected")
		return false, nil
	}

	s.publish(domain.EventOrderDeleted, id, customerID, domain.OrderStateNew)
	return true, nil
}

// SubmitToWork переводит заказ в работу и публикует событие order.submitted.
func (s *Service) SubmitToWork(id int, orderDate time.Time) (bool, error) {
	defer s.observe(opSubmitToWork, time.Now())

	ok, err := s.repo.SubmitToWork(id, orderDate)
	s.record(opSubmitToWork, err, ok)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", id).Error("submit to work failed")
		return false, err
	}
	if !ok {
		s.logger.WithField("order_id", id).Warn("submit to work rejected")
		return false, nil
	}

	s.publish(domain.EventOrderSubmitted, id, nil, domain.OrderStateInProgress)
	return true, nil
}

// MarkAsComplete завершает заказ и публикует событие order.completed.
func (s *Service) MarkAsComplete(id int, shippedDate time.Time) (bool, error) {
	defer s.observe(opMarkAsComplete, time.Now())

	ok, err := s.repo.MarkAsComplete(id, shippedDate)
	s.record(opMarkAsComplete, err, ok)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", id).Error("mark as complete failed")
		return false, err
	}
	if !ok {
		s.logger.WithField("order_id", id).Warn("mark as complete rejected")
		return false, nil
	}

	s.publish(domain.EventOrderCompleted, id, nil, domain.OrderStateCompleted)
	return true, nil
}

// GetCustOrderHist возвращает историю заказов клиента.
func (s *Service) GetCustOrderHist(customerID string) ([]domain.ProductHistory, error) {
	defer s.observe(opGetCustOrderHist, time.Now())

	result, err := s.repo.GetCustOrderHist(customerID)
	s.record(opGetCustOrderHist, err, true)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", customerID).Error("order history failed")
	}
	return result, err
}

// GetCustOrdersDetail возвращает детализацию заказа.
func (s *Service) GetCustOrdersDetail(orderID int) ([]domain.OrderLine, error) {
	defer s.observe(opGetCustOrdersDetail, time.Now())

	result, err := s.repo.GetCustOrdersDetail(orderID)
	s.record(opGetCustOrdersDetail, err, true)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", orderID).Error("orders detail failed")
	}
	return result, err
}

// publish отправляет событие жизненного цикла. Ошибка публикации не
// откатывает уже выполненную мутацию, только логируется.
func (s *Service) publish(eventType string, orderID int, customerID *string, state domain.OrderState) {
	if s.events == nil {
		return
	}

	event := domain.LifecycleEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		OrderID:    orderID,
		State:      state,
		OccurredAt: time.Now().UTC(),
	}
	if customerID != nil {
		event.CustomerID = *customerID
	}

	if err := s.events.Publish(event); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"event_type": eventType,
			"order_id":   orderID,
		}).Warn("failed to publish lifecycle event")
		return
	}

	if s.metrics != nil {
		s.metrics.RecordEventPublished()
	}
}

// record классифицирует исход операции: ошибка guard'а или false-результат
// мутации считаются rejected, остальные ошибки — error.
func (s *Service) record(operation string, err error, ok bool) {
	if s.metrics == nil {
		return
	}

	outcome := metrics.OutcomeOK
	switch {
	case err != nil && (domain.IsLocked(err) || domain.IsNotFound(err)):
		outcome = metrics.OutcomeRejected
	case err != nil:
		outcome = metrics.OutcomeError
	case !ok:
		outcome = metrics.OutcomeRejected
	}
	s.metrics.RecordOperation(operation, outcome)
}

func (s *Service) observe(operation string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordOperationDuration(operation, time.Since(start))
}
