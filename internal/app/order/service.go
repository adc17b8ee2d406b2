package order

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/YelzhanWeb/mamantilie/internal/adapter/logger"
	"github.com/YelzhanWeb/mamantilie/internal/app/assistant"
	"github.com/YelzhanWeb/mamantilie/internal/app/stats"
	"github.com/YelzhanWeb/mamantilie/internal/clock"
	"github.com/YelzhanWeb/mamantilie/internal/domain"
	"github.com/YelzhanWeb/mamantilie/internal/interfaces"
)

type Service struct {
	store     interfaces.OrderStore
	catalog   *domain.Catalog
	resolver  *assistant.Resolver
	publisher interfaces.MessagePublisher
	clock     clock.Clock
	logger    logger.Logger
	validate  *validator.Validate
}

var _ interfaces.OrderService = (*Service)(nil)

// NewService wires the order operations. publisher may be nil when no broker is configured.
func NewService(store interfaces.OrderStore, catalog *domain.Catalog, publisher interfaces.MessagePublisher, clk clock.Clock, logger logger.Logger) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	return &Service{
		store:     store,
		catalog:   catalog,
		resolver:  assistant.New(catalog),
		publisher: publisher,
		clock:     clk,
		logger:    logger,
		validate:  v,
	}
}

func (s *Service) SubmitOrder(ctx context.Context, cmd interfaces.SubmitOrderCommand) (*domain.Order, error) {
	cmd.CustomerName = strings.TrimSpace(cmd.CustomerName)
	cmd.FoodType = strings.TrimSpace(cmd.FoodType)
	cmd.Quantity = strings.TrimSpace(cmd.Quantity)

	// 1. Валидация входных данных
	quantity, verrs, err := s.validateSubmit(cmd)
	if err != nil {
		return nil, err
	}
	if len(verrs) > 0 {
		s.logger.Debug("validation_failed", "Order validation failed", "", map[string]interface{}{
			"errors": verrs,
		})
		return nil, verrs
	}

	// 2. Создание заказа (цена фиксируется в момент создания)
	order := domain.NewOrder(s.store.IDs(), s.catalog, cmd.CustomerName, cmd.FoodType, quantity, cmd.SpecialRequests, s.clock.Now())

	// 3. Сохранение
	if err := s.store.Append(ctx, order); err != nil {
		s.logger.Error("order_submit_failed", "Failed to store order", "", map[string]interface{}{
			"order_id": order.ID,
		}, err)
		return nil, fmt.Errorf("failed to store order: %w", err)
	}

	s.logger.Info("order_submitted", fmt.Sprintf("Order %s submitted", order.ID), "", map[string]interface{}{
		"order_id":  order.ID,
		"food_type": order.FoodType,
		"quantity":  order.Quantity,
		"price":     order.Price,
	})

	return order, nil
}

// validateSubmit returns the parsed quantity and every field problem found.
// Food types must be on the menu; an unknown dish is a field error rather than a free order.
func (s *Service) validateSubmit(cmd interfaces.SubmitOrderCommand) (int, domain.ValidationErrors, error) {
	var verrs domain.ValidationErrors

	if err := s.validate.Struct(cmd); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return 0, nil, fmt.Errorf("failed to validate order: %w", err)
		}
		for _, fe := range fieldErrs {
			verrs = append(verrs, domain.ValidationError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
	}

	quantity := 0
	if cmd.Quantity != "" {
		n, err := strconv.Atoi(cmd.Quantity)
		switch {
		case err != nil && !errors.Is(err, strconv.ErrRange), err == nil && n < 1:
			verrs = append(verrs, domain.ValidationError{
				Field:   "quantity",
				Message: "quantity must be a whole number of at least 1",
			})
		case err != nil, n > domain.MaxQuantity:
			verrs = append(verrs, domain.ValidationError{
				Field:   "quantity",
				Message: fmt.Sprintf("quantity must not exceed %d", domain.MaxQuantity),
			})
		}
		quantity = n
	}

	if cmd.FoodType != "" {
		if _, ok := s.catalog.Lookup(cmd.FoodType); !ok {
			verrs = append(verrs, domain.ValidationError{
				Field:   "food_type",
				Message: fmt.Sprintf("%q is not on the menu", cmd.FoodType),
			})
		}
	}

	return quantity, verrs, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return strings.ReplaceAll(fe.Field(), "_", " ") + " is required"
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", strings.ReplaceAll(fe.Field(), "_", " "), fe.Param())
	default:
		return fe.Error()
	}
}

func (s *Service) ListOrders(ctx context.Context) []*domain.Order {
	return s.store.List(ctx)
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) GetStats(ctx context.Context) domain.Stats {
	return stats.Compute(s.store.List(ctx))
}

func (s *Service) Menu(_ context.Context) []domain.MenuItem {
	return s.catalog.Items()
}

// Ask answers an assistant question against the current orders.
func (s *Service) Ask(ctx context.Context, query string) string {
	return s.resolver.Answer(query, s.store.List(ctx))
}

// SetStatus moves an order to another delivery stage. It does not change the completed flag.
func (s *Service) SetStatus(ctx context.Context, authorized bool, id, status string) (*domain.Order, error) {
	if !authorized {
		return nil, domain.ErrUnauthorized
	}

	newStatus, err := domain.ParseDeliveryStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, status)
	}

	before, updated, err := s.store.UpdateStatus(ctx, id, newStatus)
	if err != nil {
		if !errors.Is(err, domain.ErrOrderNotFound) {
			s.logger.Error("status_update_failed", "Failed to update order status", "", map[string]interface{}{
				"order_id": id,
			}, err)
		}
		return nil, err
	}

	s.logger.Info("status_updated", fmt.Sprintf("Order %s is now %s", id, newStatus), "", map[string]interface{}{
		"order_id":   id,
		"old_status": before.DeliveryStatus,
		"new_status": newStatus,
	})
	s.notifyStatus(ctx, updated, before.DeliveryStatus)

	return updated, nil
}

// ToggleComplete flips the completed flag. Completing an order also marks it Delivered
// and raises the celebrate event.
func (s *Service) ToggleComplete(ctx context.Context, authorized bool, id string) (*interfaces.ToggleResult, error) {
	if !authorized {
		return nil, domain.ErrUnauthorized
	}

	before, updated, err := s.store.ToggleCompletion(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrOrderNotFound) {
			s.logger.Error("completion_toggle_failed", "Failed to toggle order completion", "", map[string]interface{}{
				"order_id": id,
			}, err)
		}
		return nil, err
	}
	completedNow := !before.Completed && updated.Completed

	s.logger.Info("completion_toggled", fmt.Sprintf("Order %s completed=%t", id, updated.Completed), "", map[string]interface{}{
		"order_id":  id,
		"completed": updated.Completed,
	})

	if completedNow {
		if before.DeliveryStatus != updated.DeliveryStatus {
			s.notifyStatus(ctx, updated, before.DeliveryStatus)
		}
		s.celebrate(ctx, updated)
	}

	return &interfaces.ToggleResult{Order: updated, Celebrate: completedNow}, nil
}

func (s *Service) RemoveOrder(ctx context.Context, authorized bool, id string) error {
	if !authorized {
		return domain.ErrUnauthorized
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrOrderNotFound) {
			s.logger.Error("order_delete_failed", "Failed to delete order", "", map[string]interface{}{
				"order_id": id,
			}, err)
		}
		return err
	}

	s.logger.Info("order_deleted", fmt.Sprintf("Order %s deleted", id), "", map[string]interface{}{
		"order_id": id,
	})
	return nil
}

func (s *Service) notifyStatus(ctx context.Context, order *domain.Order, oldStatus domain.DeliveryStatus) {
	if s.publisher == nil {
		return
	}

	msg := interfaces.StatusUpdateMessage{
		EventID:      uuid.NewString(),
		Event:        interfaces.EventStatusUpdated,
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		OldStatus:    oldStatus,
		NewStatus:    order.DeliveryStatus,
		Completed:    order.Completed,
		Timestamp:    s.clock.Now(),
	}
	if err := s.publisher.PublishStatusUpdate(ctx, msg); err != nil {
		// Уведомление не должно ломать изменение статуса
		s.logger.Error("rabbitmq_publish_failed", "Failed to publish status update", "", map[string]interface{}{
			"order_id": order.ID,
		}, err)
	}
}

func (s *Service) celebrate(ctx context.Context, order *domain.Order) {
	if s.publisher == nil {
		return
	}

	msg := interfaces.CelebrateMessage{
		EventID:      uuid.NewString(),
		Event:        interfaces.EventOrderCelebrate,
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		FoodType:     order.FoodType,
		Timestamp:    s.clock.Now(),
	}
	if err := s.publisher.PublishCelebrate(ctx, msg); err != nil {
		s.logger.Error("rabbitmq_publish_failed", "Failed to publish celebrate event", "", map[string]interface{}{
			"order_id": order.ID,
		}, err)
	}
}
