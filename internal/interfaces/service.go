package interfaces

import (
	"context"

	"github.com/YelzhanWeb/mamantilie/internal/domain"
)

// Команда оформления заказа, как она приходит из формы.
// Quantity stays text so that a non-numeric value is reported as a field error.
type SubmitOrderCommand struct {
	CustomerName    string `json:"customer_name" validate:"required,max=100"`
	FoodType        string `json:"food_type" validate:"required"`
	Quantity        string `json:"quantity" validate:"required"`
	SpecialRequests string `json:"special_requests" validate:"max=500"`
}

// Интерфейсы Сервисов (Business Logic)
type OrderService interface {
	SubmitOrder(ctx context.Context, cmd SubmitOrderCommand) (*domain.Order, error)
	ListOrders(ctx context.Context) []*domain.Order
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	GetStats(ctx context.Context) domain.Stats
	Menu(ctx context.Context) []domain.MenuItem
	Ask(ctx context.Context, query string) string

	SetStatus(ctx context.Context, authorized bool, id, status string) (*domain.Order, error)
	ToggleComplete(ctx context.Context, authorized bool, id string) (*ToggleResult, error)
	RemoveOrder(ctx context.Context, authorized bool, id string) error
}

// Результат переключения выполнения заказа
type ToggleResult struct {
	Order     *domain.Order
	Celebrate bool
}

// Admin gate (Adapter/HTTP)
type AdminAuthenticator interface {
	Login(password string) (token string, err error)
	Verify(token string) error
}
