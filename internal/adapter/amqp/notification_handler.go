package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/YelzhanWeb/mamantilie/internal/adapter/logger"
	"github.com/YelzhanWeb/mamantilie/internal/interfaces"
)

type NotificationHandler struct {
	logger logger.Logger
	out    io.Writer
}

// NewNotificationHandler prints every order event to out.
func NewNotificationHandler(logger logger.Logger, out io.Writer) *NotificationHandler {
	return &NotificationHandler{
		logger: logger,
		out:    out,
	}
}

type envelope struct {
	Event string `json:"event"`
}

func (h *NotificationHandler) HandleNotification(ctx context.Context, body []byte) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse notification", "", nil, err)
		return err
	}

	switch env.Event {
	case interfaces.EventStatusUpdated:
		var msg interfaces.StatusUpdateMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			h.logger.Error("message_parse_failed", "Failed to parse status update", "", nil, err)
			return err
		}
		h.logger.Debug("notification_received", fmt.Sprintf("Received status update for order %s", msg.OrderID),
			msg.EventID, map[string]interface{}{
				"order_id":   msg.OrderID,
				"new_status": msg.NewStatus,
			})
		fmt.Fprintf(h.out, "Notification for order %s (%s): status changed from '%s' to '%s'\n",
			msg.OrderID, msg.CustomerName, msg.OldStatus, msg.NewStatus)

	case interfaces.EventOrderCelebrate:
		var msg interfaces.CelebrateMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			h.logger.Error("message_parse_failed", "Failed to parse celebrate event", "", nil, err)
			return err
		}
		h.logger.Debug("notification_received", fmt.Sprintf("Order %s completed", msg.OrderID), msg.EventID, map[string]interface{}{
			"order_id": msg.OrderID,
		})
		fmt.Fprintf(h.out, "Order %s for %s (%s) is complete. Hongera!\n", msg.OrderID, msg.CustomerName, msg.FoodType)

	default:
		h.logger.Warn("unknown_event", fmt.Sprintf("Ignoring event %q", env.Event), "", nil, nil)
	}

	return nil
}
