package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
)

// publishEvent 把事件投递到消息队列，由外部服务负责发送通知。
// 写操作此时已经成功，投递失败只记录日志。
func (h *Handler) publishEvent(ctx context.Context, eventType string, data any) {
	if h.eventChannel == nil {
		return
	}

	body, err := json.Marshal(domain.EventMessage{Type: eventType, Data: data})
	if err != nil {
		slog.Error("序列化事件失败", "type", eventType, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.eventChannel.PublishWithContext(
		ctx,
		"",
		h.config.RabbitMQ.Queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	); err != nil {
		slog.Error("发送事件失败", "type", eventType, "error", err)
	}
}
