package rabbitmq

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// OrderQueue is the durable queue carrying order events.
const OrderQueue = "order_queue"

// OrderCreatedEvent is published once an order has been committed.
type OrderCreatedEvent struct {
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	Status      string    `json:"status"`
	TotalAmount int64     `json:"total_amount"`
	ItemCount   int       `json:"item_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex // amqp.Channel is not safe for concurrent publishing
	log     *zap.Logger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the order queue.
func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := declareOrderQueue(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Info("RabbitMQ client connected", zap.String("queue", OrderQueue))

	return &Client{
		conn:    conn,
		channel: ch,
		log:     log,
	}, nil
}

func declareOrderQueue(ch *amqp.Channel) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		OrderQueue, // name
		true,       // durable
		false,      // delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("failed to declare %s: %w", OrderQueue, err)
	}
	return q, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish sends a persistent JSON message.
func (c *Client) Publish(exchange, routingKey string, body []byte) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.channel.Publish(
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// PublishOrderCreated publishes the event to the order queue through the default exchange.
func (c *Client) PublishOrderCreated(event OrderCreatedEvent) error {
	body, err := EncodeOrderCreated(event)
	if err != nil {
		return err
	}
	if err := c.Publish("", OrderQueue, body); err != nil {
		return err
	}
	c.log.Debug("order event sent", zap.String("order_id", event.OrderID))
	return nil
}

// EncodeOrderCreated marshals an event into its wire form.
func EncodeOrderCreated(event OrderCreatedEvent) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order event: %w", err)
	}
	return body, nil
}

// DecodeOrderCreated parses the wire form of an event.
func DecodeOrderCreated(body []byte) (OrderCreatedEvent, error) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return OrderCreatedEvent{}, fmt.Errorf("failed to unmarshal order event: %w", err)
	}
	return event, nil
}

// ConsumeOrderEvents delivers each message of the order queue to handler in a goroutine.
// Messages are acked when handler returns nil and nacked without requeue otherwise.
func (c *Client) ConsumeOrderEvents(handler func(event OrderCreatedEvent) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := declareOrderQueue(c.channel)
	if err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		queue.Name, // queue
		"",         // consumer tag
		false,      // auto-ack
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			c.handleDelivery(msg, handler)
		}
	}()

	return nil
}

func (c *Client) handleDelivery(msg amqp.Delivery, handler func(event OrderCreatedEvent) error) {
	event, err := DecodeOrderCreated(msg.Body)
	if err == nil {
		err = handler(event)
	}
	if err != nil {
		c.log.Warn("failed to process order event", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(err))
		// Malformed or unprocessable messages would loop forever if requeued.
		if nackErr := msg.Nack(false, false); nackErr != nil {
			c.log.Warn("failed to nack order event", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(nackErr))
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		c.log.Warn("failed to ack order event", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(ackErr))
	}
}
