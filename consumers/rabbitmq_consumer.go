package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bookings-api/events"
	"bookings-api/logging"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

// RabbitMQConsumer consume los eventos de reservas y calificaciones
type RabbitMQConsumer struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	queueName  string
	router     *events.Router
	timeout    time.Duration
	log        zerolog.Logger
}

// NewRabbitMQConsumer crea una nueva instancia de RabbitMQConsumer
func NewRabbitMQConsumer(rabbitURL, queueName string, router *events.Router) (*RabbitMQConsumer, error) {
	log := logging.WithComponent("rabbitmq_consumer")
	log.Info().Str("queue", queueName).Msg("Connecting to RabbitMQ")

	// Conectar con RabbitMQ
	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	// Crear channel
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Declarar la queue (misma declaración que el publisher)
	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return newConsumer(conn, ch, queueName, router, log), nil
}

func newConsumer(conn *amqp.Connection, ch *amqp.Channel, queueName string, router *events.Router, log zerolog.Logger) *RabbitMQConsumer {
	return &RabbitMQConsumer{
		connection: conn,
		channel:    ch,
		queueName:  queueName,
		router:     router,
		timeout:    30 * time.Second,
		log:        log,
	}
}

// Start empieza a consumir en una goroutine; termina cuando se cierra el channel
func (c *RabbitMQConsumer) Start() error {
	// Procesar un mensaje a la vez
	if err := c.channel.Qos(
		1,     // prefetch count
		0,     // prefetch size
		false, // global
	); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (manejamos manualmente)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.log.Info().Str("queue", c.queueName).Msg("Consumer registered, waiting for messages")

	go func() {
		for msg := range msgs {
			c.processMessage(msg)
		}
		c.log.Info().Msg("Delivery channel closed")
	}()

	return nil
}

// processMessage procesa un mensaje individual
//   - JSON inválido: Nack sin requeue (no tiene arreglo)
//   - error del handler: Nack con requeue para reintentar
//   - ok: Ack
func (c *RabbitMQConsumer) processMessage(msg amqp.Delivery) {
	var event events.Event
	if err := json.Unmarshal(msg.Body, &event); err != nil || event.Type == "" {
		c.log.Warn().Err(err).Str("message_id", msg.MessageId).Msg("Discarding malformed event")
		_ = msg.Nack(false, false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	if msg.CorrelationId != "" {
		ctx = logging.ContextWithRequestID(ctx, msg.CorrelationId)
	}

	if err := c.router.Dispatch(ctx, event); err != nil {
		logging.Ctx(ctx).Error().Err(err).
			Str("event_id", event.ID).
			Str("event_type", event.Type).
			Bool("redelivered", msg.Redelivered).
			Msg("Error processing event")
		// Un mensaje ya reentregado no se vuelve a encolar
		_ = msg.Nack(false, !msg.Redelivered)
		return
	}

	logging.Ctx(ctx).Debug().
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Msg("Event processed")

	if err := msg.Ack(false); err != nil {
		c.log.Error().Err(err).Msg("Error acknowledging message")
	}
}

// Close cierra las conexiones de RabbitMQ
func (c *RabbitMQConsumer) Close() error {
	var errs []error

	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing channel: %w", err))
		}
	}
	if c.connection != nil {
		if err := c.connection.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing connection: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ consumer: %v", errs)
	}

	c.log.Info().Msg("RabbitMQ consumer closed")
	return nil
}
