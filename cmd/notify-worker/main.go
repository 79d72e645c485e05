package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"atlas/internal/config"
	"atlas/internal/mq"
)

const (
	exchangeName = "bookings.events"
	queueName    = "booking-notifications"
)

// notify-worker consumes booking events and logs the notification that
// would go out. Swap the log call for a mail or push integration.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.AMQPURL == "" {
		log.Fatal("AMQP_URL must be set for the notify worker")
	}

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		log.Fatalf("declare exchange: %v", err)
	}

	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		log.Fatalf("declare queue: %v", err)
	}

	// booking.* catches created, cancelled and rescheduled.
	if err := ch.QueueBind(q.Name, "booking.*", exchangeName, false, nil); err != nil {
		log.Fatalf("bind queue: %v", err)
	}

	deliveries, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	go func() {
		for d := range deliveries {
			var env mq.EventEnvelope
			if err := json.Unmarshal(d.Body, &env); err != nil {
				log.Printf("bad event payload: %v", err)
				_ = d.Nack(false, false)
				continue
			}

			log.Printf("notify user=%d: %s booking=%d workspace=%d %s..%s",
				env.Booking.UserID,
				env.Type,
				env.Booking.BookingID,
				env.Booking.WorkspaceID,
				env.Booking.StartTime.Format("2006-01-02 15:04"),
				env.Booking.EndTime.Format("15:04"),
			)
			_ = d.Ack(false)
		}
	}()

	log.Printf("notify worker consuming from %s", q.Name)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
}
