package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	orderreaderv1 "github.com/muhammadchandra19/orderbook/internal/domain/order-reader/v1"
)

func main() {
	var (
		brokers     = flag.String("brokers", "localhost:9092", "Kafka broker addresses (comma-separated)")
		topic       = flag.String("topic", "orders", "Kafka topic name")
		pair        = flag.String("pair", "BTC-USD", "Trading pair stamped on every event")
		file        = flag.String("file", "", "JSON file with order events (optional, generates events if not provided)")
		delay       = flag.Duration("delay", 100*time.Millisecond, "Delay between events")
		count       = flag.Int("count", 1000, "Number of events to generate")
		basePrice   = flag.Int64("base-price", 394550, "Base price in integer ticks")
		priceSpread = flag.Int64("price-spread", 2000, "Spread around the base price in ticks")
	)
	flag.Parse()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(*brokers, ",")...),
		Topic:        *topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
	defer writer.Close()

	ctx := context.Background()

	var events []orderreaderv1.OrderEvent
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("Failed to read file %s: %v", *file, err)
		}
		if err := json.Unmarshal(data, &events); err != nil {
			log.Fatalf("Failed to parse JSON from file: %v", err)
		}
		log.Printf("Loaded %d events from file: %s", len(events), *file)
	} else {
		log.Printf("Generating %d events...", *count)
		events = generateEvents(rng, *count, *pair, *basePrice, *priceSpread)
	}

	log.Printf("Sending events to Kafka broker: %s, topic: %s", *brokers, *topic)
	log.Printf("Delay between events: %v", *delay)

	sent := 0
	for i, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			log.Printf("Failed to marshal event %d: %v", i+1, err)
			continue
		}

		msg := kafka.Message{
			Key:   []byte(event.Pair),
			Value: payload,
			Time:  time.Now(),
		}

		if err := writer.WriteMessages(ctx, msg); err != nil {
			log.Printf("Failed to send event %d (order %d): %v", i+1, event.ID, err)
			continue
		}
		sent++

		if sent%100 == 0 {
			log.Printf("Sent %d/%d events...", sent, len(events))
		}

		if i < len(events)-1 && *delay > 0 {
			time.Sleep(*delay)
		}
	}

	log.Printf("Done: sent %d/%d events", sent, len(events))

	places, cancels, modifies := 0, 0, 0
	buys, sells := 0, 0
	for _, event := range events {
		switch event.Action {
		case orderreaderv1.ActionPlace:
			places++
		case orderreaderv1.ActionCancel:
			cancels++
		case orderreaderv1.ActionModify:
			modifies++
		}
		switch event.Side {
		case "buy":
			buys++
		case "sell":
			sells++
		}
	}

	log.Printf("Summary: %d places (%d buy / %d sell), %d cancels, %d modifies",
		places, buys, sells, cancels, modifies)
}

// generateEvents builds a plausible stream for one pair: mostly placements
// around the base price, mixed with cancels and modifies that target ids
// placed earlier in the stream.
func generateEvents(rng *rand.Rand, count int, pair string, basePrice, priceSpread int64) []orderreaderv1.OrderEvent {
	events := make([]orderreaderv1.OrderEvent, 0, count)
	placed := make([]uint64, 0, count)
	nextID := uint64(1)

	randomSideAndPrice := func() (string, int64) {
		if rng.Float64() < 0.5 {
			price := basePrice - rng.Int63n(priceSpread+1)
			if price <= 0 {
				price = 1
			}
			return "buy", price
		}
		return "sell", basePrice + rng.Int63n(priceSpread+1)
	}

	for len(events) < count {
		roll := rng.Float64()
		switch {
		case roll < 0.7 || len(placed) == 0:
			side, price := randomSideAndPrice()

			orderType := "gtc"
			if rng.Float64() < 0.2 {
				orderType = "ioc"
			}

			events = append(events, orderreaderv1.OrderEvent{
				Action:   orderreaderv1.ActionPlace,
				ID:       nextID,
				Pair:     pair,
				Side:     side,
				Type:     orderType,
				Price:    price,
				Quantity: 1 + rng.Int63n(500),
			})
			placed = append(placed, nextID)
			nextID++

		case roll < 0.85:
			events = append(events, orderreaderv1.OrderEvent{
				Action: orderreaderv1.ActionCancel,
				ID:     placed[rng.Intn(len(placed))],
				Pair:   pair,
			})

		default:
			side, price := randomSideAndPrice()

			events = append(events, orderreaderv1.OrderEvent{
				Action:   orderreaderv1.ActionModify,
				ID:       placed[rng.Intn(len(placed))],
				Pair:     pair,
				Side:     side,
				Price:    price,
				Quantity: 1 + rng.Int63n(500),
			})
		}
	}

	return events
}
