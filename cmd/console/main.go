package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/example/kitchen-console/internal/auth"
	"github.com/example/kitchen-console/internal/countdown"
	"github.com/example/kitchen-console/internal/httpapi"
	"github.com/example/kitchen-console/internal/infrastructure/kafka"
	"github.com/example/kitchen-console/internal/infrastructure/natsstream"
	"github.com/example/kitchen-console/internal/infrastructure/rest"
	"github.com/example/kitchen-console/internal/infrastructure/stream"
	"github.com/example/kitchen-console/internal/recon"
	"github.com/example/kitchen-console/internal/session"
	"github.com/example/kitchen-console/internal/sound"
	"github.com/example/kitchen-console/internal/state"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Configuration from environment variables
	apiURL := getEnv("API_URL", "http://localhost:3000")
	listenAddr := getEnv("LISTEN_ADDR", "localhost:8090")
	transport := getEnv("STREAM_TRANSPORT", "nats")
	sessionPath := getEnv("SESSION_PATH", defaultSessionPath())
	phone := getEnv("KITCHEN_PHONE", "")
	password := getEnv("KITCHEN_PASSWORD", "")

	log.Println("[Console] ========================================")
	log.Println("[Console] Kitchen Console")
	log.Println("[Console] ========================================")
	log.Printf("[Console] Backend: %s", apiURL)
	log.Printf("[Console] Transport: %s", transport)
	log.Printf("[Console] Listen: %s", listenAddr)

	sess, err := session.Open(sessionPath)
	if err != nil {
		log.Fatalf("[Console] Failed to open session state: %v", err)
	}
	log.Printf("[Console] Session: %s", sess.SessionID())

	client := rest.NewClient(apiURL)

	kitchenID, err := establishAuth(ctx, client, sess, phone, password)
	if err != nil {
		log.Fatalf("[Console] Authentication failed: %v", err)
	}
	log.Printf("[Console] Kitchen: %s", kitchenID)

	source := newSource(transport, kitchenID)
	defer source.Close()

	orders := state.NewOrderStore(client, kitchenID)
	notifications := state.NewNotificationQueue()
	kitchen := state.NewKitchenState()

	// Fetch-on-login reconciliation of the persisted flag
	if status, err := client.KitchenStatus(ctx, kitchenID); err != nil {
		log.Printf("[Console] Kitchen status fetch failed, using persisted flag: %v", err)
		kitchen.Set(sess.KitchenOnline())
	} else {
		kitchen.Set(status)
		if err := sess.SetKitchenOnline(status); err != nil {
			log.Printf("[Console] Failed to persist kitchen status: %v", err)
		}
	}

	if err := orders.FetchAll(ctx); err != nil {
		log.Printf("[Console] Initial order fetch failed, starting empty: %v", err)
	}

	board := countdown.NewBoard(orders)
	go board.Run(ctx)

	reconciler := recon.NewReconciler(source, orders, notifications, kitchen, sound.NewBell(os.Stdout))
	if err := reconciler.Start(ctx); err != nil {
		log.Fatalf("[Console] Failed to start reconciler: %v", err)
	}
	defer reconciler.Stop()

	handlers := httpapi.NewHandlers(kitchenID, orders, notifications, kitchen, board, client, source)
	srv := &http.Server{Addr: listenAddr, Handler: httpapi.NewRouter(handlers)}

	go func() {
		log.Printf("[Console] Serving on http://%s", listenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Console] HTTP server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Console] Shutting down...")
	srv.Shutdown(context.Background())
	cancel()
}

// establishAuth reuses a persisted token when still valid, otherwise logs
// in with the configured credentials.
func establishAuth(ctx context.Context, client *rest.Client, sess *session.Store, phone, password string) (string, error) {
	if saved := sess.Auth(); saved.Token != "" {
		if claims, err := auth.ParseKitchenToken(saved.Token); err == nil {
			client.SetToken(saved.Token)
			return claims.KitchenID, nil
		}
		log.Println("[Console] Persisted token is stale, logging in again")
	}

	token, err := client.Login(ctx, phone, password)
	if err != nil {
		return "", err
	}
	claims, err := auth.ParseKitchenToken(token)
	if err != nil {
		return "", err
	}

	client.SetToken(token)
	if err := sess.SetAuth(session.AuthSlice{
		Token:       token,
		KitchenID:   claims.KitchenID,
		KitchenName: claims.KitchenName,
		Phone:       claims.Phone,
	}); err != nil {
		log.Printf("[Console] Failed to persist auth: %v", err)
	}
	return claims.KitchenID, nil
}

func newSource(transport, kitchenID string) stream.Source {
	switch transport {
	case "kafka":
		brokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
		inTopic := getEnv("KAFKA_IN_TOPIC", "kitchen-events")
		outTopic := getEnv("KAFKA_OUT_TOPIC", "kitchen-actions")
		group := getEnv("KAFKA_CONSUMER_GROUP", "kitchen-console-"+kitchenID)
		return kafka.NewSource(brokers, inTopic, outTopic, group, stream.DefaultRetryPolicy)
	default:
		url := getEnv("NATS_URL", "nats://localhost:4222")
		inSubject := getEnv("NATS_IN_SUBJECT", "kitchen."+kitchenID+".events")
		outSubject := getEnv("NATS_OUT_SUBJECT", "kitchen."+kitchenID+".actions")
		return natsstream.NewSource(url, inSubject, outSubject, stream.DefaultRetryPolicy)
	}
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "kitchen-console", "session.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
