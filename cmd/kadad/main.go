// Command kadad runs the Kada Commute attendance daemon: the HTTP API, the
// TCP log stream, and the tabular store behind the attendance ledger.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/kada-dev/kada-commute/internal/api"
	"github.com/kada-dev/kada-commute/internal/ledger"
	"github.com/kada-dev/kada-commute/internal/notify"
	"github.com/kada-dev/kada-commute/internal/server"
	"github.com/kada-dev/kada-commute/internal/tabular"
	"github.com/kada-dev/kada-commute/internal/vault"
)

func main() {
	fmt.Println("Starting Kada Commute daemon...")

	// Env file first, then real environment wins.
	_ = godotenv.Load()

	httpPort := envOr("KADA_HTTP_PORT", "8000")
	streamPort := envOr("KADA_STREAM_PORT", "8001")
	workbook := os.Getenv("KADA_WORKBOOK")
	dataDir := envOr("KADA_DATA_DIR", "./data")
	useTLS := os.Getenv("KADA_DISABLE_TLS") != "true"

	timeout := 10 * time.Second
	if raw := os.Getenv("KADA_REQUEST_TIMEOUT"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("Invalid KADA_REQUEST_TIMEOUT %q: %v", raw, err)
		}
		timeout = parsed
	}

	// Storage backend: an .xlsx workbook when configured, otherwise the
	// embedded store with JSON snapshots.
	var store tabular.Store
	var flush func()
	if workbook != "" {
		ws, err := tabular.OpenWorkbook(workbook)
		if err != nil {
			log.Fatalf("Failed to open workbook: %v", err)
		}
		store = ws
		flush = func() { ws.Close() }
		fmt.Printf("Storage: workbook %s\n", workbook)
	} else {
		persister, err := tabular.NewPersistence(dataDir)
		if err != nil {
			log.Fatalf("Failed to initialize persistence: %v", err)
		}
		initial, err := persister.LoadAll()
		if err != nil {
			log.Printf("Warning: could not load existing data: %v", err)
		}
		ms := tabular.NewMemStore(initial, persister)
		store = ms
		flush = ms.Wait
		fmt.Printf("Storage: embedded store in %s (%d partitions loaded)\n", dataDir, len(initial))
	}

	logs := notify.NewBroadcaster(0)
	ldg := ledger.NewSerialized(ledger.New(store, nil, logs))

	// TCP log stream.
	stream := server.NewStreamServer(logs)
	if useTLS {
		cert, err := vault.GenerateSelfSignedCert()
		if err != nil {
			log.Fatalf("Failed to generate TLS certificate: %v", err)
		}
		stream.SetCertificate(cert)
		fmt.Println("Log stream TLS enabled.")
	} else {
		fmt.Println("Log stream TLS disabled (KADA_DISABLE_TLS=true).")
	}

	// HTTP API.
	h := &api.Handler{Ledger: ldg, Logs: logs, Timeout: timeout}
	r := gin.Default()

	// CORS for the web front-end.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})
	h.Routes(r)

	go func() {
		fmt.Printf("Attendance API listening on :%s\n", httpPort)
		if err := r.Run(":" + httpPort); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown: stop the stream, flush the store, exit.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutdown signal received. Finalizing storage...")
		stream.Stop()
		logs.Close()
		flush()
		fmt.Println("Storage flushed. Exiting.")
		os.Exit(0)
	}()

	fmt.Printf("Log stream listening on :%s (TCP)\n", streamPort)
	if err := stream.Listen(streamPort); err != nil {
		log.Fatalf("Log stream failed: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
