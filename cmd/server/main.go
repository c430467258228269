package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"knockout-whist/internal/gateway"
	"knockout-whist/internal/room"
	"knockout-whist/internal/session"
	"knockout-whist/whist"
)

const (
	defaultAddr    = ":8000"
	defaultRoomTTL = 10 * time.Minute
	sweepInterval  = time.Minute
)

func main() {
	cfg := whist.Config{StartingHand: envInt("WHIST_HAND_SIZE", whist.DefaultStartingHand)}
	addr := envString("WHIST_ADDR", defaultAddr)
	roomTTL := envDuration("WHIST_ROOM_TTL", defaultRoomTTL)

	sessions := session.NewManager()
	gw := gateway.New(sessions)
	registry := room.NewRegistry(cfg, gw.Route, func(code string) {
		sessions.InvalidateGame(code)
		gw.DropRoom(code)
	})
	gw.BindRegistry(registry)

	done := make(chan struct{})
	defer close(done)
	registry.StartSweeper(sweepInterval, roomTTL, done)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	log.Printf("[Server] Hand size: %d, room TTL: %s", cfg.StartingHand, roomTTL)
	log.Printf("[Server] Starting WebSocket server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("[Server] Failed to start: %v", err)
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("[Server] Invalid %s=%q: %v", key, v, err)
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("[Server] Invalid %s=%q: %v", key, v, err)
	}
	return d
}
