package main

import (
	"bufio"
	"log"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"blockarena/internal/api"
	"blockarena/internal/block"
	"blockarena/internal/config"
	"blockarena/internal/highscore"
	"blockarena/internal/lobby"
	"blockarena/internal/ratelimit"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load("../.env"); err != nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("💡 No .env file found, using environment variables only")
		}
	} else {
		log.Println("✅ Loaded environment from ../.env")
	}

	log.Println("🧱 ================================")
	log.Println("🧱  BLOCKARENA - GO ENGINE")
	log.Println("🧱  Falling-block puzzle server")
	log.Println("🧱 ================================")

	appConfig := config.Load()
	log.Printf("🧱 Config: gravity %v/%v, bomb tick %v, flash phase %v",
		appConfig.Timing.GravityNormal, appConfig.Timing.GravityFast,
		appConfig.Timing.BombTick, appConfig.Timing.FlashPhase)
	log.Printf("🛡️ Resource limits: %d lobbies, %d games/mode, %d flashing points",
		appConfig.Limits.MaxLobbies, appConfig.Limits.MaxGamesPerMode, appConfig.Limits.MaxFlashingPoints)

	factory := block.NewFactory(rand.New(rand.NewSource(rand.Int63())))
	registry := lobby.NewRegistry(factory, rand.New(rand.NewSource(rand.Int63())))

	scoreStore, err := highscore.NewStore(appConfig.Persistence.HighScoreFile)
	if err != nil {
		log.Printf("⚠️ High-score persistence disabled: %v", err)
	} else {
		log.Printf("📝 High scores: %s", appConfig.Persistence.HighScoreFile)
		registry.SetOnGameOver(func(score int, durationSec float64, playerNames []string) {
			if err := scoreStore.Add(highscore.HighScore{
				Score:       score,
				Duration:    time.Duration(durationSec * float64(time.Second)),
				PlayerNames: playerNames,
			}); err != nil {
				log.Printf("⚠️ Failed to persist high score: %v", err)
			}
		})
	}

	tcpLimiter := ratelimit.New(ratelimit.DefaultConfig)
	defer tcpLimiter.Stop()
	connLimiter := ratelimit.NewConnLimiter(4)

	listener, err := net.Listen("tcp", ":"+strconv.Itoa(appConfig.Server.TCPPort))
	if err != nil {
		log.Fatalf("Failed to listen on TCP port %d: %v", appConfig.Server.TCPPort, err)
	}
	log.Printf("🌐 TCP game protocol listening on :%d", appConfig.Server.TCPPort)

	go acceptLoop(listener, registry, tcpLimiter, connLimiter)

	adminRouter := api.NewAdminRouter(registry, ratelimit.New(ratelimit.DefaultConfig))
	adminAddr := ":" + strconv.Itoa(appConfig.Server.AdminPort)
	go func() {
		log.Printf("📊 Admin server on http://localhost%s", adminAddr)
		log.Printf("   - health:  http://localhost%s/healthz", adminAddr)
		log.Printf("   - metrics: http://localhost%s/metrics", adminAddr)
		if err := http.ListenAndServe(adminAddr, adminRouter); err != nil {
			log.Printf("⚠️ Admin server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	listener.Close()
	log.Println("👋 Goodbye!")
}

// acceptLoop accepts raw TCP connections and hands each to its own
// connection handler goroutine. A minimal line-oriented protocol drives
// the engine (JOIN/KEY/TICK) — this is deliberately not a real ANSI
// terminal renderer, which is out of scope here.
func acceptLoop(listener net.Listener, registry *lobby.Registry, ipLimiter *ratelimit.IPLimiter, connLimiter *ratelimit.ConnLimiter) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && !ne.Temporary() {
				return
			}
			log.Printf("⚠️ accept error: %v", err)
			continue
		}

		ip := ratelimit.ConnIP(conn)
		if !ipLimiter.Allow(ip) || !connLimiter.Allow(ip) {
			conn.Close()
			continue
		}

		go func() {
			defer connLimiter.Release(ip)
			handleConn(conn, registry)
		}()
	}
}

// handleConn implements the minimal line protocol:
// "JOIN <lobby|NEW> <mode> <name>", "KEY <char>", "TICK" (a client-driven
// poke to request a fresh render). See connState.handleLine for which bad
// lines get an "ERR" reply and which are ignored silently.
func handleConn(conn net.Conn, registry *lobby.Registry) {
	defer conn.Close()

	state := &connState{
		conn:     conn,
		registry: registry,
		clientID: uint64(rand.Int63()),
	}
	defer state.close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		state.handleLine(scanner.Text())
	}
}
