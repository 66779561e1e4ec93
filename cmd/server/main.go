package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"whisperhouse.game/internal/api"
	"whisperhouse.game/internal/game/catalogs"
	"whisperhouse.game/internal/game/engine"
	"whisperhouse.game/internal/game/graph"
	"whisperhouse.game/internal/game/tuning"
	persistlog "whisperhouse.game/internal/persistence/log"
	"whisperhouse.game/internal/store"
	"whisperhouse.game/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		seed       = flag.Int64("seed", 1337, "rng seed for ambient generation (and procedural rooms)")
		rooms      = flag.Int("rooms", 0, "generate a procedural house with this many rooms (0 = fixed manor)")
		dbPath     = flag.String("db", "", "sqlite database path (default: <data>/whisperhouse.db)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite player/game history store")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)
	httpLog := zerolog.New(os.Stdout).With().Timestamp().Str("component", "http").Logger()

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("tuning not found (%s); using defaults", tp)
			tune = tuning.Defaults()
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
	}

	var g *graph.Graph
	if *rooms > 0 {
		g = graph.Generate(*seed, *rooms)
		logger.Printf("procedural house: %d rooms, entry %s", len(g.Rooms()), g.Entry())
	} else {
		g = graph.Manor()
	}

	ctx, cancel := signalContext()
	defer cancel()

	_ = os.MkdirAll(*dataDir, 0o755)

	var db store.DataStore
	if !*disableDB {
		path := strings.TrimSpace(*dbPath)
		if path == "" {
			path = filepath.Join(*dataDir, "whisperhouse.db")
		}
		sq, err := store.NewSQLiteStore(ctx, path)
		if err != nil {
			logger.Fatalf("open store: %v", err)
		}
		defer sq.Close()
		db = sq
	} else {
		logger.Printf("sqlite store disabled")
	}

	jsonl := persistlog.NewTranscriptLogger(*dataDir)
	defer jsonl.Close()

	var transcript engine.TranscriptLogger = jsonl
	if db != nil {
		counted := &countingTranscript{inner: jsonl}
		go flushEventCounts(ctx, counted, db, logger)
		transcript = counted
	}

	var roster engine.RosterListener
	if db != nil {
		p := newRosterPersister(db, logger)
		defer p.Close()
		roster = p
	}

	eng, err := engine.New(engine.Config{
		Graph:      g,
		Catalogs:   cats,
		Tuning:     tune,
		Seed:       *seed,
		Logger:     logger,
		Transcript: transcript,
		Roster:     roster,
	})
	if err != nil {
		logger.Fatalf("engine: %v", err)
	}

	go func() {
		if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Printf("engine stopped: %v", err)
		}
	}()

	wsSrv := ws.NewServer(eng, tune.ClientQueue, logger)
	router := api.NewRouter(httpLog, eng, db, wsSrv.Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
