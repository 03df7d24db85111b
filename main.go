package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	auth "Jibcrane/internal/auth"
	crane "Jibcrane/internal/calc/crane"
	material "Jibcrane/internal/calc/material"
	batch "Jibcrane/internal/calc/premium/batch"
	importer "Jibcrane/internal/calc/premium/importer"
	recommend "Jibcrane/internal/calc/premium/recommend"
	report "Jibcrane/internal/calc/report"
	config "Jibcrane/internal/config"
	history "Jibcrane/internal/history"
	"Jibcrane/internal/logger"
	metrics "Jibcrane/internal/metrics"
	repo "Jibcrane/internal/repo"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

// Server holds what the routes need.
type Server struct {
	Config     *config.Config
	Auth       *auth.Authenv
	Calculator *crane.Calculator
	Runs       repo.Repository
	Metrics    *metrics.Metrics
}

func HandleList(mux *mux.Router, s *Server) {
	var runs crane.RunStore
	if s.Runs != nil {
		runs = s.Runs
	}
	craneH := crane.NewHandler(s.Calculator, runs, s.Metrics)
	reportH := &report.Handler{Runner: craneH}
	batchH := &batch.Handler{Runner: craneH}
	importH := &importer.Handler{Runner: craneH}
	recommendH := &recommend.Handler{Calculator: s.Calculator}

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods("GET")
	mux.Handle("/metrics", s.Metrics.Handler()).Methods("GET")

	limiter := auth.NewIPRateLimiter(rate.Limit(s.Config.Rate.Limit), s.Config.Rate.Burst)

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)
	api.HandleFunc("/login", s.Auth.AuthHandler).Methods("POST")

	secureApi := api.NewRoute().Subrouter()
	secureApi.Use(s.Auth.AuthMiddleware)

	secureApi.HandleFunc("/calculate", craneH.Calc).Methods("POST")
	secureApi.HandleFunc("/calculate/pdf", reportH.Generate).Methods("POST")
	secureApi.HandleFunc("/calculate/scad", craneH.Scad).Methods("POST")
	secureApi.HandleFunc("/batch", batchH.Crane).Methods("POST")
	secureApi.HandleFunc("/import", importH.Crane).Methods("POST")
	secureApi.HandleFunc("/recommend", recommendH.Grade).Methods("POST")
	secureApi.HandleFunc("/grades", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.Calculator.Catalog.Grades())
	}).Methods("GET")

	if s.Runs != nil {
		historyH := &history.Handler{Repo: s.Runs}
		secureApi.HandleFunc("/runs", historyH.List).Methods("GET")
		secureApi.HandleFunc("/runs/{id}", historyH.Get).Methods("GET")
	}

	if s.Config.StaticDir != "" {
		mux.PathPrefix("/").Handler(http.FileServer(http.Dir(s.Config.StaticDir)))
	}
}

func newCalculator(cfg *config.Config) (*crane.Calculator, error) {
	c := crane.New()
	if cfg.GradesFile == "" {
		return c, nil
	}
	raw, err := os.ReadFile(cfg.GradesFile)
	if err != nil {
		return nil, err
	}
	cat, err := material.ParseCatalog(raw)
	if err != nil {
		return nil, err
	}
	c.Catalog = cat
	return c, nil
}

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "optional YAML config file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Log.Fatalf("config: %v", err)
	}
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		logger.Log.Fatalf("logger: %v", err)
	}
	log := logger.Log
	if cfg.GeneratedTokenKey {
		log.Warn("TOKEN_KEY not set, sessions will not survive a restart")
	}

	authEnv := &auth.Authenv{User: cfg.Auth.User, Disabled: true}
	if cfg.Auth.Disabled {
		log.Warn("authentication disabled")
	} else {
		authEnv, err = auth.New(cfg.Auth.User, cfg.Auth.Pass, []byte(cfg.Auth.TokenKey))
		if err != nil {
			log.Fatalf("auth: %v", err)
		}
	}

	calc, err := newCalculator(cfg)
	if err != nil {
		log.Fatalf("grades: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := &Server{
		Config:     cfg,
		Auth:       authEnv,
		Calculator: calc,
		Metrics:    metrics.New(reg),
	}

	if cfg.DatabaseURL != "" {
		db, err := repo.InitDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		runs := repo.NewPostgresRunDB(db)
		if err := runs.Migrate(ctx); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		srv.Runs = runs
	} else {
		log.Info("DATABASE_URL not set, run history disabled")
	}

	mux := mux.NewRouter()
	HandleList(mux, srv)
	handler := CORS(mux)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.WithField("addr", cfg.Addr).WithField("tls", cfg.TLS()).Info("starting server")
		var err error
		if cfg.TLS() {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Errorf("server error: %v", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, closing connections")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
	wg.Wait()
	log.Info("server stopped")
}
