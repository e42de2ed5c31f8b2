package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/skillbridge/stepup/core"
	mfamodule "github.com/skillbridge/stepup/modules/mfa"
	"github.com/skillbridge/stepup/pkg/config"
	"github.com/skillbridge/stepup/pkg/httpserver"
	"github.com/skillbridge/stepup/pkg/identity"
	"github.com/skillbridge/stepup/pkg/logger"
	"github.com/skillbridge/stepup/pkg/mongo"
	"github.com/skillbridge/stepup/pkg/throttle"
	mfasvc "github.com/skillbridge/stepup/svc/mfa"
)

type serverConfig struct {
	Addr      string        `env:"SERVER_ADDR" envDefault:":8080"`
	Database  string        `env:"MONGODB_DATABASE" envDefault:"skillbridge"`
	LogFormat logger.Format `env:"LOG_FORMAT" envDefault:"json"`
	LogLevel  slog.Level    `env:"LOG_LEVEL" envDefault:"info"`

	// Burst and refill interval for the code verification endpoints,
	// per client IP.
	VerifyBurst  int           `env:"MFA_VERIFY_BURST" envDefault:"10"`
	VerifyRefill time.Duration `env:"MFA_VERIFY_REFILL" envDefault:"30s"`
}

func main() {
	var srvCfg serverConfig
	config.MustLoad(&srvCfg)

	log := logger.New(
		logger.WithFormat(srvCfg.LogFormat),
		logger.WithLevel(srvCfg.LogLevel),
		logger.WithAttr(slog.String("service", "stepup")),
	)

	if err := run(srvCfg, log); err != nil {
		log.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(srvCfg serverConfig, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var mongoCfg mongo.Config
	config.MustLoad(&mongoCfg)

	var mfaCfg mfasvc.Config
	config.MustLoad(&mfaCfg)

	var identityCfg identity.Config
	config.MustLoad(&identityCfg)

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	db, err := mongo.NewWithDatabase(connectCtx, mongoCfg, srvCfg.Database)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			log.Warn("failed to disconnect from mongo", slog.Any("error", err))
		}
	}()

	storage := mfasvc.NewMongoStorage(db)
	svc, err := mfasvc.NewService(mfaCfg, storage, storage, log)
	if err != nil {
		return err
	}

	limiter, err := throttle.NewLimiter(srvCfg.VerifyBurst, srvCfg.VerifyRefill)
	if err != nil {
		return err
	}

	verifier := identity.NewHTTPVerifier(identityCfg)
	module := mfamodule.New(svc, verifier, log,
		mfamodule.WithVerificationThrottle(limiter),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Mount("/api", module.Router())

	probe := mongo.Healthcheck(db.Client())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := probe(r.Context()); err != nil {
			core.WriteError(w, core.NewHTTPError(http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "document store is unreachable"))
			return
		}
		core.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	srv := httpserver.New(
		httpserver.WithAddr(srvCfg.Addr),
		httpserver.WithTimeouts(10*time.Second, 30*time.Second, 60*time.Second),
		httpserver.WithLogger(log),
	)

	return srv.Run(ctx, r)
}
