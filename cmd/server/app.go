package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/mnuddindev/pulsefeed/internal/api"
	v1 "github.com/mnuddindev/pulsefeed/internal/api/v1"
	"github.com/mnuddindev/pulsefeed/internal/comment"
	"github.com/mnuddindev/pulsefeed/internal/config"
	"github.com/mnuddindev/pulsefeed/internal/content"
	"github.com/mnuddindev/pulsefeed/internal/counter"
	"github.com/mnuddindev/pulsefeed/internal/db"
	"github.com/mnuddindev/pulsefeed/internal/events"
	"github.com/mnuddindev/pulsefeed/internal/feed"
	"github.com/mnuddindev/pulsefeed/internal/models"
	"github.com/mnuddindev/pulsefeed/internal/notification"
	"github.com/mnuddindev/pulsefeed/internal/reaction"
	"github.com/mnuddindev/pulsefeed/internal/recommender"
	"github.com/mnuddindev/pulsefeed/internal/registry"
	"github.com/mnuddindev/pulsefeed/internal/social"
	"github.com/mnuddindev/pulsefeed/pkg/logger"
	storage "github.com/mnuddindev/pulsefeed/pkg/redis"
	"github.com/mnuddindev/pulsefeed/pkg/utils"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.NewLogger(
		logger.WithAppName("pulsefeed"),
		logger.WithOutputDir(cfg.LogDir),
	)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Close()

	redisClient, err := storage.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Error(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Failed to initialize Redis")
		panic(err)
	}
	defer redisClient.Close(log)

	gormDB, err := db.NewDB(ctx, cfg.DSN(), models.AllModels(), db.WithLogger(log))
	if err != nil {
		log.Error(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Failed to initialize PostgreSQL database")
		panic("DB init failed")
	}
	defer db.CloseDB(log)

	counters := counter.NewRedisStore(redisClient)

	bus := events.NewBus(log, 1024)
	defer bus.Close()

	builder := registry.NewBuilder()
	content.RegisterAll(builder, gormDB)
	reg := builder.Freeze()

	reactions := reaction.NewEngine(reaction.NewGormStore(gormDB), counters, reg, bus)
	follows := social.NewEngine(social.NewGormStore(gormDB), counters, reg, bus)
	comments := comment.NewService(
		comment.NewGormStore(gormDB),
		counters,
		reg,
		reactions,
		comment.Policy{MinLen: cfg.CommentMinLen, MaxLen: cfg.CommentMaxLen},
	)

	rec := recommender.NewHTTPClient(cfg.RecommenderURL, cfg.RecommenderTimeout, log)
	recommender.AttachForwarder(bus, rec, log)

	notification.NewListener(reg, nil, log).Attach(bus)

	pipeline := feed.NewPipeline(rec, reg, log)
	pipeline.DefaultLimit = cfg.FeedLimit

	handlers := &v1.Handlers{
		Log:        log,
		Reg:        reg,
		Reactions:  reactions,
		Comments:   comments,
		Follows:    follows,
		FeedPipe:   pipeline,
		Aggregates: feed.NewGormAggregates(gormDB, redisClient),
		Validator:  utils.NewValidator(),
	}

	app := fiber.New(fiber.Config{
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: utils.HandleError,
	})
	api.NewRoutes(ctx, app, cfg, log, handlers)

	go func() {
		if err := app.Listen(cfg.ServerAddr); err != nil {
			log.Error(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info(ctx).Logs("Shutting down")
	if err := app.Shutdown(); err != nil {
		log.Error(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Server shutdown failed")
	}
}
