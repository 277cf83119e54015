package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"ShopBot/bot"
	"ShopBot/bot/chat"
	"ShopBot/bot/chat/catalog"
	"ShopBot/bot/chat/profile"
	"ShopBot/bot/chat/shop"
	"ShopBot/impl/core"
	"ShopBot/internal/config"
	"ShopBot/internal/database"
	"ShopBot/internal/database/redis"
	"ShopBot/internal/http-server/api"
	"ShopBot/internal/lib/logger"
	"ShopBot/internal/lib/metrics"
	"ShopBot/internal/lib/sl"
	"ShopBot/internal/ws"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	console := flag.String("console", "", "run the given workflow on stdin/stdout instead of serving")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	lg.Info("starting shopbot", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog(conf)
	if err != nil {
		lg.Error("catalog", sl.Err(err))
		return
	}
	if err = cat.Verify(); err != nil {
		lg.With(sl.Err(err)).Warn("catalog has gaps; affected paths will fail at runtime")
	}
	lg.With(slog.Any("entries", cat.Stats())).Info("catalog loaded")

	handler := core.New(lg)
	handler.SetAuthKey(conf.Listen.ApiKey)
	handler.SetCatalog(cat)

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
	}
	if db != nil {
		handler.SetRepository(db)
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("user", conf.Mongo.User),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	}

	storage := selectStorage(ctx, conf, db, lg)

	engine := chat.NewChatEngine(storage, lg.With(sl.Module("chat")))
	engine.SetMaxTransitions(conf.Dialog.MaxTransitions)
	engine.RegisterWorkflow(shop.NewShopWorkflow(cat))
	engine.RegisterWorkflow(profile.NewProfileWorkflow())
	engine.SetDialogStack(handler)
	handler.SetEngine(engine)

	if *console != "" {
		err = bot.NewConsole(os.Stdin, os.Stdout, engine, lg).Run(ctx, chat.WorkflowID(*console))
		if err != nil {
			lg.Error("console", sl.Err(err))
		}
		return
	}

	opts := api.Options{}

	if conf.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		engine.AddTurnListener(metrics.NewTurns(reg))
		opts.Gatherer = reg
	}

	hub := ws.NewHub(lg.With(sl.Module("ws")))
	go hub.Run(ctx)
	engine.AddTurnListener(hub)
	opts.Hub = hub

	if conf.Telegram.Enabled {
		userBot, err := bot.NewUserBot(conf.Telegram.BotName, conf.Telegram.ApiKey, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", sl.Err(err))
		} else {
			userBot.SetEngine(engine)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
				sl.Secret("api_key", conf.Telegram.ApiKey),
			).Info("telegram bot initialized")

			go func() {
				if err := userBot.Start(); err != nil {
					lg.Error("telegram bot error", sl.Err(err))
				}
			}()
		}
	}

	// *** blocking start with http server ***
	err = api.New(ctx, conf, lg, handler, opts)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Info("service stopped")
}

func loadCatalog(conf *config.Config) (*catalog.Catalog, error) {
	if conf.Catalog.Path != "" {
		return catalog.LoadFile(conf.Catalog.Path)
	}
	return catalog.Default()
}

// selectStorage prefers redis, then mongo, then process memory.
func selectStorage(ctx context.Context, conf *config.Config, db *repository.MongoDB, lg *slog.Logger) chat.ChatStateStorage {
	if conf.Redis.Enabled {
		store := redis.New(conf.Redis.Address, conf.Redis.Password, conf.Redis.DB,
			redis.WithPrefix(conf.Redis.Prefix),
			redis.WithTTL(conf.Redis.TTL),
		)
		if err := store.Ping(ctx); err != nil {
			lg.With(sl.Err(err)).Error("redis not reachable")
			_ = store.Close()
		} else {
			lg.With(slog.String("address", conf.Redis.Address)).Info("chat states in redis")
			return store
		}
	}
	if db != nil {
		lg.Info("chat states in mongo")
		return chat.NewMongoChatStateStorage(db)
	}
	lg.Warn("chat states in memory; conversations are lost on restart")
	return chat.NewMemoryChatStateStorage()
}
