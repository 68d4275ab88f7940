package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/config"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/db"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/handlers"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/realtime"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/repository"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/seeder"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/slug"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/utils"
)

const slugKey = "seed:profile_slugs"

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	// `seeder token <user-id>` prints an admin token for the control server.
	if len(os.Args) > 2 && os.Args[1] == "token" {
		tok, err := utils.SignJWT(cfg.JWTSecret, os.Args[2], "admin", cfg.JWTExpiresMin)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(tok)
		return
	}

	seedCfg, err := config.LoadSeedConfiguration(cfg.SeedConfigFile, cfg.SeedEnv)
	if err != nil {
		log.Fatal(err)
	}
	run, err := config.ApplyEnvOverrides(*seedCfg, os.LookupEnv)
	if err != nil {
		log.Fatal(err)
	}

	gdb, err := db.Connect(cfg.DBDriver, cfg.DBDSN, cfg.DBLogLevel)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []seeder.Option
	if cfg.RedisAddr != "" {
		rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("redis not reachable: ", err)
		}
		log.Println("redis slug reservations enabled")
		opts = append(opts, seeder.WithSlugReserver(slug.NewRedisReserver(rdb, slugKey, 24*time.Hour)))
	}

	repo := repository.NewStore(gdb)

	if !cfg.Serve {
		res, err := seeder.NewManager(&run, repo, opts...).Run(ctx)
		if err != nil {
			log.Fatal(err)
		}
		if !res.Success {
			os.Exit(1)
		}
		return
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required when SEED_SERVE=true")
	}

	hub := realtime.NewHub()
	go hub.Run(ctx)

	opts = append(opts, seeder.WithReporter(seeder.Reporters(seeder.LogReporter{}, hub)))
	manager := seeder.NewManager(&run, repo, opts...)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://127.0.0.1:3000, http://localhost:3000",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))
	handlers.NewSeedHandler(manager, hub).Mount(app, cfg.JWTSecret)

	go func() {
		<-ctx.Done()
		_ = app.Shutdown()
	}()

	log.Printf("seed control server listening on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal(err)
	}
}
