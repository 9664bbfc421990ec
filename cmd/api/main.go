package main

import (
	"fmt"

	"voicehub/internal/config"
	"voicehub/internal/domain/channel"
	"voicehub/internal/domain/voice"
	"voicehub/internal/handler"
	"voicehub/internal/media"
	vhredis "voicehub/internal/redis"
	"voicehub/internal/repository"
	"voicehub/internal/services"
	"voicehub/pkg/database"
	"voicehub/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Server.Environment)
	defer log.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&channel.Channel{},
		&voice.Session{},
		&voice.StageInstance{},
		&voice.SoundboardSound{},
	); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	redisClient := vhredis.NewClient(vhredis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	presence := vhredis.NewVoicePresenceStore(redisClient, cfg.Voice.PresenceTTL)

	roomClient := media.NewRoomServiceClient(cfg.LiveKit.URL, cfg.LiveKit.APIKey, cfg.LiveKit.APISecret)
	provisioner := media.NewProvisioner(roomClient, presence, log, cfg.Voice.RoomEmptyTimeout, cfg.Voice.RoomMaxParticipants)
	tokens := media.NewTokenIssuer(cfg.LiveKit.APIKey, cfg.LiveKit.APISecret, cfg.LiveKit.TokenTTL)

	sessions := repository.NewVoiceSessionRepository(db)
	stages := repository.NewStageRepository(db)
	sounds := repository.NewSoundboardRepository(db)
	channels := repository.NewChannelDirectory(db)

	voiceService := services.NewVoiceService(sessions, channels, presence, provisioner, tokens, log)
	stageService := services.NewStageService(stages, sessions, log)
	soundboardService := services.NewSoundboardService(sounds, sessions, log)

	if cfg.Server.Environment == logger.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r, log, cfg.Auth.JWTSecret,
		handler.NewVoiceHandler(voiceService, cfg.LiveKit.URL),
		handler.NewStageHandler(stageService),
		handler.NewSoundboardHandler(soundboardService),
	)

	log.Infof("Starting server on port %s", cfg.Server.Port)
	if err := r.Run(fmt.Sprintf(":%s", cfg.Server.Port)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
