package handler

import (
	"voicehub/internal/middleware"
	"voicehub/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the voice API under /api. Every route requires an
// authenticated caller; moderator capability checks are the caller's
// concern upstream of this service.
func RegisterRoutes(
	r *gin.Engine,
	log *logger.Logger,
	jwtSecret string,
	voice *VoiceHandler,
	stage *StageHandler,
	soundboard *SoundboardHandler,
) {
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware(log))

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(jwtSecret))

	api.POST("/voice/join", voice.Join)
	api.POST("/voice/leave", voice.Leave)
	api.PATCH("/voice/state", voice.UpdateSelfState)
	api.GET("/voice/states/:user_id", voice.GetState)
	api.POST("/voice/screen-share/start", voice.StartScreenShare)
	api.POST("/voice/screen-share/stop", voice.StopScreenShare)

	api.GET("/guilds/:guild_id/voice-states", voice.GuildStates)
	api.GET("/channels/:channel_id/voice-states", voice.ChannelStates)
	api.PATCH("/guilds/:guild_id/voice-states/:user_id", voice.ModerateMember)

	api.POST("/guilds/:guild_id/stage-instances", stage.Create)
	api.GET("/guilds/:guild_id/stage-instances", stage.ListByGuild)
	api.GET("/channels/:channel_id/stage-instance", stage.GetByChannel)
	api.PATCH("/stage-instances/:id", stage.Update)
	api.DELETE("/stage-instances/:id", stage.Delete)
	api.PUT("/stage-instances/:id/request-to-speak", stage.RequestToSpeak)
	api.PUT("/stage-instances/:id/speakers/:user_id", stage.ApproveSpeaker)
	api.DELETE("/stage-instances/:id/speakers/:user_id", stage.RevokeSpeaker)

	api.GET("/guilds/:guild_id/soundboard", soundboard.List)
	api.POST("/guilds/:guild_id/soundboard", soundboard.Create)
	api.PATCH("/guilds/:guild_id/soundboard/:sound_id", soundboard.Update)
	api.DELETE("/guilds/:guild_id/soundboard/:sound_id", soundboard.Delete)
	api.POST("/guilds/:guild_id/soundboard/:sound_id/play", soundboard.Play)
}
