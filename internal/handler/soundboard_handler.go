package handler

import (
	"net/http"

	"voicehub/internal/services"
	"voicehub/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SoundboardHandler struct {
	service *services.SoundboardService
}

func NewSoundboardHandler(service *services.SoundboardService) *SoundboardHandler {
	return &SoundboardHandler{service: service}
}

func (h *SoundboardHandler) Create(c *gin.Context) {
	id, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}
	guildID, err := uuid.Parse(c.Param("guild_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid guild_id", "INVALID_REQUEST"))
		return
	}
	var req httpdto.CreateSoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	snd, err := h.service.CreateSound(c.Request.Context(), services.CreateSoundInput{
		GuildID:    guildID,
		Name:       req.Name,
		SoundHash:  req.SoundHash,
		Volume:     req.Volume,
		EmojiName:  req.EmojiName,
		UploaderID: id.UserID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(snd))
}

func (h *SoundboardHandler) List(c *gin.Context) {
	guildID, err := uuid.Parse(c.Param("guild_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid guild_id", "INVALID_REQUEST"))
		return
	}
	items, err := h.service.ListSounds(c.Request.Context(), guildID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"sounds": items}))
}

func (h *SoundboardHandler) Update(c *gin.Context) {
	guildID, err := uuid.Parse(c.Param("guild_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid guild_id", "INVALID_REQUEST"))
		return
	}
	soundID, err := uuid.Parse(c.Param("sound_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid sound_id", "INVALID_REQUEST"))
		return
	}
	var req httpdto.UpdateSoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	snd, err := h.service.UpdateSound(c.Request.Context(), guildID, soundID, services.UpdateSoundInput{
		Name:      req.Name,
		Volume:    req.Volume,
		EmojiName: req.EmojiName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(snd))
}

func (h *SoundboardHandler) Delete(c *gin.Context) {
	guildID, err := uuid.Parse(c.Param("guild_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid guild_id", "INVALID_REQUEST"))
		return
	}
	soundID, err := uuid.Parse(c.Param("sound_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid sound_id", "INVALID_REQUEST"))
		return
	}
	if err := h.service.DeleteSound(c.Request.Context(), guildID, soundID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *SoundboardHandler) Play(c *gin.Context) {
	id, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}
	guildID, err := uuid.Parse(c.Param("guild_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid guild_id", "INVALID_REQUEST"))
		return
	}
	soundID, err := uuid.Parse(c.Param("sound_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid sound_id", "INVALID_REQUEST"))
		return
	}
	instr, err := h.service.Play(c.Request.Context(), guildID, soundID, id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(instr))
}
