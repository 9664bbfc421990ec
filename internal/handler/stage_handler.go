package handler

import (
	"net/http"

	"voicehub/internal/services"
	"voicehub/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StageHandler struct {
	service *services.StageService
}

func NewStageHandler(service *services.StageService) *StageHandler {
	return &StageHandler{service: service}
}

func (h *StageHandler) Create(c *gin.Context) {
	guildID, err := uuid.Parse(c.Param("guild_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid guild_id", "INVALID_REQUEST"))
		return
	}
	var req httpdto.CreateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	st, err := h.service.CreateStage(c.Request.Context(), services.CreateStageInput{
		GuildID:      guildID,
		ChannelID:    req.ChannelID,
		Topic:        req.Topic,
		PrivacyLevel: req.PrivacyLevel,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(st))
}

func (h *StageHandler) GetByChannel(c *gin.Context) {
	channelID, err := uuid.Parse(c.Param("channel_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid channel_id", "INVALID_REQUEST"))
		return
	}
	st, err := h.service.GetStageByChannel(c.Request.Context(), channelID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(st))
}

func (h *StageHandler) ListByGuild(c *gin.Context) {
	guildID, err := uuid.Parse(c.Param("guild_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid guild_id", "INVALID_REQUEST"))
		return
	}
	items, err := h.service.ListGuildStages(c.Request.Context(), guildID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"stages": items}))
}

func (h *StageHandler) Update(c *gin.Context) {
	stageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid stage id", "INVALID_REQUEST"))
		return
	}
	var req httpdto.UpdateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	st, err := h.service.UpdateStage(c.Request.Context(), stageID, services.UpdateStageInput{
		Topic:        req.Topic,
		PrivacyLevel: req.PrivacyLevel,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(st))
}

func (h *StageHandler) Delete(c *gin.Context) {
	stageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid stage id", "INVALID_REQUEST"))
		return
	}
	if err := h.service.DeleteStage(c.Request.Context(), stageID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

// stageFromPath resolves the :id segment to an existing stage instance so
// speaker operations against a stale stage 404 instead of silently mutating
// voice state.
func (h *StageHandler) stageFromPath(c *gin.Context) (uuid.UUID, bool) {
	stageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid stage id", "INVALID_REQUEST"))
		return uuid.Nil, false
	}
	if _, err := h.service.GetStage(c.Request.Context(), stageID); err != nil {
		respondError(c, err)
		return uuid.Nil, false
	}
	return stageID, true
}

func (h *StageHandler) RequestToSpeak(c *gin.Context) {
	id, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}
	if _, ok := h.stageFromPath(c); !ok {
		return
	}
	state, err := h.service.RequestToSpeak(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(state))
}

func (h *StageHandler) ApproveSpeaker(c *gin.Context) {
	if _, ok := h.stageFromPath(c); !ok {
		return
	}
	targetID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid user_id", "INVALID_REQUEST"))
		return
	}
	state, err := h.service.ApproveSpeaker(c.Request.Context(), targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(state))
}

func (h *StageHandler) RevokeSpeaker(c *gin.Context) {
	if _, ok := h.stageFromPath(c); !ok {
		return
	}
	targetID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid user_id", "INVALID_REQUEST"))
		return
	}
	state, err := h.service.RevokeSpeaker(c.Request.Context(), targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(state))
}
