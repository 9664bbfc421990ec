package handler

import (
	"net/http"

	"voicehub/internal/services"
	"voicehub/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VoiceHandler struct {
	service  *services.VoiceService
	endpoint string
}

func NewVoiceHandler(service *services.VoiceService, endpoint string) *VoiceHandler {
	return &VoiceHandler{service: service, endpoint: endpoint}
}

func (h *VoiceHandler) Join(c *gin.Context) {
	id, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}
	var req httpdto.JoinVoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	result, err := h.service.Join(c.Request.Context(), id.UserID, id.Username, req.ChannelID, sessionID, services.JoinOptions{
		SelfMute: req.SelfMute,
		SelfDeaf: req.SelfDeaf,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.JoinVoiceResponse{
		Token:    result.Credential,
		Endpoint: h.endpoint,
		Room:     "voice_" + req.ChannelID.String(),
		State:    result.State,
	}))
}

func (h *VoiceHandler) Leave(c *gin.Context) {
	id, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}
	state, err := h.service.Leave(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(state))
}

func (h *VoiceHandler) UpdateSelfState(c *gin.Context) {
	id, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}
	var req httpdto.UpdateVoiceStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	state, err := h.service.UpdateSelfState(c.Request.Context(), id.UserID, services.SelfStateUpdate{
		SelfMute:   req.SelfMute,
		SelfDeaf:   req.SelfDeaf,
		SelfVideo:  req.SelfVideo,
		SelfStream: req.SelfStream,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(state))
}

func (h *VoiceHandler) ModerateMember(c *gin.Context) {
	if _, err := uuid.Parse(c.Param("guild_id")); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid guild_id", "INVALID_REQUEST"))
		return
	}
	targetID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid user_id", "INVALID_REQUEST"))
		return
	}
	var req httpdto.ModerateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	disconnect, moveTo, err := req.ChannelAction()
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid channelId", "INVALID_REQUEST"))
		return
	}
	state, err := h.service.ModerateMember(c.Request.Context(), targetID, services.MemberStateUpdate{
		Mute:       req.Mute,
		Deaf:       req.Deaf,
		Suppress:   req.Suppress,
		MoveTo:     moveTo,
		Disconnect: disconnect,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(state))
}

func (h *VoiceHandler) GetState(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid user_id", "INVALID_REQUEST"))
		return
	}
	sess, err := h.service.GetState(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(sess.Projection()))
}

func (h *VoiceHandler) ChannelStates(c *gin.Context) {
	channelID, err := uuid.Parse(c.Param("channel_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid channel_id", "INVALID_REQUEST"))
		return
	}
	items, err := h.service.GetChannelStates(c.Request.Context(), channelID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"states": items}))
}

func (h *VoiceHandler) GuildStates(c *gin.Context) {
	guildID, err := uuid.Parse(c.Param("guild_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid guild_id", "INVALID_REQUEST"))
		return
	}
	items, err := h.service.GetGuildStates(c.Request.Context(), guildID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"states": items}))
}

func (h *VoiceHandler) StartScreenShare(c *gin.Context) {
	id, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}
	var req httpdto.StartScreenShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	share, err := h.service.StartScreenShare(c.Request.Context(), id.UserID, services.ScreenShareOptions{
		Quality:      req.Quality,
		ShareType:    req.ShareType,
		AudioEnabled: req.AudioEnabled,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(share))
}

func (h *VoiceHandler) StopScreenShare(c *gin.Context) {
	id, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}
	if err := h.service.StopScreenShare(c.Request.Context(), id.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}
