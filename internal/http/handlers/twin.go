package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/lunatwin-backend/internal/domain"
	"github.com/yungbote/lunatwin-backend/internal/http/response"
	"github.com/yungbote/lunatwin-backend/internal/services"
)

type TwinHandler struct {
	twinService   services.TwinService
	simService    services.SimulationService
	avatarService services.AvatarService
}

func NewTwinHandler(twinService services.TwinService, simService services.SimulationService, avatarService services.AvatarService) *TwinHandler {
	return &TwinHandler{twinService: twinService, simService: simService, avatarService: avatarService}
}

// GET /api/session
func (th *TwinHandler) Session(c *gin.Context) {
	s, err := th.twinService.Session(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, s)
}

// POST /api/twin
// body: { "basic_info": {...}, "lifestyle": {...} }; a missing lifestyle uses the form defaults.
func (th *TwinHandler) Create(c *gin.Context) {
	var req struct {
		BasicInfo types.BasicInfo  `json:"basic_info"`
		Lifestyle *types.Lifestyle `json:"lifestyle"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	lifestyle := types.DefaultLifestyle()
	if req.Lifestyle != nil {
		lifestyle = *req.Lifestyle
	}
	view, err := th.twinService.Create(c.Request.Context(), req.BasicInfo, lifestyle)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, view)
}

// GET /api/twin
func (th *TwinHandler) Get(c *gin.Context) {
	view, err := th.twinService.Get(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// PATCH /api/twin/lifestyle
func (th *TwinHandler) UpdateLifestyle(c *gin.Context) {
	var patch types.LifestylePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := th.twinService.UpdateLifestyle(c.Request.Context(), patch)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// GET /api/twin/history
func (th *TwinHandler) History(c *gin.Context) {
	history, trend, err := th.twinService.History(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"history": history, "trend": trend})
}

// GET /api/twin/avatar.png
func (th *TwinHandler) Avatar(c *gin.Context) {
	png, err := th.avatarService.RenderTwin(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=60")
	c.Data(http.StatusOK, "image/png", png)
}

// POST /api/simulate
// body: { "days": 7|14|30, "lifestyle": { partial lifestyle overrides } }
func (th *TwinHandler) Simulate(c *gin.Context) {
	var req struct {
		Days      int                  `json:"days" binding:"required"`
		Lifestyle types.LifestylePatch `json:"lifestyle"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := th.simService.Simulate(c.Request.Context(), req.Lifestyle, req.Days)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/personas
func (th *TwinHandler) Personas(c *gin.Context) {
	response.RespondOK(c, gin.H{"personas": th.twinService.Personas()})
}

// GET /api/demo/:persona
func (th *TwinHandler) Demo(c *gin.Context) {
	demo, err := th.twinService.Demo(types.Persona(c.Param("persona")))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, demo)
}
