package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
)

// Switcher is the application surface served over HTTP
type Switcher interface {
	Adapters(ctx context.Context) ([]entities.Adapter, error)
	LoadSelection(ctx context.Context) (entities.Selection, error)
	RestoreSelection(ctx context.Context) (entities.Selection, error)
	SaveSelection(ctx context.Context, sel entities.Selection) error
	Switch(ctx context.Context, sel entities.Selection) entities.ToggleResult
	SwitchStored(ctx context.Context) entities.ToggleResult
	Status(ctx context.Context, names ...string) []entities.Adapter
	Busy() bool
}

type Handler struct {
	switcher Switcher
}

func NewHandler(switcher Switcher) *Handler {
	return &Handler{switcher: switcher}
}

// Register mounts the API routes
func (h *Handler) Register(router *gin.RouterGroup) {
	router.GET("/adapters", h.ListAdapters)
	router.GET("/selection", h.GetSelection)
	router.PUT("/selection", h.PutSelection)
	router.GET("/status", h.GetStatus)
	router.POST("/switch", h.PostSwitch)
}

// ListAdapters returns every adapter and its state
// (GET /adapters)
func (h *Handler) ListAdapters(c *gin.Context) {
	adapters, err := h.switcher.Adapters(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, adaptersResponse{Adapters: newAdapterResponses(adapters)})
}

// (GET /selection)
func (h *Handler) GetSelection(c *gin.Context) {
	sel, err := h.switcher.RestoreSelection(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sel)
}

// (PUT /selection)
func (h *Handler) PutSelection(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	sel := entities.Selection{Interface1: req.Interface1, Interface2: req.Interface2}
	if err := h.switcher.SaveSelection(c.Request.Context(), sel); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sel)
}

// GetStatus returns the states of the current selection; adapters that cannot be queried are unknown
// (GET /status)
func (h *Handler) GetStatus(c *gin.Context) {
	ctx := c.Request.Context()
	sel, err := h.switcher.LoadSelection(ctx)
	if err != nil || sel.Validate() != nil {
		if restored, rerr := h.switcher.RestoreSelection(ctx); rerr == nil {
			sel = restored
		}
	}

	names := make([]string, 0, 2)
	for _, name := range []string{sel.Interface1, sel.Interface2} {
		if name != "" {
			names = append(names, name)
		}
	}

	c.JSON(http.StatusOK, statusResponse{
		Selection: sel,
		Adapters:  newAdapterResponses(h.switcher.Status(ctx, names...)),
		Busy:      h.switcher.Busy(),
	})
}

// PostSwitch toggles the pair given in the body, or the stored selection when the body is empty
// (POST /switch)
func (h *Handler) PostSwitch(c *gin.Context) {
	var result entities.ToggleResult
	var req selectionRequest
	err := c.ShouldBindJSON(&req)
	switch {
	case c.Request.ContentLength == 0, errors.Is(err, io.EOF):
		result = h.switcher.SwitchStored(c.Request.Context())
	case err != nil:
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	default:
		result = h.switcher.Switch(c.Request.Context(), entities.Selection{Interface1: req.Interface1, Interface2: req.Interface2})
	}

	if !result.Success() {
		writeError(c, result.Err)
		return
	}

	resp := switchResponse{Disabled: result.Disabled, Enabled: result.Enabled}
	if result.Warning != nil {
		resp.Warning = result.Warning.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func writeError(c *gin.Context, err error) {
	resp := errorResponse{Error: err.Error()}
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entities.ErrInvalidSelection):
		status = http.StatusBadRequest
	case errors.Is(err, entities.ErrToggleInProgress):
		status = http.StatusConflict
	case errors.Is(err, entities.ErrQueryFailure):
		status = http.StatusBadGateway
	case errors.Is(err, entities.ErrActionFailure):
		resp.Hint = entities.ElevationHint
	}
	c.JSON(status, resp)
}
