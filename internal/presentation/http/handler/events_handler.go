package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/brewpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/brewpos-api/internal/presentation/ws"
	"github.com/sangkips/brewpos-api/pkg/utils"
	"go.uber.org/zap"
)

// EventsHandler upgrades POS and admin views to the websocket event stream
type EventsHandler struct {
	hub        *ws.Hub
	jwtManager *utils.JWTManager
	log        *zap.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *ws.Hub, jwtManager *utils.JWTManager, log *zap.Logger) *EventsHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &EventsHandler{hub: hub, jwtManager: jwtManager, log: log}
}

// Serve authenticates with ?token= or a bearer header, then hands the
// connection to the hub
func (h *EventsHandler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	if token == "" {
		response.Unauthorized(c, "Token is required")
		return
	}

	claims, err := h.jwtManager.ValidateAccessToken(token)
	if err != nil {
		response.Unauthorized(c, "Invalid or expired token")
		return
	}

	if err := h.hub.ServeWS(c.Writer, c.Request, claims.StoreID, claims.StaffID); err != nil {
		// the upgrader has already replied on handshake errors
		h.log.Warn("websocket upgrade failed", zap.String("staff_id", claims.StaffID.String()), zap.Error(err))
	}
}
