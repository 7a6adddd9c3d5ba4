package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/quizforge/quiz-cms-backend/internal/config"
	"github.com/quizforge/quiz-cms-backend/internal/middleware"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/response"
	"github.com/quizforge/quiz-cms-backend/internal/service"
	"github.com/quizforge/quiz-cms-backend/internal/validator"
	ws "github.com/quizforge/quiz-cms-backend/internal/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// LayoutWSHandler streams a step's layout changes to co-editors and answers
// collision dry runs over the same socket.
type LayoutWSHandler struct {
	rdb         *redis.Client
	stepService *service.StepService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewLayoutWSHandler creates a new LayoutWSHandler.
func NewLayoutWSHandler(rdb *redis.Client, stepService *service.StepService, log zerolog.Logger, allowedOrigins []string) *LayoutWSHandler {
	return &LayoutWSHandler{
		rdb:         rdb,
		stepService: stepService,
		log:         log.With().Str("component", "layout_ws").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// StepLayoutStream godoc
// WS /ws/v1/steps/:step_id/layout?token=
// Relays layout events from Redis and handles "check" and "ping" actions.
func (h *LayoutWSHandler) StepLayoutStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	stepID, ok := paramUUID(c, "step_id")
	if !ok {
		return
	}
	if _, err := h.stepService.GetByID(c.Request.Context(), stepID); err != nil {
		fail(c, err)
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.NewConn(raw)
	defer conn.Close()

	wsLog := h.log.With().
		Str("admin_id", claims.AdminID).
		Str("step_id", stepID.String()).
		Logger()
	wsLog.Info().Msg("Editor connected")

	// The request context ends when the handler returns; the relay is tied to it.
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sub := h.rdb.Subscribe(ctx, config.CacheKey.StepLayoutChannel(stepID.String()))
	defer sub.Close()
	go h.relay(ctx, conn, sub, wsLog)

	for {
		data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		var env ws.RequestEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			conn.WriteError("invalid message")
			continue
		}

		switch env.Action {
		case ws.ActionCheck:
			h.handleCheck(ctx, conn, wsLog, stepID, data)
		case ws.ActionPing:
			conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(env.Action)).Msg("Unknown action")
			conn.WriteError("unknown action: " + string(env.Action))
		}
	}
}

// relay forwards published layout events until ctx ends or the socket fails.
func (h *LayoutWSHandler) relay(ctx context.Context, conn *ws.Conn, sub *redis.PubSub, log zerolog.Logger) {
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteRaw([]byte(msg.Payload)); err != nil {
				log.Debug().Err(err).Msg("Relay write failed")
				conn.Close()
				return
			}
		}
	}
}

func (h *LayoutWSHandler) handleCheck(ctx context.Context, conn *ws.Conn, log zerolog.Logger, stepID uuid.UUID, data []byte) {
	var req ws.CheckRequest
	if err := json.Unmarshal(data, &req); err != nil {
		conn.WriteError("invalid check payload")
		return
	}

	check := checkRequest(req)
	if fields := validator.Struct(check); fields != nil {
		log.Debug().Interface("errors", fields).Msg("Rejected layout check")
		conn.WriteError("invalid check payload")
		return
	}

	result, err := h.stepService.CheckLayout(ctx, stepID, check)
	if err != nil {
		log.Warn().Err(err).Msg("Layout check failed")
		conn.WriteError("check failed")
		return
	}

	conn.WriteTyped(ws.CheckResponse{
		Event:        ws.EventCheckResult,
		WouldCollide: result.WouldCollide,
		Collisions:   result.Collisions,
	})
}

// checkRequest maps a socket check onto the HTTP dry-run request. Zero
// coordinates are treated as "not supplied" so a moved field keeps the rest
// of its stored rectangle.
func checkRequest(req ws.CheckRequest) *model.LayoutCheckRequest {
	nonZero := func(v int) *int {
		if v == 0 {
			return nil
		}
		return &v
	}
	return &model.LayoutCheckRequest{
		FieldID: req.FieldID,
		PositionInput: model.PositionInput{Position: &model.PositionPatch{
			Row:     nonZero(req.Row),
			Col:     nonZero(req.Col),
			RowSpan: nonZero(req.RowSpan),
			ColSpan: nonZero(req.ColSpan),
		}},
	}
}
