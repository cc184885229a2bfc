// Package opamp implements the transport half of the OpAMP protocol
// boundary: WebSocket and HTTP long-poll handlers that authenticate a
// connection via bearer token, frame/deframe messages via the wire codec,
// and drive the protocol engine.
package opamp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/open-telemetry/opamp-go/protobufs"

	"github.com/opamp-commander/opamp-commander/internal/codec"
	"github.com/opamp-commander/opamp-commander/internal/domain/model"
	"github.com/opamp-commander/opamp-commander/internal/domain/port"
)

// Engine is the subset of the protocol engine this adapter drives.
type Engine interface {
	OnConnected(ctx context.Context, instanceUID uuid.UUID, conn *model.Connection) error
	OnDisconnected(ctx context.Context, instanceUID uuid.UUID, conn *model.Connection) error
	HandleMessage(ctx context.Context, instanceUID uuid.UUID, msg *protobufs.AgentToServer) (*protobufs.ServerToAgent, error)
}

// longPollDrain bounds how long a POST request waits for a push already
// queued on the connection registry before falling back to the direct
// reply. Long enough to catch a rollout offer racing the request, short
// enough that the agent's next poll isn't meaningfully delayed.
const longPollDrain = 200 * time.Millisecond

// errMissingBearerToken indicates the request carried no Authorization
// header, or one not in the expected "Bearer <token>" form.
var errMissingBearerToken = errors.New("opamp: missing bearer token")

// Controller implements the OpAMP WebSocket and HTTP long-poll endpoints.
type Controller struct {
	logger      *slog.Logger
	auth        port.AuthUsecase
	engine      Engine
	connections port.ConnectionUsecase
	codec       *codec.Codec
	upgrader    websocket.Upgrader
}

// NewController creates a new instance of Controller.
func NewController(
	auth port.AuthUsecase,
	engine Engine,
	connections port.ConnectionUsecase,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		logger:      logger,
		auth:        auth,
		engine:      engine,
		connections: connections,
		codec:       codec.New(),
		//exhaustruct:ignore
		upgrader: websocket.Upgrader{
			ReadBufferSize:  0,
			WriteBufferSize: 0,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// RoutesInfo returns the routes information for the opamp controller.
func (c *Controller) RoutesInfo() gin.RoutesInfo {
	return gin.RoutesInfo{
		{
			Method: http.MethodGet, Path: "/v1/opamp",
			Handler: "http.v1.opamp.WebSocket", HandlerFunc: c.WebSocket,
		},
		{
			Method: http.MethodPost, Path: "/v1/opamp",
			Handler: "http.v1.opamp.HTTP", HandlerFunc: c.HTTP,
		},
	}
}

// badRequestReply builds the ServerToAgent a malformed or oversized frame
// gets in reply, per §4.5 step 1 / §7: the message is rejected with a
// ServerErrorResponse of kind BadRequest, and neither the connection nor
// any stored agent state is touched.
func badRequestReply(instanceUID uuid.UUID, message string) *protobufs.ServerToAgent {
	//exhaustruct:ignore
	return &protobufs.ServerToAgent{
		InstanceUid: instanceUID[:],
		//exhaustruct:ignore
		ErrorResponse: &protobufs.ServerErrorResponse{
			Type:         protobufs.ServerErrorResponseType_ServerErrorResponseType_BadRequest,
			ErrorMessage: message,
		},
	}
}

func (c *Controller) authenticate(r *http.Request) (uuid.UUID, error) {
	const prefix = "Bearer "

	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, prefix) {
		return uuid.Nil, errMissingBearerToken
	}

	instanceUID, err := c.auth.Authenticate(r.Context(), strings.TrimPrefix(header, prefix))
	if err != nil {
		return uuid.Nil, err
	}

	return instanceUID, nil
}

// WebSocket upgrades the connection and serves it until the agent
// disconnects or the server shuts it down.
//
// @Summary OpAMP WebSocket endpoint
// @Tags OpAMP
// @Param Authorization header string true "Bearer <opamp token>"
// @Router /v1/opamp [get].
func (c *Controller) WebSocket(ctx *gin.Context) {
	instanceUID, err := c.authenticate(ctx.Request)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})

		return
	}

	wsConn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Warn("failed to upgrade websocket", slog.String("error", err.Error()))

		return
	}
	defer wsConn.Close()

	sessionCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := model.NewConnection(instanceUID, model.TransportWebSocket, cancel)

	if err := c.engine.OnConnected(sessionCtx, instanceUID, conn); err != nil {
		c.logger.Error("failed to register websocket connection", slog.String("error", err.Error()))

		return
	}

	defer func() {
		if err := c.engine.OnDisconnected(context.Background(), instanceUID, conn); err != nil {
			c.logger.Warn("failed to unregister websocket connection", slog.String("error", err.Error()))
		}
	}()

	go c.writePump(sessionCtx, wsConn, conn)
	c.readPump(sessionCtx, wsConn, instanceUID)
}

// writePump is the sole writer of wsConn, draining conn's outbound queue
// until the session is cancelled or the connection is closed.
func (c *Controller) writePump(ctx context.Context, wsConn *websocket.Conn, conn *model.Connection) {
	for {
		msg, err := conn.FetchServerToAgent(ctx)
		if err != nil {
			return
		}

		payload, err := c.codec.EncodeServerToAgent(msg)
		if err != nil {
			c.logger.Warn("failed to encode server to agent message", slog.String("error", err.Error()))

			continue
		}

		if err := wsConn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
			return
		}
	}
}

// readPump is the sole reader of wsConn, feeding every inbound frame
// through the protocol engine and routing its reply onto conn's outbound
// queue so writePump remains the only goroutine touching the socket.
func (c *Controller) readPump(ctx context.Context, wsConn *websocket.Conn, instanceUID uuid.UUID) {
	for {
		messageType, payload, err := wsConn.ReadMessage()
		if err != nil {
			return
		}

		if messageType != websocket.BinaryMessage {
			c.logger.Warn("unexpected websocket message type", slog.Int("type", messageType))

			continue
		}

		msg, err := c.codec.DecodeAgentToServer(payload)
		if err != nil {
			c.logger.Warn("failed to decode agent to server message", slog.String("error", err.Error()))

			if conn, ok := c.connections.Get(ctx, instanceUID); ok {
				if err := conn.Send(badRequestReply(instanceUID, err.Error())); err != nil {
					c.logger.Warn("failed to queue bad request reply", slog.String("error", err.Error()))
				}
			}

			continue
		}

		reply, err := c.engine.HandleMessage(ctx, instanceUID, msg)
		if err != nil {
			c.logger.Error("failed to handle agent to server message", slog.String("error", err.Error()))

			continue
		}

		if conn, ok := c.connections.Get(ctx, instanceUID); ok {
			if err := conn.Send(reply); err != nil {
				c.logger.Warn("failed to queue reply", slog.String("error", err.Error()))
			}
		}
	}
}

// HTTP serves one OpAMP long-poll request/response cycle: the request body
// carries one AgentToServer, the response body carries one ServerToAgent.
// A connection is registered for the lifetime of the request so a rollout
// push already in flight can be delivered instead of the direct reply, but
// is deregistered directly (not via Engine.OnDisconnected) so a round of
// polling never flips the agent's connection_status to disconnected.
//
// @Summary OpAMP HTTP long-poll endpoint
// @Tags OpAMP
// @Accept application/x-protobuf
// @Produce application/x-protobuf
// @Param Authorization header string true "Bearer <opamp token>"
// @Router /v1/opamp [post].
func (c *Controller) HTTP(ctx *gin.Context) {
	instanceUID, err := c.authenticate(ctx.Request)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})

		return
	}

	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})

		return
	}

	msg, err := c.codec.DecodeAgentToServer(body)
	if err != nil {
		c.logger.Warn("failed to decode agent to server message", slog.String("error", err.Error()))

		payload, encErr := c.codec.EncodeServerToAgent(badRequestReply(instanceUID, err.Error()))
		if encErr != nil {
			c.logger.Error("failed to encode bad request reply", slog.String("error", encErr.Error()))
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid message"})

			return
		}

		ctx.Data(http.StatusBadRequest, "application/x-protobuf", payload)

		return
	}

	reqCtx := ctx.Request.Context()

	conn := model.NewConnection(instanceUID, model.TransportHTTPLongPoll, func() {})
	if err := c.connections.Register(reqCtx, instanceUID, conn); err != nil {
		c.logger.Error("failed to register long-poll connection", slog.String("error", err.Error()))
	}

	defer func() {
		conn.Close()

		if err := c.connections.Unregister(reqCtx, conn); err != nil && !errors.Is(err, port.ErrConnectionNotFound) {
			c.logger.Warn("failed to unregister long-poll connection", slog.String("error", err.Error()))
		}
	}()

	reply, err := c.engine.HandleMessage(reqCtx, instanceUID, msg)
	if err != nil {
		c.logger.Error("failed to handle agent to server message", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process message"})

		return
	}

	drainCtx, cancel := context.WithTimeout(reqCtx, longPollDrain)
	defer cancel()

	if queued, err := conn.FetchServerToAgent(drainCtx); err == nil {
		reply = queued
	}

	payload, err := c.codec.EncodeServerToAgent(reply)
	if err != nil {
		c.logger.Error("failed to encode server to agent message", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode reply"})

		return
	}

	ctx.Data(http.StatusOK, "application/x-protobuf", payload)
}
