// Package stream pushes live collection snapshots over websockets.
//
// GET /api/stream/:collection upgrades to a websocket and sends the whole
// collection as JSON once and again after every change, until either side
// closes the connection.
package stream

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"

	"github.com/salarkhan2003/OLTECH-AI/internal/realtime"
	"github.com/salarkhan2003/OLTECH-AI/internal/web/handler"
	"github.com/salarkhan2003/OLTECH-AI/internal/workspace"
)

const (
	// Path is the websocket endpoint below the API router.
	Path = "/stream/:collection"

	localGroupID = "stream_group_id"
)

// Service is the stream handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the stream handler.
var Handler = Service{} //nolint:gochecknoglobals

// Message is one frame sent to the client.
type Message[T any] struct {
	Collection string `json:"collection"`
	Items      []T    `json:"items"`
	Error      string `json:"error,omitempty"`
}

// Init initializes the stream handler.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.deps = deps

	router.Get(Path, s.Upgrade, websocket.New(s.Serve))

	return nil
}

// Upgrade checks the request before the websocket handshake.
func (s *Service) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	switch c.Params("collection") {
	case realtime.Members, realtime.Projects, realtime.Tasks, realtime.Documents:
	default:
		return handler.Error(c, fiber.NewError(fiber.StatusNotFound, "unknown collection"))
	}

	groupID, err := handler.CurrentGroupID(c, s.deps.Workspace)
	if err != nil {
		return handler.Error(c, err)
	}

	c.Locals(localGroupID, groupID)

	return c.Next()
}

// Serve streams one collection until the client goes away.
func (s *Service) Serve(conn *websocket.Conn) {
	uid, _ := conn.Locals(handler.LocalUID).(string)
	collection := conn.Params("collection")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// the client only ever sends close frames, reading notices them
	go func() {
		defer cancel()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ws := s.deps.Workspace

	var err error

	switch collection {
	case realtime.Members:
		err = pipe(ctx, conn, collection, ws.WatchMembers)
	case realtime.Projects:
		err = pipe(ctx, conn, collection, ws.WatchProjects)
	case realtime.Tasks:
		err = pipe(ctx, conn, collection, ws.WatchTasks)
	case realtime.Documents:
		err = pipe(ctx, conn, collection, ws.WatchDocuments)
	}

	if err != nil {
		log.Debug().Err(err).Str("uid", uid).Str("collection", collection).Msg("stream closed")
	}

	_ = conn.Close()
}

func pipe[T any](
	ctx context.Context,
	conn *websocket.Conn,
	collection string,
	watch func(ctx context.Context, uid, groupID string) (<-chan realtime.Snapshot[T], error),
) error {
	uid, _ := conn.Locals(handler.LocalUID).(string)
	groupID, _ := conn.Locals(localGroupID).(string)

	snapshots, err := watch(ctx, uid, groupID)
	if err != nil {
		_ = conn.WriteJSON(Message[T]{Collection: collection, Error: err.Error()})
		return err
	}

	for snap := range snapshots {
		// a removed member gets one last frame and the stream ends
		if errors.Is(snap.Err, workspace.ErrForbidden) {
			_ = conn.WriteJSON(Message[T]{Collection: collection, Error: snap.Err.Error()})
			return snap.Err
		}

		msg := Message[T]{Collection: collection, Items: snap.Items}
		if snap.Err != nil {
			msg.Error = "failed to load " + collection
			log.Error().Err(snap.Err).Str("collection", collection).Msg("stream load failed")
		}

		if err = conn.WriteJSON(msg); err != nil {
			return err //nolint:wrapcheck
		}
	}

	return ctx.Err()
}
