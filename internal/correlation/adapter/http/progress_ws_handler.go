package http

import (
	"context"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/model"
	"github.com/vinodmerwade/OrgCheck/internal/correlation/usecase"
	"github.com/vinodmerwade/OrgCheck/internal/shared/eventbus"
	"github.com/vinodmerwade/OrgCheck/internal/shared/logger"
)

// progressBuffer is the number of undelivered messages kept per connection.
// Messages beyond it are dropped so a slow client never stalls a run.
const progressBuffer = 256

var progressEventTypes = []string{
	eventbus.EventTypeRunProgress,
	eventbus.EventTypeRunCompleted,
	eventbus.EventTypeRunFailed,
}

// ProgressMessage is one frame sent to progress subscribers.
type ProgressMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// ProgressHandler streams run progress over a WebSocket.
type ProgressHandler struct {
	bus  eventbus.EventBusInterface
	path string
	log  logger.Logger
}

// NewProgressHandler creates a handler serving path.
func NewProgressHandler(bus eventbus.EventBusInterface, path string, log logger.Logger) *ProgressHandler {
	return &ProgressHandler{bus: bus, path: path, log: log.WithComponent("progress_ws")}
}

// RegisterRoutes registers the WebSocket endpoint.
func (h *ProgressHandler) RegisterRoutes(router fiber.Router) {
	router.Use(h.path, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get(h.path, websocket.New(h.handleConnection))
}

// handleConnection forwards bus events to the client until it disconnects.
// The optional dataset query parameter narrows the stream to one dataset.
func (h *ProgressHandler) handleConnection(conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subscriberID := uuid.NewString()
	dataset := conn.Query("dataset")
	log := h.log.WithContext(ctx)
	log.Info("Progress subscriber connected", zap.String("subscriberID", subscriberID), zap.String("dataset", dataset))

	out := make(chan ProgressMessage, progressBuffer)
	subscriptions := make(map[string]string, len(progressEventTypes))
	for _, eventType := range progressEventTypes {
		subscriptions[eventType] = h.bus.Subscribe(eventType, func(_ context.Context, event eventbus.Event) error {
			if dataset != "" && datasetOf(event) != dataset {
				return nil
			}
			select {
			case out <- ProgressMessage{Type: event.Type(), Data: event.Data(), Timestamp: event.Timestamp()}:
			case <-ctx.Done():
			default:
				log.Warn("Dropping progress message for slow subscriber", zap.String("subscriberID", subscriberID))
			}
			return nil
		})
	}
	defer func() {
		for eventType, id := range subscriptions {
			h.bus.Unsubscribe(eventType, id)
		}
		log.Info("Progress subscriber disconnected", zap.String("subscriberID", subscriberID))
	}()

	go h.readUntilClosed(conn, cancel, subscriberID)

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-out:
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("Progress write failed", zap.String("subscriberID", subscriberID), zap.Error(err))
				return
			}
		}
	}
}

// readUntilClosed drains client frames and cancels once the connection ends.
func (h *ProgressHandler) readUntilClosed(conn *websocket.Conn, cancel context.CancelFunc, subscriberID string) {
	defer cancel()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Error("WebSocket error", zap.String("subscriberID", subscriberID), zap.Error(err))
			}
			return
		}
	}
}

func datasetOf(event eventbus.Event) string {
	switch data := event.Data().(type) {
	case model.Progress:
		return data.Dataset
	case usecase.RunCompleted:
		return data.Dataset
	}
	return event.Source()
}
