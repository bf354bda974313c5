// Package chat exposes the websocket gateway a chat-platform adapter
// connects to.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"lunchledger/internal/chatparse"
	ledger "lunchledger/internal/ledger/domain"
	"lunchledger/internal/observability/metrics"
)

// InboundFrame is one user message from the chat platform.
type InboundFrame struct {
	ChannelID string    `json:"channel_id"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	TS        time.Time `json:"ts"`
}

// CommandHandler processes a parsed command and returns the replies to
// deliver.
type CommandHandler interface {
	Handle(ctx context.Context, cmd ledger.Command) ([]ledger.Reply, error)
}

// Gateway upgrades inbound HTTP requests to websocket sessions, parses
// message frames into commands, and writes one frame per reply.
type Gateway struct {
	handler CommandHandler
	parser  *chatparse.Parser
	logger  *log.Logger
}

// NewGateway constructs a gateway.
func NewGateway(handler CommandHandler, parser *chatparse.Parser, logger *log.Logger) (*Gateway, error) {
	if handler == nil {
		return nil, errors.New("gateway: nil handler")
	}
	if parser == nil {
		return nil, errors.New("gateway: nil parser")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Gateway{handler: handler, parser: parser, logger: logger}, nil
}

// ServeHTTP handles one websocket session.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closed")

	metrics.GatewayConnected()
	defer metrics.GatewayDisconnected()

	ctx := r.Context()
	if err := g.session(ctx, conn); err != nil {
		_ = conn.Close(websocket.StatusInternalError, "session error")
		return
	}
	_ = conn.Close(websocket.StatusNormalClosure, "done")
}

func (g *Gateway) session(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		var frame InboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			g.logger.Printf("gateway: bad frame: %v", err)
			continue
		}
		if frame.TS.IsZero() {
			frame.TS = time.Now().UTC()
		}

		cmd := g.parser.Parse(ledger.PersonID(frame.User), frame.ChannelID, frame.Text, frame.TS)
		replies, err := g.handler.Handle(ctx, cmd)
		if err != nil {
			g.logger.Printf("gateway: handle: %v", err)
			continue
		}
		for _, reply := range replies {
			payload, err := json.Marshal(reply)
			if err != nil {
				return err
			}
			if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
				return err
			}
		}
	}
}
