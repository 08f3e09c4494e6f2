package preview

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/goliatone/go-credform/pkg/render"
	"github.com/goliatone/go-credform/pkg/validation"
)

// Message types exchanged over the websocket.
const (
	MessageChange = "change"
	MessageValues = "values"
	MessageRender = "render"
	MessageError  = "error"
)

// ClientMessage is sent by the page.
type ClientMessage struct {
	Type     string `json:"type"`
	Variable string `json:"variable,omitempty"`
	Value    string `json:"value,omitempty"`
}

// ServerMessage is pushed to the page.
type ServerMessage struct {
	Type       string              `json:"type"`
	HTML       string              `json:"html,omitempty"`
	Values     map[string]string   `json:"values,omitempty"`
	Errors     map[string][]string `json:"errors,omitempty"`
	FormErrors []string            `json:"formErrors,omitempty"`
	Validating bool                `json:"validating,omitempty"`
	Validated  bool                `json:"validated,omitempty"`
	Error      string              `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// conn serializes writes; gorilla connections allow one concurrent writer.
type conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *conn) send(msg ServerMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(msg)
}

func (s *Server) handleSocket(c *gin.Context) {
	sess, ok := s.lookup(c.Param("session"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	if !websocket.IsWebSocketUpgrade(c.Request) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "websocket upgrade required"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.String("session", sess.id), zap.Error(err))
		return
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	out := &conn{ws: ws}
	logger := s.logger.With(zap.String("session", sess.id))
	logger.Debug("websocket connected")

	for {
		var msg ClientMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("websocket closed", zap.Error(err))
			}
			return
		}
		s.lookup(sess.id)

		switch msg.Type {
		case MessageChange:
			if err := s.applyChange(ctx, sess, out, msg, logger); err != nil {
				logger.Warn("change failed", zap.Error(err))
				return
			}
		case MessageValues:
			if err := out.send(ServerMessage{Type: MessageValues, Values: sess.values()}); err != nil {
				return
			}
		default:
			if err := out.send(ServerMessage{Type: MessageError, Error: "unknown message type " + msg.Type}); err != nil {
				return
			}
		}
	}
}

// applyChange feeds one edit through the form and pushes the result. With a
// validator the first push carries the validating flag and a second one
// follows from a goroutine once the validator returns.
func (s *Server) applyChange(ctx context.Context, sess *session, out *conn, msg ClientMessage, logger *zap.Logger) error {
	sess.mu.Lock()
	changed := sess.host.Change(msg.Variable, msg.Value)
	if !changed {
		sess.mu.Unlock()
		return s.push(ctx, sess, out)
	}
	sess.errors = nil
	sess.generation++
	if s.validator == nil {
		sess.mu.Unlock()
		return s.push(ctx, sess, out)
	}
	sess.host.SetValidation(true, false)
	snap := snapshot{
		generation: sess.generation,
		schemas:    sess.host.Schemas(),
		values:     sess.host.Value(),
	}
	sess.mu.Unlock()

	if err := s.push(ctx, sess, out); err != nil {
		return err
	}

	go s.validate(ctx, sess, out, snap, logger)
	return nil
}

func (s *Server) validate(ctx context.Context, sess *session, out *conn, snap snapshot, logger *zap.Logger) {
	verr := s.validator.ValidateCredentials(ctx, snap.schemas, snap.values)
	if errors.Is(verr, context.Canceled) || errors.Is(verr, context.DeadlineExceeded) {
		return
	}

	sess.mu.Lock()
	if sess.generation != snap.generation {
		sess.mu.Unlock()
		logger.Debug("stale validation dropped", zap.Uint64("generation", snap.generation))
		return
	}
	sess.host.SetValidation(false, verr == nil)
	sess.errors = validation.AsFieldErrors(verr)
	sess.mu.Unlock()

	if verr != nil {
		logger.Debug("validation failed", zap.Error(verr))
	}
	if err := s.push(ctx, sess, out); err != nil {
		logger.Debug("push after validation failed", zap.Error(err))
	}
}

func (s *Server) push(ctx context.Context, sess *session, out *conn) error {
	sess.mu.Lock()
	model := sess.host.Build()
	markup, err := s.renderLocked(ctx, sess)
	mapping := render.MapErrors(model, sess.errors)
	values := sess.host.Value().Strings()
	sess.mu.Unlock()
	if err != nil {
		return out.send(ServerMessage{Type: MessageError, Error: err.Error()})
	}

	return out.send(ServerMessage{
		Type:       MessageRender,
		HTML:       string(markup),
		Values:     values,
		Errors:     mapping.Fields,
		FormErrors: mapping.Form,
		Validating: model.Validating,
		Validated:  model.ValidatedSuccess,
	})
}
