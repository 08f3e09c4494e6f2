package preview

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/goliatone/go-credform/pkg/form"
	"github.com/goliatone/go-credform/pkg/render"
	"github.com/goliatone/go-credform/pkg/schema"
)

// session is one browser tab. mu serializes the websocket reader and the
// validation goroutines; the form itself is not safe for concurrent use.
type session struct {
	id string

	mu         sync.Mutex
	host       *form.Host
	errors     map[string][]string
	generation uint64
}

func (s *Server) newSession() *session {
	props := s.props
	if props.Value != nil {
		props.Value = props.Value.Clone()
	}
	sess := &session{
		id:   uuid.NewString(),
		host: form.NewHost(props, form.WithLocale(s.locale)),
	}
	s.sessions.Set(sess.id, sess, cache.DefaultExpiration)
	return sess
}

// lookup returns the session and extends its expiry.
func (s *Server) lookup(id string) (*session, bool) {
	item, ok := s.sessions.Get(id)
	if !ok {
		return nil, false
	}
	sess, ok := item.(*session)
	if !ok {
		return nil, false
	}
	s.sessions.SetDefault(id, sess)
	return sess, true
}

func (s *Server) render(ctx context.Context, sess *session) ([]byte, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.renderLocked(ctx, sess)
}

func (s *Server) renderLocked(ctx context.Context, sess *session) ([]byte, error) {
	return s.renderer.Render(ctx, sess.host.Build(), render.RenderOptions{
		Errors:   sess.errors,
		Theme:    s.theme,
		Endpoint: socketPath(sess.id),
	})
}

func (sess *session) values() map[string]string {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.host.Value().Strings()
}

// snapshot is taken under the session lock and handed to the validator.
type snapshot struct {
	generation uint64
	schemas    schema.Schemas
	values     schema.FormValue
}
