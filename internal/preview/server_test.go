package preview

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-credform/pkg/form"
	"github.com/goliatone/go-credform/pkg/schema"
	"github.com/goliatone/go-credform/pkg/validation"
)

var sessionAttr = regexp.MustCompile(`data-session="([0-9a-f-]+)"`)

func previewProps() form.Props {
	return form.Props{
		Schemas: schema.Schemas{
			&schema.Radio{
				Common: schema.Common{
					Variable: "auth_type",
					Label:    schema.I18nText{"en_US": "Authentication"},
					Required: true,
				},
				Options: []schema.Option{
					{Value: "key", Label: schema.I18nText{"en_US": "API Key"}},
					{Value: "none", Label: schema.I18nText{"en_US": "None"}},
				},
			},
			&schema.SecretInput{
				Common: schema.Common{
					Variable: "api_key",
					Label:    schema.I18nText{"en_US": "API Key"},
					Required: true,
					ShowOn:   []schema.ShowOnItem{{Variable: "auth_type", Value: "key"}},
				},
			},
		},
	}
}

func startServer(t *testing.T, options ...Option) (*httptest.Server, string) {
	t.Helper()

	srv, err := New(previewProps(), options...)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	match := sessionAttr.FindStringSubmatch(string(body))
	require.Len(t, match, 2, "page exposes the session id")
	assert.Contains(t, string(body), `name="auth_type"`)
	assert.NotContains(t, string(body), `name="api_key"`)
	return ts, match[1]
}

func dial(t *testing.T, ts *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/" + id
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestServer_Routes(t *testing.T) {
	ts, id := startServer(t)

	resp, err := http.Get(ts.URL + "/form/" + id)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `data-endpoint="/ws/`+id+`"`)

	resp, err = http.Get(ts.URL + "/form/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, err = http.Get(ts.URL + "/assets/credform.css")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_ChangeRevealsDependentField(t *testing.T) {
	ts, id := startServer(t)
	conn := dial(t, ts, id)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageChange, Variable: "auth_type", Value: "key"}))
	msg := readMessage(t, conn)
	assert.Equal(t, MessageRender, msg.Type)
	assert.Contains(t, msg.HTML, `name="api_key"`)
	assert.Equal(t, map[string]string{"auth_type": "key"}, msg.Values)
	assert.False(t, msg.Validating)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageChange, Variable: "api_key", Value: "sk-1"}))
	readMessage(t, conn)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageChange, Variable: "auth_type", Value: "none"}))
	msg = readMessage(t, conn)
	assert.NotContains(t, msg.HTML, `name="api_key"`)
	assert.Equal(t, map[string]string{"auth_type": "none"}, msg.Values, "switching auth clears the key")

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageValues}))
	msg = readMessage(t, conn)
	assert.Equal(t, MessageValues, msg.Type)
	assert.Equal(t, map[string]string{"auth_type": "none"}, msg.Values)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "noop"}))
	msg = readMessage(t, conn)
	assert.Equal(t, MessageError, msg.Type)
}

func TestServer_ValidationPushesTwice(t *testing.T) {
	checker := validation.Func(func(_ context.Context, _ schema.Schemas, values schema.FormValue) error {
		if key, _ := values.Get("api_key"); key == "bad" {
			return &validation.Error{Issues: []validation.Issue{
				{Field: "api_key", Message: "invalid key"},
				{Message: "provider unreachable"},
			}}
		}
		return nil
	})
	ts, id := startServer(t, WithValidator(checker))
	conn := dial(t, ts, id)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageChange, Variable: "auth_type", Value: "key"}))
	first := readMessage(t, conn)
	assert.True(t, first.Validating)
	second := readMessage(t, conn)
	assert.False(t, second.Validating)
	assert.True(t, second.Validated)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageChange, Variable: "api_key", Value: "bad"}))
	first = readMessage(t, conn)
	assert.True(t, first.Validating)
	assert.Contains(t, first.HTML, `data-validating="api_key"`)

	second = readMessage(t, conn)
	assert.False(t, second.Validating)
	assert.False(t, second.Validated)
	assert.Equal(t, map[string][]string{"api_key": {"invalid key"}}, second.Errors)
	assert.Equal(t, []string{"provider unreachable"}, second.FormErrors)
	assert.Contains(t, second.HTML, "invalid key")
	assert.Contains(t, second.HTML, "provider unreachable")
}

func TestServer_UnknownSocketSession(t *testing.T) {
	ts, _ := startServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/missing"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_RunStopsWithContext(t *testing.T) {
	srv, err := New(previewProps(), WithListen("127.0.0.1:0"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
