package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-credform/pkg/schema"
)

func TestHost_FeedsSnapshotsBack(t *testing.T) {
	var observed []schema.FormValue
	host := NewHost(Props{Schemas: authSchemas()})
	host.Observer = func(next schema.FormValue) {
		observed = append(observed, next)
	}

	// no explicit value: defaults seed the snapshot, none declared here
	assert.Equal(t, []string{"auth_type"}, host.Build().Variables())

	require.True(t, host.Change("auth_type", "key"))
	assert.Equal(t, []string{"auth_type", "api_key"}, host.Build().Variables())

	require.True(t, host.Change("api_key", "sk-123"))
	key, _ := host.Value().Get("api_key")
	assert.Equal(t, "sk-123", key)

	// derived clearing map drops the secret when the controller changes
	require.True(t, host.Change("auth_type", "oauth"))
	_, ok := host.Value().Get("api_key")
	assert.False(t, ok)

	require.Len(t, observed, 3)
}

func TestHost_ValidationFlags(t *testing.T) {
	host := NewHost(Props{Schemas: authSchemas(), Value: schema.FormValue{"auth_type": schema.Str("key")}})
	host.Change("api_key", "sk-123")

	host.SetValidation(true, false)
	assert.True(t, host.Validating())
	secret, _ := host.Build().Field("api_key")
	assert.True(t, secret.ShowValidating)

	host.SetValidation(false, true)
	secret, _ = host.Build().Field("api_key")
	assert.False(t, secret.ShowValidating)
	assert.True(t, secret.Validated)
}

func TestHost_ValueIsACopy(t *testing.T) {
	host := NewHost(Props{Value: schema.FormValue{"auth_type": schema.Str("key")}})
	snapshot := host.Value()
	snapshot["auth_type"] = schema.Str("oauth")

	current, _ := host.Value().Get("auth_type")
	assert.Equal(t, "key", current)
}
