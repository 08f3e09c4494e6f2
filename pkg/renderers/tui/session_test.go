package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-credform/pkg/form"
	"github.com/goliatone/go-credform/pkg/model"
	"github.com/goliatone/go-credform/pkg/render"
	"github.com/goliatone/go-credform/pkg/schema"
	"github.com/goliatone/go-credform/pkg/validation"
)

type stubDriver struct {
	inputs       []string
	passwords    []string
	selectIdx    []int
	confirm      []bool
	selectErr    error
	infoMessages []string
	prompts      []string
	inputPos     int
	passPos      int
	selectPos    int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.selectErr != nil {
		return -1, s.selectErr
	}
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func credentialSchemas() schema.Schemas {
	return schema.Schemas{
		&schema.Radio{
			Common: schema.Common{
				Variable: "auth_type",
				Label:    schema.I18nText{"en_US": "Authentication"},
				Required: true,
			},
			Options: []schema.Option{
				{Value: "key", Label: schema.I18nText{"en_US": "API Key"}},
				{Value: "oauth", Label: schema.I18nText{"en_US": "OAuth"}},
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
		&schema.TextInput{
			Common: schema.Common{Variable: "endpoint", Label: schema.I18nText{"en_US": "Endpoint"}},
		},
	}
}

func TestSession_PromptsRevealedFields(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{0},
		passwords: []string{"sk-1"},
		inputs:    []string{"https://api.example.com"},
	}
	session, err := NewSession(form.Props{Schemas: credentialSchemas()}, WithPromptDriver(driver))
	require.NoError(t, err)

	values, err := session.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Authentication *", "API Key *", "Endpoint"}, driver.prompts)
	assert.Equal(t, map[string]string{
		"auth_type": "key",
		"api_key":   "sk-1",
		"endpoint":  "https://api.example.com",
	}, values.Strings())
}

func TestSession_SwitchingControllerClearsDependents(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{1},
		inputs:    []string{""},
	}
	session, err := NewSession(form.Props{
		Schemas: credentialSchemas(),
		Value: schema.FormValue{
			"auth_type": schema.Str("key"),
			"api_key":   schema.Str("sk-old"),
		},
	}, WithPromptDriver(driver))
	require.NoError(t, err)

	values, err := session.Run(context.Background())
	require.NoError(t, err)

	_, ok := values.Get("api_key")
	assert.False(t, ok, "dependent secret cleared when auth_type changes")
	assert.Equal(t, []string{"Authentication *", "Endpoint"}, driver.prompts)
}

func TestSession_EditModeSkipsIdentityFields(t *testing.T) {
	schemas := schema.Schemas{
		&schema.TextInput{Common: schema.Common{
			Variable: schema.ModelNameVariable,
			Label:    schema.I18nText{"en_US": "Model Name"},
			Required: true,
		}},
		&schema.SecretInput{Common: schema.Common{
			Variable: "api_key",
			Label:    schema.I18nText{"en_US": "API Key"},
			Required: true,
		}},
	}
	driver := &stubDriver{passwords: []string{""}}
	session, err := NewSession(form.Props{
		Schemas:    schemas,
		IsEditMode: true,
		Value: schema.FormValue{
			schema.ModelNameVariable: schema.Str("gpt-4o"),
			"api_key":                schema.Str("sk-existing"),
		},
	}, WithPromptDriver(driver), WithTheme(Theme{InfoPrefix: "> "}))
	require.NoError(t, err)

	values, err := session.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, driver.infoMessages, "> Model Name * is locked while editing (gpt-4o)")
	assert.Equal(t, []string{"API Key *"}, driver.prompts)
	key, _ := values.Get("api_key")
	assert.Equal(t, "sk-existing", key, "empty password keeps the stored secret")
}

func keyChecker() validation.Validator {
	return validation.Func(func(_ context.Context, _ schema.Schemas, values schema.FormValue) error {
		if key, _ := values.Get("api_key"); key == "bad" {
			return &validation.Error{Issues: []validation.Issue{{Field: "api_key", Message: "invalid key"}}}
		}
		return nil
	})
}

func TestSession_ValidationRetry(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{0},
		passwords: []string{"bad", "good"},
		inputs:    []string{""},
		confirm:   []bool{true},
	}
	session, err := NewSession(form.Props{Schemas: credentialSchemas()},
		WithPromptDriver(driver),
		WithValidator(keyChecker()),
	)
	require.NoError(t, err)

	values, err := session.Run(context.Background())
	require.NoError(t, err)

	key, _ := values.Get("api_key")
	assert.Equal(t, "good", key)
	assert.Contains(t, driver.infoMessages, "Validating API Key *...")
	assert.Contains(t, driver.infoMessages, "api_key: invalid key")
	assert.Equal(t, 1, driver.confirmPos)
	assert.True(t, session.Model().ValidatedSuccess)
	assert.Empty(t, session.Errors())
}

func TestSession_ValidationDeclined(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{0},
		passwords: []string{"bad"},
		inputs:    []string{""},
		confirm:   []bool{false},
	}
	session, err := NewSession(form.Props{Schemas: credentialSchemas()},
		WithPromptDriver(driver),
		WithValidator(keyChecker()),
	)
	require.NoError(t, err)

	values, err := session.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, validation.ErrValidationFailed)
	key, _ := values.Get("api_key")
	assert.Equal(t, "bad", key)
	assert.False(t, session.Model().ValidatedSuccess)
	assert.Equal(t, map[string][]string{"api_key": {"invalid key"}}, session.Errors())
}

func TestSession_Abort(t *testing.T) {
	driver := &stubDriver{selectErr: ErrAborted}
	session, err := NewSession(form.Props{Schemas: credentialSchemas()}, WithPromptDriver(driver))
	require.NoError(t, err)

	_, err = session.Run(context.Background())
	assert.ErrorIs(t, err, ErrAborted)
}

func TestRenderer_RenderPrettyMasksSecrets(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"acme"},
		passwords: []string{"sk-123"},
	}
	r, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))
	require.NoError(t, err)
	assert.Equal(t, "tui", r.Name())
	assert.Equal(t, "text/plain; charset=utf-8", r.ContentType())

	fm := model.FormModel{
		Locale: "en_US",
		Fields: []model.Field{
			{Kind: model.FieldKindTextInput, Variable: "organization", Label: "Organization"},
			{Kind: model.FieldKindSecretInput, Variable: "api_key", Label: "API Key", Required: true, Secret: true},
		},
	}

	out, err := r.Render(context.Background(), fm, render.RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "organization=acme\napi_key=********\n", string(out))
	assert.Equal(t, []string{"Organization", "API Key *"}, driver.prompts)
}

func TestRenderer_RenderJSON(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{1}}
	r, err := New(WithPromptDriver(driver))
	require.NoError(t, err)

	fm := model.FormModel{
		Fields: []model.Field{{
			Kind:     model.FieldKindSelect,
			Variable: "mode",
			Label:    "Mode",
			Value:    "chat",
			HasValue: true,
			Options: []model.Option{
				{Value: "chat", Label: "Chat", Selected: true},
				{Value: "completion", Label: "Completion"},
			},
		}},
	}

	out, err := r.Render(context.Background(), fm, render.RenderOptions{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"completion"}`, string(out))
}

func TestSerialize(t *testing.T) {
	values := schema.FormValue{"b": schema.Str("2 3"), "a": schema.Str("1"), "gone": nil}

	out, err := Serialize(OutputFormatFormURLEncoded, nil, values)
	require.NoError(t, err)
	assert.Equal(t, "a=1&b=2+3", string(out))

	out, err = Serialize(OutputFormatPrettyText, nil, values)
	require.NoError(t, err)
	assert.Equal(t, "a=1\nb=2 3\n", string(out))

	_, err = Serialize("xml", nil, values)
	assert.Error(t, err)
}

func TestSession_SerializeMasksHiddenSecrets(t *testing.T) {
	schemas := schema.Schemas{
		&schema.Radio{
			Common: schema.Common{Variable: schema.ModelTypeVariable, Label: schema.I18nText{"en_US": "Model Type"}},
			Options: []schema.Option{
				{Value: "llm", Label: schema.I18nText{"en_US": "LLM"}},
				{Value: "embeddings", Label: schema.I18nText{"en_US": "Embeddings"}},
			},
		},
		&schema.SecretInput{Common: schema.Common{
			Variable: "llm_key",
			Label:    schema.I18nText{"en_US": "LLM Key"},
			ShowOn:   []schema.ShowOnItem{{Variable: schema.ModelTypeVariable, Value: "llm"}},
		}},
	}
	driver := &stubDriver{}
	session, err := NewSession(form.Props{
		Schemas:    schemas,
		IsEditMode: true,
		Value: schema.FormValue{
			schema.ModelTypeVariable: schema.Str("embeddings"),
			"llm_key":                schema.Str("sk-live-SECRET"),
		},
	}, WithPromptDriver(driver))
	require.NoError(t, err)

	values, err := session.Run(context.Background())
	require.NoError(t, err)
	require.Empty(t, driver.prompts)

	out, err := session.Serialize(OutputFormatPrettyText, values)
	require.NoError(t, err)
	assert.Equal(t, schema.ModelTypeVariable+"=embeddings\nllm_key=********\n", string(out))
	assert.NotContains(t, string(out), "sk-live-SECRET")
}

func TestSession_MutualShowOnTerminates(t *testing.T) {
	schemas := schema.Schemas{
		&schema.Select{Common: schema.Common{Variable: "a"}, Options: []schema.Option{
			{Value: "x", ShowOn: []schema.ShowOnItem{{Variable: "b", Value: "x"}}},
			{Value: "y"},
		}},
		&schema.Select{Common: schema.Common{Variable: "b"}, Options: []schema.Option{
			{Value: "x", ShowOn: []schema.ShowOnItem{{Variable: "a", Value: "x"}}},
			{Value: "y"},
		}},
	}
	driver := &stubDriver{selectIdx: make([]int, 50)}
	session, err := NewSession(form.Props{Schemas: schemas}, WithPromptDriver(driver))
	require.NoError(t, err)

	values, err := session.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "a", "b"}, driver.prompts)
	assert.Equal(t, map[string]string{"b": "y"}, values.Strings())
}
