package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gplanner/gplan/internal/core/domain"
)

func TestFactory_Create(t *testing.T) {
	tests := []struct {
		name    string
		profile domain.AIProfile
		wantErr error
	}{
		{
			name:    "openai",
			profile: domain.AIProfile{Provider: domain.AIProviderOpenAI, URL: "https://x/v1/chat/completions", Key: "k", Model: "m"},
		},
		{
			name:    "anthropic",
			profile: domain.AIProfile{Provider: domain.AIProviderAnthropic, Key: "k", Model: "claude"},
		},
		{
			name:    "ollama",
			profile: domain.AIProfile{Provider: domain.AIProviderOllama, Model: "llama3.2"},
		},
		{
			name:    "unknown",
			profile: domain.AIProfile{Provider: "cohere", Model: "m"},
			wantErr: domain.ErrUnsupportedType,
		},
	}

	f := NewFactory(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := f.Create(tt.profile)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.profile.Model, svc.ModelName())
			assert.NoError(t, svc.Close())
		})
	}
}

func TestFactory_CreateForSettings(t *testing.T) {
	f := NewFactory(0)

	svc, err := f.CreateForSettings(nil)
	require.NoError(t, err)
	assert.Nil(t, svc)

	defaults := domain.DefaultAppSettings()
	svc, err = f.CreateForSettings(&defaults)
	require.NoError(t, err)
	assert.Nil(t, svc, "default profile has no key")

	defaults.Profiles[0].Key = "sk"
	svc, err = f.CreateForSettings(&defaults)
	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, "mimo-v2-flash", svc.ModelName())
}
