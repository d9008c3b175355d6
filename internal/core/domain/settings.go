package domain

const unknownDescription = "Unknown"

// AIProvider identifies the wire protocol of a completion endpoint.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOpenAI is any OpenAI-compatible chat completions endpoint.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic messages API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI-compatible"
	case AIProviderAnthropic:
		return "Anthropic"
	default:
		return unknownDescription
	}
}

// DefaultProfileID names the profile shipped with a fresh install.
const DefaultProfileID = "default"

// AIProfile is one configured completion endpoint.
type AIProfile struct {
	ID       string     `toml:"id" json:"id"`
	Name     string     `toml:"name" json:"name"`
	Provider AIProvider `toml:"provider" json:"provider"`
	URL      string     `toml:"url" json:"url"`
	Key      string     `toml:"key" json:"key"`
	Model    string     `toml:"model" json:"model"`
}

// IsConfigured returns true if the profile can make requests.
func (p AIProfile) IsConfigured() bool {
	if !p.Provider.IsValid() || p.Model == "" {
		return false
	}
	if p.Provider.RequiresAPIKey() && p.Key == "" {
		return false
	}
	if p.Provider == AIProviderOpenAI && p.URL == "" {
		return false
	}
	return true
}

// MaskedKey returns the key with all but the last four characters hidden.
func (p AIProfile) MaskedKey() string {
	if len(p.Key) <= 4 {
		if p.Key == "" {
			return ""
		}
		return "****"
	}
	return "****" + p.Key[len(p.Key)-4:]
}

// DefaultAIProfile returns the profile present before the user adds any.
func DefaultAIProfile() AIProfile {
	return AIProfile{
		ID:       DefaultProfileID,
		Name:     "Default (Mimo)",
		Provider: AIProviderOpenAI,
		URL:      "https://api.xiaomimimo.com/v1/chat/completions",
		Model:    "mimo-v2-flash",
	}
}

// NewProfileTemplate returns the starting values for a user-added profile.
func NewProfileTemplate() AIProfile {
	return AIProfile{
		Name:     "New Profile",
		Provider: AIProviderOpenAI,
		URL:      "https://api.openai.com/v1/chat/completions",
		Model:    "gpt-3.5-turbo",
	}
}

// BoardSettings tunes whiteboard behaviour.
type BoardSettings struct {
	Limits SizeLimits
}

// AppSettings is the persisted user configuration.
type AppSettings struct {
	Profiles        []AIProfile
	ActiveProfileID string
	ActiveProjectID string
	Board           BoardSettings
}

// DefaultAppSettings returns settings for a fresh install.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Profiles:        []AIProfile{DefaultAIProfile()},
		ActiveProfileID: DefaultProfileID,
		Board:           BoardSettings{Limits: DefaultSizeLimits()},
	}
}

// ActiveProfile returns the selected profile, falling back to the first.
func (s AppSettings) ActiveProfile() (AIProfile, bool) {
	for _, p := range s.Profiles {
		if p.ID == s.ActiveProfileID {
			return p, true
		}
	}
	if len(s.Profiles) > 0 {
		return s.Profiles[0], true
	}
	return AIProfile{}, false
}
