package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gplanner/gplan/internal/core/domain"
)

var (
	profileName     string
	profileProvider string
	profileURL      string
	profileModel    string
	profileKey      string
	profileUse      bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long:  `View and configure AI profiles and whiteboard limits.`,
	RunE:  runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsAIAddCmd = &cobra.Command{
	Use:   "ai-add",
	Short: "Add an AI profile",
	Long: `Add an AI profile. Missing values are prompted for; the API key is
read without echo when stdin is a terminal.

Providers:
  openai    - any OpenAI-compatible chat completions endpoint
  anthropic - Anthropic messages API
  ollama    - local Ollama instance`,
	Args: cobra.NoArgs,
	RunE: runSettingsAIAdd,
}

var settingsAIUseCmd = &cobra.Command{
	Use:   "ai-use [profile-id]",
	Short: "Make a profile the active one",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsAIUse,
}

var settingsAIRemoveCmd = &cobra.Command{
	Use:   "ai-remove [profile-id]",
	Short: "Remove an AI profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsAIRemove,
}

var settingsAITestCmd = &cobra.Command{
	Use:   "ai-test [profile-id]",
	Short: "Check that a profile reaches its endpoint",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsAITest,
}

var settingsLimitsCmd = &cobra.Command{
	Use:   "limits [min-w] [min-h] [max-w] [max-h]",
	Short: "Set the card resize limits",
	Args:  cobra.ExactArgs(4),
	RunE:  runSettingsLimits,
}

func init() {
	settingsAIAddCmd.Flags().StringVar(&profileName, "name", "", "profile name")
	settingsAIAddCmd.Flags().StringVar(&profileProvider, "provider", "", "openai, anthropic or ollama")
	settingsAIAddCmd.Flags().StringVar(&profileURL, "url", "", "endpoint URL")
	settingsAIAddCmd.Flags().StringVar(&profileModel, "model", "", "model name")
	settingsAIAddCmd.Flags().StringVar(&profileKey, "key", "", "API key (prompted when omitted)")
	settingsAIAddCmd.Flags().BoolVar(&profileUse, "use", false, "make the new profile active")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsAIAddCmd)
	settingsCmd.AddCommand(settingsAIUseCmd)
	settingsCmd.AddCommand(settingsAIRemoveCmd)
	settingsCmd.AddCommand(settingsAITestCmd)
	settingsCmd.AddCommand(settingsLimitsCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[AI Profiles]")
	active, _ := settings.ActiveProfile()
	for _, p := range settings.Profiles {
		marker := " "
		if p.ID == active.ID {
			marker = "*"
		}
		cmd.Printf("%s %s (%s)\n", marker, p.Name, p.ID)
		cmd.Printf("    Provider: %s\n", p.Provider.Description())
		cmd.Printf("    Model: %s\n", p.Model)
		if p.URL != "" {
			cmd.Printf("    URL: %s\n", p.URL)
		}
		if p.Provider.RequiresAPIKey() {
			if p.Key != "" {
				cmd.Printf("    API Key: %s\n", p.MaskedKey())
			} else {
				cmd.Printf("    API Key: (not set)\n")
			}
		}
		status := "configured"
		if !p.IsConfigured() {
			status = "not configured"
		}
		cmd.Printf("    Status: %s\n", status)
	}
	cmd.Println()

	cmd.Println("[Board]")
	limits := settings.Board.Limits
	cmd.Printf("  Min card size: %gx%g\n", limits.Min.W, limits.Min.H)
	cmd.Printf("  Max card size: %gx%g\n", limits.Max.W, limits.Max.H)
	cmd.Println()

	cmd.Println("[Project]")
	if settings.ActiveProjectID != "" {
		cmd.Printf("  Open: %s\n", settings.ActiveProjectID)
	} else {
		cmd.Println("  Open: (none)")
	}
	return nil
}

func runSettingsAIAdd(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	template := domain.NewProfileTemplate()

	provider := domain.AIProvider(strings.ToLower(profileProvider))
	if profileProvider == "" {
		providers := []domain.AIProvider{domain.AIProviderOpenAI, domain.AIProviderAnthropic, domain.AIProviderOllama}
		cmd.Println("Select AI Provider")
		for i, p := range providers {
			cmd.Printf("  %d. %s\n", i+1, p.Description())
		}
		cmd.Print("\nEnter choice [1]: ")
		provider = providers[parseChoice(readLine(reader), len(providers), 1)-1]
	}

	profile := domain.AIProfile{
		Name:     profileName,
		Provider: provider,
		URL:      profileURL,
		Model:    profileModel,
		Key:      profileKey,
	}
	if profile.Name == "" {
		cmd.Printf("Enter profile name [%s]: ", template.Name)
		profile.Name = readLine(reader)
	}
	if profile.Model == "" {
		def := defaultModel(provider)
		cmd.Printf("Enter model name [%s]: ", def)
		if profile.Model = readLine(reader); profile.Model == "" {
			profile.Model = def
		}
	}
	if profile.Key == "" && provider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		profile.Key = readPassword(reader)
		cmd.Println()
		if profile.Key == "" {
			return errors.New("API key is required for this provider")
		}
	}

	added, err := settingsService.AddProfile(profile)
	if err != nil {
		return fmt.Errorf("failed to add profile: %w", err)
	}
	cmd.Printf("Added profile %q (%s)\n", added.Name, added.ID)

	if profileUse {
		if err := settingsService.UseProfile(added.ID); err != nil {
			return fmt.Errorf("failed to activate profile: %w", err)
		}
		cmd.Println("Profile is now active.")
	}
	return nil
}

func defaultModel(p domain.AIProvider) string {
	switch p {
	case domain.AIProviderAnthropic:
		return "claude-3-haiku-20240307"
	case domain.AIProviderOllama:
		return "llama3"
	default:
		return domain.NewProfileTemplate().Model
	}
}

func runSettingsAIUse(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.UseProfile(args[0]); err != nil {
		return fmt.Errorf("failed to use profile: %w", err)
	}
	cmd.Printf("Active AI profile: %s\n", args[0])
	cmd.Println("Restart long-running sessions (tui, mcp) to pick it up.")
	return nil
}

func runSettingsAIRemove(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.RemoveProfile(args[0]); err != nil {
		return fmt.Errorf("failed to remove profile: %w", err)
	}
	cmd.Printf("Removed profile %s\n", args[0])
	return nil
}

func runSettingsAITest(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	id := ""
	if len(args) == 1 {
		id = args[0]
	} else {
		p, ok := settingsService.ActiveProfile()
		if !ok {
			return errors.New("no AI profile configured")
		}
		id = p.ID
	}

	cmd.Printf("Validating profile %s... ", id)
	if err := settingsService.TestProfile(cmd.Context(), id); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("profile validation failed: %w", err)
	}
	cmd.Println("OK")
	return nil
}

func runSettingsLimits(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	minW, minH, err := parsePair(args[0], args[1])
	if err != nil {
		return err
	}
	maxW, maxH, err := parsePair(args[2], args[3])
	if err != nil {
		return err
	}
	limits := domain.SizeLimits{Min: domain.Size{W: minW, H: minH}, Max: domain.Size{W: maxW, H: maxH}}
	if err := settingsService.SetBoardLimits(limits); err != nil {
		return fmt.Errorf("failed to set limits: %w", err)
	}
	cmd.Printf("Cards now resize between %gx%g and %gx%g\n", minW, minH, maxW, maxH)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo from a terminal and falls back to
// reader otherwise.
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(reader)
}
