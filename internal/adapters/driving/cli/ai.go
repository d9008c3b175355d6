package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gplanner/gplan/internal/core/domain"
)

var (
	aiSystem      string
	aiMode        string
	aiDoc         string
	aiReplace     bool
	aiFromDocBody bool
)

var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "Run AI completions",
	Long: `Run completions against the active AI profile. Configure profiles with
"gplan settings ai-add".`,
}

var aiCompleteCmd = &cobra.Command{
	Use:   "complete [prompt]",
	Short: "Send a raw prompt",
	Long:  `Send a raw prompt. Reads the prompt from stdin when none is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAIComplete,
}

var aiSummarizeCmd = &cobra.Command{
	Use:   "summarize [card-id]",
	Short: "Summarize an AI card",
	Long: `Summarize an AI card. With --mode self the card's own text is replaced
by its summary. With --mode inputs every text card connected to it is
summarized and the result appended.`,
	Args: cobra.ExactArgs(1),
	RunE: runAISummarize,
}

var aiAssistCmd = &cobra.Command{
	Use:   "assist [mode] [text]",
	Short: "Run a writing assistant action",
	Long: `Run a writing assistant action: generate, rewrite, expand, summarize or
translate. With --doc the result is inserted into that document; pass
--from-doc to use the document body as the input text.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAIAssist,
}

func init() {
	aiCompleteCmd.Flags().StringVarP(&aiSystem, "system", "s", "", "system prompt")
	aiSummarizeCmd.Flags().StringVarP(&aiMode, "mode", "m", string(domain.SummaryInputs), "self or inputs")
	aiAssistCmd.Flags().StringVar(&aiDoc, "doc", "", "document to insert the result into")
	aiAssistCmd.Flags().BoolVar(&aiReplace, "replace", false, "replace the document body instead of appending")
	aiAssistCmd.Flags().BoolVar(&aiFromDocBody, "from-doc", false, "use the document body as input")

	aiCmd.AddCommand(aiCompleteCmd)
	aiCmd.AddCommand(aiSummarizeCmd)
	aiCmd.AddCommand(aiAssistCmd)
	rootCmd.AddCommand(aiCmd)
}

func assistantReady() error {
	if err := requireService(assistantService, "assistant"); err != nil {
		return err
	}
	if !assistantService.Available() {
		return fmt.Errorf("%w: configure a profile with gplan settings ai-add", domain.ErrCompletionUnavailable)
	}
	return nil
}

func runAIComplete(cmd *cobra.Command, args []string) error {
	if err := assistantReady(); err != nil {
		return err
	}
	prompt := ""
	if len(args) == 1 {
		prompt = args[0]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		prompt = string(data)
	}
	if strings.TrimSpace(prompt) == "" {
		return errors.New("empty prompt")
	}

	out, err := assistantService.Complete(cmd.Context(), aiSystem, prompt)
	if err != nil {
		return err
	}
	cmd.Println(out)
	return nil
}

func runAISummarize(cmd *cobra.Command, args []string) error {
	if err := assistantReady(); err != nil {
		return err
	}
	if _, err := useProject(cmd); err != nil {
		return err
	}
	mode := domain.SummaryMode(strings.ToLower(aiMode))
	if !mode.IsValid() {
		return fmt.Errorf("unknown mode %q: want self or inputs", aiMode)
	}

	out, err := assistantService.SummarizeNode(cmd.Context(), args[0], mode)
	if err != nil {
		return err
	}
	cmd.Println(out)
	cmd.Println()
	cmd.Printf("Written to %s using %s\n", args[0], assistantService.ModelName())
	return nil
}

func runAIAssist(cmd *cobra.Command, args []string) error {
	if err := assistantReady(); err != nil {
		return err
	}
	mode := domain.AssistMode(strings.ToLower(args[0]))
	if !mode.IsValid() {
		return fmt.Errorf("unknown mode %q", args[0])
	}

	text := ""
	if len(args) == 2 {
		text = args[1]
	}
	if aiDoc != "" || aiFromDocBody {
		if aiDoc == "" {
			return errors.New("--from-doc needs --doc")
		}
		if err := requireService(documentService, "document"); err != nil {
			return err
		}
		if _, err := useProject(cmd); err != nil {
			return err
		}
		if aiFromDocBody {
			doc, err := documentService.Get(aiDoc)
			if err != nil {
				return err
			}
			text = doc.Content
		}
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("nothing to work on: pass text or --from-doc")
	}

	out, err := assistantService.DocAssist(cmd.Context(), mode, text)
	if err != nil {
		return err
	}
	if aiDoc == "" {
		cmd.Println(out)
		return nil
	}
	if err := documentService.InsertAIText(aiDoc, out, aiReplace); err != nil {
		return fmt.Errorf("failed to insert result: %w", err)
	}
	cmd.Printf("Inserted %d characters into %s\n", len(out), aiDoc)
	return nil
}
