package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/azure-analyst/backend/internal/config"
	"github.com/azure-analyst/backend/internal/model"
	"github.com/azure-analyst/backend/internal/service"
)

var errNoPayload = errors.New("no payload: pass a JSON file or pipe it on stdin")

var invokeCmd = &cobra.Command{
	Use:   "invoke [file]",
	Short: "Analyze a single payload and print the result",
	Long: `Read one JSON payload from a file (or stdin when no file or "-" is given),
run it through the analysis pipeline and print the result as JSON.

With --dry-run the request kind and compiled prompt are printed instead and
no completion call is made.

Examples:
  analyst invoke detection.json
  echo '{"query":"what does T1059.001 cover?"}' | analyst invoke
  analyst invoke --dry-run incident.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInvoke,
}

func init() {
	invokeCmd.Flags().Bool("dry-run", false, "print the request kind and prompt without calling the completion service")

	rootCmd.AddCommand(invokeCmd)
}

func runInvoke(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	raw, err := readPayload(cmd, args)
	if err != nil {
		return err
	}

	if dryRun {
		return printPreview(cmd.OutOrStdout(), raw)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Server.LogLevel, logFormat)
	svc, err := buildService(cfg, logger, nil)
	if err != nil {
		return err
	}

	result := svc.Analyze(cmd.Context(), raw)
	svc.Wait()

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	if result.Status != model.StatusSuccess {
		return fmt.Errorf("analysis failed: %s", result.Message)
	}
	return nil
}

func printPreview(w io.Writer, raw model.RawPayload) error {
	svc := service.NewAnalysisService(nil, nil, nil, config.CompletionConfig{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	kind, prompt, err := svc.Preview(raw)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "kind: %s\n\n", kind)
	fmt.Fprintln(w, prompt)
	return nil
}

func readPayload(cmd *cobra.Command, args []string) (model.RawPayload, error) {
	var (
		data []byte
		err  error
	)

	if len(args) == 1 && args[0] != "-" {
		data, err = os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read payload: %w", err)
		}
	} else {
		in := cmd.InOrStdin()
		// 대화형 터미널에서 입력을 기다리며 멈추지 않도록 거부
		if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return nil, errNoPayload
		}
		data, err = io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
	}

	// 숫자는 json.Number로 유지 (2^53 초과 ID 정밀도 보존)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw model.RawPayload
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid payload JSON: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("invalid payload JSON: unexpected data after the payload object")
	}
	if raw == nil {
		return nil, errNoPayload
	}
	return raw, nil
}
