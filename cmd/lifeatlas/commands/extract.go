package commands

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lifeatlas/lifeatlas/internal/output"
	"github.com/lifeatlas/lifeatlas/pkg/domain"
	"github.com/lifeatlas/lifeatlas/pkg/extractor"
	"github.com/lifeatlas/lifeatlas/pkg/lifeatlas"
)

var extractCmd = &cobra.Command{
	Use:   "extract [utterance]",
	Short: "Extract structured entities from one utterance",
	Long: `Extract structured entities from a natural-language utterance.

The utterance is taken from the command line, or from stdin when no
argument is given. With --route, each entity is validated, enriched,
and partitioned into routed entities and conflicts.

Examples:
  lifeatlas extract "spent $45 on groceries"
  lifeatlas extract --route "vet visit for Max, $85"
  echo "meeting with John tomorrow at 2pm" | lifeatlas extract --format yaml`,
	Args: cobra.ArbitraryArgs,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	flags := extractCmd.Flags()

	flags.StringP("provider", "p", "anthropic", "primary provider: anthropic, openai")
	flags.StringP("model", "m", "", "primary model (provider default when empty)")
	flags.String("fallback-provider", "openai", "secondary provider tried after a primary failure")
	flags.String("fallback-model", "", "secondary model (provider default when empty)")
	flags.Duration("timeout", 60*time.Second, "per-attempt provider timeout")
	flags.Int("max-tokens", 4096, "maximum output tokens per attempt")
	flags.Int("confidence-threshold", extractor.DefaultConfidenceThreshold, "flag results for confirmation below this confidence")

	flags.Bool("route", false, "validate, enrich, and route the extracted entities")
	flags.String("format", "json", "output format: json, jsonl, yaml")

	flags.String("default-pet", "", "user context: default pet name")
	flags.String("default-vehicle", "", "user context: default vehicle")
	flags.String("default-home", "", "user context: default home")
	flags.StringSlice("domains", nil, "restrict extraction to these domains")
}

func runExtract(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	input, err := readUtterance(args)
	if err != nil {
		logError("%v", err)
		return err
	}

	provider, _ := flags.GetString("provider")
	model, _ := flags.GetString("model")
	fallbackProvider, _ := flags.GetString("fallback-provider")
	fallbackModel, _ := flags.GetString("fallback-model")
	timeout, _ := flags.GetDuration("timeout")
	maxTokens, _ := flags.GetInt("max-tokens")
	threshold, _ := flags.GetInt("confidence-threshold")

	engine, err := lifeatlas.New(
		lifeatlas.WithPrimary(provider, model),
		lifeatlas.WithSecondary(fallbackProvider, fallbackModel),
		lifeatlas.WithTimeout(timeout),
		lifeatlas.WithMaxTokens(maxTokens),
		lifeatlas.WithConfidenceThreshold(threshold),
	)
	if err != nil {
		logError("%v", err)
		return err
	}

	uc := userContextFromFlags(cmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	doRoute, _ := flags.GetBool("route")

	var payload any
	if doRoute {
		result, perr := engine.Process(ctx, input, uc)
		if perr != nil {
			return reportPipelineError(perr)
		}
		payload = result
	} else {
		result, perr := engine.Extract(ctx, input, uc)
		if perr != nil {
			return reportPipelineError(perr)
		}
		payload = result.Envelope
	}

	format, _ := flags.GetString("format")
	writer, err := output.NewWriter(os.Stdout, output.Format(format))
	if err != nil {
		logError("%v", err)
		return err
	}
	if err := writer.Write(payload); err != nil {
		return err
	}
	return writer.Flush()
}

// readUtterance takes the utterance from args, or stdin when none given.
func readUtterance(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	input := strings.TrimSpace(string(data))
	if input == "" {
		return "", errors.New("no utterance given (pass as argument or on stdin)")
	}
	return input, nil
}

func userContextFromFlags(cmd *cobra.Command) *domain.UserContext {
	flags := cmd.Flags()
	pet, _ := flags.GetString("default-pet")
	vehicle, _ := flags.GetString("default-vehicle")
	home, _ := flags.GetString("default-home")
	domainNames, _ := flags.GetStringSlice("domains")

	if pet == "" && vehicle == "" && home == "" && len(domainNames) == 0 {
		return nil
	}

	uc := &domain.UserContext{
		Preferences: domain.Preferences{
			DefaultPetName: pet,
			DefaultVehicle: vehicle,
			DefaultHome:    home,
		},
	}
	for _, name := range domainNames {
		uc.Domains = append(uc.Domains, domain.Domain(name))
	}
	return uc
}

// reportPipelineError turns an abort into one actionable message:
// "service temporarily unavailable" for provider trouble, "not
// understood" for a response that failed to parse.
func reportPipelineError(err error) error {
	var aggregate *extractor.AggregateFailure
	var parseErr *extractor.ParseError

	switch {
	case errors.Is(err, extractor.ErrNoProviderConfigured):
		logError("%v", err)
	case errors.As(err, &aggregate):
		logError("extraction service temporarily unavailable: %v", aggregate)
	case errors.As(err, &parseErr):
		logError("utterance was not understood: %v", parseErr)
	default:
		logError("%v", err)
	}
	return err
}
