package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/answer-engine/internal/answer"
	"github.com/sells-group/answer-engine/internal/model"
)

var askFile string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a company question",
	Long:  "Answers a single question, or a file of questions (one per line) with --file.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if askFile != "" {
			return runBatch(cmd, env, askFile)
		}
		if len(args) == 0 {
			return eris.New("provide a question or --file")
		}

		resp, err := env.Engine.AnswerQuery(ctx, args[0])
		if err != nil {
			var noData *answer.NoDataError
			if errors.As(err, &noData) {
				return printJSON(cmd, answer.NoDataResponse(noData.Query, noData.Results, time.Now()))
			}
			return err
		}
		return printJSON(cmd, resp)
	},
}

// batchLine pairs one input question with its outcome.
type batchLine struct {
	Question string                `json:"question"`
	Response *model.ScoredResponse `json:"response,omitempty"`
	Error    string                `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, env *engineEnv, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return eris.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var questions []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		questions = append(questions, line)
	}
	if err := scanner.Err(); err != nil {
		return eris.Wrap(err, "read questions")
	}

	lines := make([]batchLine, len(questions))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(cfg.Batch.MaxConcurrentQueries)
	for i, q := range questions {
		g.Go(func() error {
			resp, err := env.Engine.AnswerQuery(ctx, q)
			line := batchLine{Question: q}
			var noData *answer.NoDataError
			switch {
			case err == nil:
				line.Response = resp
			case errors.As(err, &noData):
				line.Response = answer.NoDataResponse(noData.Query, noData.Results, time.Now())
			default:
				line.Error = errorCode(err)
				zap.L().Warn("batch question failed",
					zap.String("question", q),
					zap.Error(err),
				)
			}
			mu.Lock()
			lines[i] = line
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, line := range lines {
		if err := enc.Encode(line); err != nil {
			return eris.Wrap(err, "encode result")
		}
	}
	return nil
}

// errorCode maps pipeline errors to stable machine-readable codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, model.ErrUnparseable):
		return "UNPARSEABLE"
	case errors.Is(err, model.ErrNoData):
		return "NO_DATA"
	default:
		return "INTERNAL"
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "encode response")
	}
	return nil
}

func init() {
	askCmd.Flags().StringVar(&askFile, "file", "", "file of questions, one per line")
	rootCmd.AddCommand(askCmd)
}
