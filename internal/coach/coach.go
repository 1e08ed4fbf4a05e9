// Package coach produces a short weekly coaching note for the dashboard.
//
// When an OpenAI API key is configured the note is generated from the weekly
// numbers by the model; otherwise, or whenever the request fails, a
// deterministic summary is assembled locally so the dashboard never depends
// on the API being reachable.
package coach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jkarhu/packtrack/internal/workout"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

type Service struct {
	client  openai.Client
	enabled bool
	logger  *slog.Logger
}

// NewService creates a coach service. An empty apiKey disables the model and
// every summary is produced by the deterministic fallback.
func NewService(apiKey string, logger *slog.Logger) *Service {
	s := &Service{logger: logger} //nolint:exhaustruct // client is set below when enabled.
	if apiKey != "" {
		s.client = openai.NewClient(option.WithAPIKey(apiKey))
		s.enabled = true
	}
	return s
}

// WeeklySummary returns a two-to-three sentence coaching note for the week.
func (s *Service) WeeklySummary(
	ctx context.Context,
	metrics workout.WeeklyMetrics,
	target workout.PhaseTarget,
	flags map[workout.RiskKey]string,
	readiness int,
) string {
	if s.enabled {
		summary, err := s.generate(ctx, metrics, target, flags, readiness)
		if err == nil {
			return summary
		}
		s.logger.LogAttrs(ctx, slog.LevelWarn, "falling back to local coach summary", slog.Any("error", err))
	}
	return fallbackSummary(metrics, target, flags, readiness)
}

func (s *Service) generate(
	ctx context.Context,
	metrics workout.WeeklyMetrics,
	target workout.PhaseTarget,
	flags map[workout.RiskKey]string,
	readiness int,
) (string, error) {
	prompt := fmt.Sprintf(`You are a pragmatic endurance coach for a hiker training with a weighted pack.
This week so far: %.0f ft of vertical (phase %s targets %.0f-%.0f ft), average pack %.1f lb (target %.1f-%.1f lb),
longest session %d min (target %d-%d min), %d sessions logged. Readiness score %d/100.
Active warnings: %s.
Write a 2-3 sentence plain-text summary of how the week is going and the single most important adjustment.
No markdown, no greeting.`,
		metrics.VerticalFt, target.Name, target.VertMin, target.VertMax,
		metrics.MeanPackLb, target.PackMin, target.PackMax,
		metrics.MaxDurationMin, target.LongMin, target.LongMax,
		metrics.Count, readiness, flagList(flags))

	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{ //nolint:exhaustruct // only need to set a few fields.
		Model: openai.ChatModelGPT4o,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", errors.New("empty completion")
	}
	return completion.Choices[0].Message.Content, nil
}

func flagList(flags map[workout.RiskKey]string) string {
	if len(flags) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(flags))
	for key := range flags {
		keys = append(keys, string(key))
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

// fallbackSummary assembles a deterministic note from the weekly numbers.
func fallbackSummary(
	metrics workout.WeeklyMetrics,
	target workout.PhaseTarget,
	flags map[workout.RiskKey]string,
	readiness int,
) string {
	var b strings.Builder

	switch {
	case metrics.Count == 0:
		fmt.Fprintf(&b, "No sessions logged this week; the %s phase calls for %.0f-%.0f ft of vertical.",
			target.Name, target.VertMin, target.VertMax)
	case metrics.VerticalFt < target.VertMin:
		fmt.Fprintf(&b, "%.0f ft of vertical so far, short of the %s phase target of %.0f-%.0f ft.",
			metrics.VerticalFt, target.Name, target.VertMin, target.VertMax)
	case metrics.VerticalFt > target.VertMax:
		fmt.Fprintf(&b, "%.0f ft of vertical already exceeds the %s phase target of %.0f-%.0f ft; hold volume steady.",
			metrics.VerticalFt, target.Name, target.VertMin, target.VertMax)
	default:
		fmt.Fprintf(&b, "%.0f ft of vertical sits inside the %s phase target of %.0f-%.0f ft.",
			metrics.VerticalFt, target.Name, target.VertMin, target.VertMax)
	}

	if len(flags) > 0 {
		fmt.Fprintf(&b, " Watch out: %s.", flagList(flags))
	}

	fmt.Fprintf(&b, " Readiness %d/100.", readiness)

	return b.String()
}
