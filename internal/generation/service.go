package generation

import (
	"context"
	"errors"
	"strings"
	"time"

	"coverletter-backend/internal/llm"
	"coverletter-backend/internal/prompts"
	"coverletter-backend/internal/shared/auth"
	"coverletter-backend/internal/shared/metrics"
	"coverletter-backend/internal/shared/telemetry"
)

// ErrInvalidInput indicates a required request field is missing.
var ErrInvalidInput = errors.New("missing required fields")

// Request is one cover letter generation call. It is never persisted.
type Request struct {
	JobTitle       string `json:"jobTitle"`
	JobDescription string `json:"jobDescription"`
	ResumeText     string `json:"resumeText"`
	PromptOverride string `json:"promptOverride"`
}

func (r Request) validate() error {
	if strings.TrimSpace(r.JobTitle) == "" || strings.TrimSpace(r.JobDescription) == "" || strings.TrimSpace(r.ResumeText) == "" {
		return ErrInvalidInput
	}
	return nil
}

// Service runs the resolve, substitute, generate pipeline.
type Service struct {
	Resolver  *prompts.Resolver
	Generator llm.Generator
	Now       func() time.Time
}

func NewService(resolver *prompts.Resolver, gen llm.Generator) *Service {
	return &Service{Resolver: resolver, Generator: gen, Now: time.Now}
}

// Generate returns the model output for req. Provider failures come back as
// llm.ErrRateLimited or llm.ErrGenerationFailed.
func (s *Service) Generate(ctx context.Context, caller auth.Caller, req Request) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}

	body, err := s.Resolver.Resolve(ctx, caller, req.PromptOverride)
	if err != nil {
		return "", err
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	prompt := prompts.Substitute(body, prompts.NewVars(req.JobTitle, req.JobDescription, req.ResumeText, now().UTC()))

	start := time.Now()
	text, err := s.Generator.Generate(ctx, prompt)
	elapsed := time.Since(start)
	if err != nil {
		err = llm.Classify(err)
		outcome := "failed"
		if errors.Is(err, llm.ErrRateLimited) {
			outcome = "rate_limited"
		}
		metrics.ObserveGeneration(outcome, elapsed)
		telemetry.Warn("generation.failed", map[string]any{
			"outcome":     outcome,
			"user_id":     auth.UserID(caller),
			"duration_ms": elapsed.Milliseconds(),
			"error":       err,
		})
		return "", err
	}

	metrics.ObserveGeneration("ok", elapsed)
	telemetry.Info("generation.complete", map[string]any{
		"user_id":      auth.UserID(caller),
		"override":     req.PromptOverride != "",
		"prompt_chars": len(prompt),
		"output_chars": len(text),
		"duration_ms":  elapsed.Milliseconds(),
	})
	return text, nil
}
