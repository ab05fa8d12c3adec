package sampler

import (
	"context"
	"log/slog"

	"impresso-sampler/lib/impresso"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Drives the sampler over a keyword list, persisting the full result
// after every keyword so an interrupted campaign resumes where it
// stopped.
type Runner struct {
	Sampler        *Sampler
	CheckpointPath string
}

func NewRunner(source SessionSource, checkpointPath string) *Runner {
	return &Runner{
		Sampler:        NewSampler(source),
		CheckpointPath: checkpointPath,
	}
}

// Processes every keyword in input order to either a sampled UID list
// or a recorded empty result. Only an invalid config or context
// cancellation stop the campaign early; the returned result always
// reflects everything processed so far.
func (r *Runner) Run(ctx context.Context, keywords []string, rng impresso.DateRange, cfg Config) (CampaignResult, error) {
	ctx, span := tracer.Start(ctx, "runner:Run")
	defer span.End()

	if err := cfg.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	runID := uuid.NewString()
	span.SetAttributes(attribute.String("run_id", runID))

	result := LoadCheckpoint(r.CheckpointPath)
	slog.InfoContext(ctx, "starting campaign",
		"run_id", runID,
		"keywords", len(keywords),
		"resumed", len(result),
		"checkpoint", r.CheckpointPath,
	)

	for i, keyword := range keywords {
		if err := ctx.Err(); err != nil {
			slog.WarnContext(ctx, "campaign interrupted", "run_id", runID, "keyword", keyword)
			return result, err
		}

		if len(result[keyword]) > 0 {
			slog.InfoContext(ctx, "skipping already sampled keyword",
				"run_id", runID, "keyword", keyword, "uids", len(result[keyword]))
			continue
		}

		slog.InfoContext(ctx, "processing keyword",
			"run_id", runID, "keyword", keyword, "index", i+1, "total", len(keywords))

		uids, err := r.Sampler.Sample(ctx, keyword, rng, cfg)
		if err != nil {
			// mark it attempted so one bad keyword cannot wedge
			// the campaign, a rerun with the entry cleared retries
			slog.ErrorContext(ctx, "keyword failed, recording empty result",
				"run_id", runID, "keyword", keyword, "err", err)
			uids = nil
		}
		if uids == nil {
			uids = []string{}
		}
		result[keyword] = uids

		err = SaveCheckpoint(r.CheckpointPath, result)
		if err != nil {
			// keep going in memory, the next successful write still
			// carries all accumulated progress
			slog.ErrorContext(ctx, "failed to persist checkpoint",
				"run_id", runID, "path", r.CheckpointPath, "err", err)
		} else {
			slog.InfoContext(ctx, "checkpoint saved",
				"run_id", runID, "keyword", keyword, "uids", len(uids))
		}
	}

	slog.InfoContext(ctx, "campaign completed", "run_id", runID, "keywords", len(keywords))
	return result, nil
}
