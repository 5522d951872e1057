package runtime

import (
	"context"
	"errors"
	"log/slog"

	"github.com/viswa-prakash/estatebot/internal/agent"
	"github.com/viswa-prakash/estatebot/internal/config"
	"github.com/viswa-prakash/estatebot/internal/frontend"
	"github.com/viswa-prakash/estatebot/internal/tool"
	"github.com/viswa-prakash/estatebot/internal/transcript"
)

type Runtime struct {
	Ctx      context.Context
	Config   *config.Config
	Timeouts config.Timeouts
	Registry *tool.Registry
	Engine   *agent.Engine
}

// Ask runs one query and builds the displayed answer. When transcriptPath
// is set the Run is exported there, including aborted Runs.
func (r *Runtime) Ask(ctx context.Context, query, transcriptPath string) (frontend.Answer, error) {
	run, err := r.Engine.Run(ctx, query)

	if transcriptPath != "" && run != nil {
		if werr := transcript.Write(transcriptPath, transcript.FromRun(run, err)); werr != nil {
			slog.Error("Failed to write transcript", "path", transcriptPath, "error", werr)
			err = errors.Join(err, werr)
		} else {
			slog.Info("Transcript written", "path", transcriptPath, "run_id", run.ID)
		}
	}
	if err != nil {
		return frontend.Answer{}, err
	}

	return frontend.Present(run, r.Config.Agent.TerminalMarker), nil
}
