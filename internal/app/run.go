package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vk/wireflow/internal/ctxlog"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	g, err := loadWorkflow(ctx, a.config.WorkflowPath)
	if err != nil {
		return fmt.Errorf("failed to load workflow: %w", err)
	}
	a.logger.Debug("Workflow loaded.", "workflow", g.Name, "node_count", g.Len())

	a.logger.Info("Starting workflow run.", "workflow", g.Name)
	result, err := a.engine.Run(ctx, g, a.config.Params, a.config.Env)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	a.logger.Info("Workflow run finished.", "run_id", result.RunID)

	rendered, err := json.MarshalIndent(result.Outputs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render outputs: %w", err)
	}
	fmt.Fprintln(a.outW, string(rendered))

	a.logger.Debug("App.Run method finished.")
	return nil
}
