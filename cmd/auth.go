package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// AuthCheck verifies the configured access token against the Dropbox API.
func (r *Runner) AuthCheck(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	provider, err := r.resolveProvider(config)
	if err != nil {
		return err
	}

	r.logger.Info("checking credentials", "service", provider.Name())

	if err := provider.Verify(ctx); err != nil {
		r.writePlainln("%s", styles.err.Render("✗ Dropbox authentication failed"))
		return fmt.Errorf("authentication check failed: %w", err)
	}

	r.writePlainln("%s", styles.ok.Render("✓ Dropbox authentication OK"))
	return nil
}
