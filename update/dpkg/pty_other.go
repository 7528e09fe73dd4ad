//go:build !linux && !darwin

package dpkg

import "context"

func runInteractive(ctx context.Context, args []string) error {
	return runCaptured(ctx, args)
}
