package main

import (
	"context"

	"lobbyharvest-backend/cmd/lobbyharvest-cli/commands"
	"lobbyharvest-backend/lib/serviceutil"
	"lobbyharvest-backend/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()

	t, err := telemetry.SetupFromEnv(ctx, "lobbyharvest-cli")
	if err == nil {
		defer t.Shutdown(context.Background())
		telemetry.InstrumentPerfStats(ctx)
	}
	telemetry.InitSlog(true)

	commands.ExecuteContext(ctx)
}
