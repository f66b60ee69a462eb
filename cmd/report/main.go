package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ds8/tip-allowance/internal/adapter"
	"github.com/ds8/tip-allowance/internal/api/shared/dto"
	"github.com/ds8/tip-allowance/internal/config"
	"github.com/ds8/tip-allowance/internal/domain"
	"github.com/ds8/tip-allowance/internal/engine"
	"github.com/ds8/tip-allowance/internal/logger"
)

var (
	configFile   = flag.String("config", "", "Path to configuration file")
	envPath      = flag.String("env", "config/", "Path to environment files")
	fidFlag      = flag.String("fid", "", "Farcaster id to report on")
	atFlag       = flag.String("at", "", "Evaluate the allowance window as of this RFC3339 time (default now)")
	withRaindrop = flag.Bool("raindrop", false, "Include the raindrop balance")
)

func main() {
	flag.Parse()

	config.ChdirRepoRoot()
	cfg, err := config.LoadReportConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	err = logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags: map[string]string{
			"service": "tip-allowance-report",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

	ctx := context.Background()

	fid, err := domain.ParseFID(*fidFlag)
	if err != nil {
		logger.FatalCtx(ctx, "Invalid -fid", zap.String("fid", *fidFlag), zap.Error(err))
	}

	var clock adapter.Clock = adapter.NewClock()
	if *atFlag != "" {
		at, err := time.Parse(time.RFC3339, *atFlag)
		if err != nil {
			logger.FatalCtx(ctx, "Invalid -at", zap.String("at", *atFlag), zap.Error(err))
		}
		clock = adapter.FixedClock{At: at}
	}

	eng, err := engine.New(ctx, &cfg.EngineConfig, clock)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to initialize engine", zap.Error(err))
	}
	defer eng.Close()

	result := eng.Stats.Report(ctx, fid)
	output := struct {
		Allowance dto.AllowanceResponse `json:"allowance"`
		Raindrop  *dto.RaindropResponse `json:"raindrop,omitempty"`
	}{
		Allowance: dto.NewAllowanceResponse(result.Identity, result.Report, eng.Window.Current(clock.Now())),
	}

	if *withRaindrop {
		if eng.Raindrop == nil {
			logger.WarnCtx(ctx, "Raindrop balance requested but raindrop.enabled is false")
		} else {
			balance := eng.Raindrop.Balance(ctx, fid, result.Identity.Wallets)
			output.Raindrop = &dto.RaindropResponse{FID: uint64(fid), Total: balance.Total, Remaining: balance.Remaining}
		}
	}

	if err := writeReport(os.Stdout, adapter.NewJSON(), output); err != nil {
		logger.FatalCtx(ctx, "Failed to write report", zap.Error(err))
	}
}

// writeReport writes v as one line of JSON
func writeReport(w io.Writer, jsonAdapter adapter.JSON, v interface{}) error {
	data, err := jsonAdapter.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
