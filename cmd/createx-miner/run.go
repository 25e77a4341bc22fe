package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jihwankim/createx-miner/pkg/config"
	"github.com/jihwankim/createx-miner/pkg/device"
	"github.com/jihwankim/createx-miner/pkg/kernel"
	"github.com/jihwankim/createx-miner/pkg/mining"
	"github.com/jihwankim/createx-miner/pkg/reporting"
	"github.com/jihwankim/createx-miner/pkg/sink"
)

// sharedFlags reads the flags common to create2 and create3 (spec.md §6)
// into a config.CLIArgs, before the subcommand-specific code-hash flag (if
// any) is layered on.
func sharedFlags(cmd *cobra.Command) (config.CLIArgs, error) {
	factory, _ := cmd.Flags().GetString("factory")
	caller, _ := cmd.Flags().GetString("caller")
	output, _ := cmd.Flags().GetString("output")
	either, _ := cmd.Flags().GetBool("either")
	pattern, _ := cmd.Flags().GetString("matching")

	args := config.CLIArgs{
		Factory: factory,
		Caller:  caller,
		Output:  output,
		Either:  either,
		Pattern: pattern,
	}

	if cmd.Flags().Changed("gpu-device-id") {
		v, err := cmd.Flags().GetInt("gpu-device-id")
		if err != nil {
			return args, err
		}
		args.GPUDeviceID = &v
	}

	switch {
	case cmd.Flags().Changed("crosschain"):
		v, err := cmd.Flags().GetUint64("crosschain")
		if err != nil {
			return args, err
		}
		args.ChainID = &v
	case cmd.Flags().Changed("crp"):
		v, err := cmd.Flags().GetUint64("crp")
		if err != nil {
			return args, err
		}
		args.ChainID = &v
	}
	if cmd.Flags().Changed("leading") {
		v, err := cmd.Flags().GetUint8("leading")
		if err != nil {
			return args, err
		}
		args.Leading = &v
	}
	if cmd.Flags().Changed("total") {
		v, err := cmd.Flags().GetUint8("total")
		if err != nil {
			return args, err
		}
		args.Total = &v
	}

	return args, nil
}

func addSharedFlags(cmd *cobra.Command) {
	// factory/output default to "" here (not the canonical values shown in
	// --help) so an unset flag is indistinguishable from absent and a
	// --config file's factory/output can still apply; config.DefaultConfig
	// supplies the canonical fallback when neither CLI nor config sets them.
	cmd.Flags().StringP("factory", "f", "", "CreateX factory address (default \"0xba5Ed099633D3B313e4D5F7bdc1305d3c28ba5Ed\")")
	cmd.Flags().IntP("gpu-device-id", "g", 0, "OpenCL device index")
	cmd.Flags().StringP("caller", "c", "", "caller address binding (optional)")
	cmd.Flags().Uint64P("crosschain", "x", 0, "chain-id binding (optional)")
	cmd.Flags().Uint64("crp", 0, "alias for --crosschain")
	cmd.Flags().Uint8P("leading", "z", 0, "required leading zero bytes")
	cmd.Flags().Uint8P("total", "t", 0, "required total zero bytes")
	cmd.Flags().Bool("either", false, "OR the leading/total thresholds instead of AND")
	cmd.Flags().StringP("matching", "m", "", "40-char pattern, 'X' as wildcard")
	cmd.Flags().StringP("output", "o", "", "output file path (default \"output.txt\")")
	cmd.MarkFlagsMutuallyExclusive("crosschain", "crp")
}

// runMiner validates args, specializes the kernel, opens the device, and
// blocks in the mining loop until the process receives SIGINT/SIGTERM.
func runMiner(cmd *cobra.Command, args config.CLIArgs) error {
	defaults, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	args = defaults.Merge(args)

	cfg, err := args.Validate()
	if err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	// --verbose/-v always wins when given; otherwise the config file's
	// logging.level pins the default (spec.md §4.5).
	logLevel := reporting.LogLevel(defaults.Logging.Level)
	if logLevel == "" {
		logLevel = reporting.LogLevelInfo
	}
	if cmd.Flags().Changed("verbose") {
		logLevel = reporting.LogLevelInfo
		if verbose {
			logLevel = reporting.LogLevelDebug
		}
	}
	logFormat := reporting.LogFormat(defaults.Logging.Format)
	reporting.InitGlobalLogger(reporting.LoggerConfig{
		Level:  logLevel,
		Format: logFormat,
		Output: os.Stdout,
	})

	// --metrics-addr always wins when given; otherwise the config file's
	// metrics_addr pins the default.
	effectiveMetricsAddr := metricsAddr
	if !cmd.Flags().Changed("metrics-addr") && defaults.MetricsAddr != "" {
		effectiveMetricsAddr = defaults.MetricsAddr
	}

	source := kernel.Specialize(cfg)

	dev, err := device.Open(cfg.GPUDeviceID, cfg, source)
	if err != nil {
		return fmt.Errorf("failed to open device: %w", err)
	}
	defer dev.Close()

	out, err := sink.Open(cfg.Output)
	if err != nil {
		// spec.md §7: a miner that cannot persist its findings is useless.
		panic(fmt.Sprintf("cannot open sink %q: %v", cfg.Output, err))
	}
	defer out.Close()

	loop := mining.New(cfg, dev, out, mining.WorkSize)

	// Metrics are always wired into the loop so cumulative_nonce/found/rate
	// are mirrored every cycle; the HTTP listener is only started when the
	// operator actually asked for one via --metrics-addr.
	m := reporting.NewMetrics()
	loop.Metrics = m

	ctx := context.Background()
	if effectiveMetricsAddr != "" {
		metricsCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := m.Serve(metricsCtx, effectiveMetricsAddr); err != nil {
				reporting.Error("metrics server: " + err.Error())
			}
		}()
	}

	return loop.RunUntilSignal(ctx)
}
