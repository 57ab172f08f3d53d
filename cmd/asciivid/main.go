package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/keagan/asciivid/internal/config"
	"github.com/keagan/asciivid/internal/logging"
	"github.com/keagan/asciivid/internal/pipeline"
	"github.com/keagan/asciivid/internal/player"
	"github.com/keagan/asciivid/internal/server"
	"github.com/keagan/asciivid/internal/terminal"
	"github.com/keagan/asciivid/pkg/util"
)

var (
	cfgFile string
	verbose bool

	exportFPS   float64
	playDebug   bool
	serveDir    string
	accessLog   string
	noBrowser   bool
	forceConfig bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "asciivid",
	Short:         "asciivid - play videos as ASCII art",
	Long:          "Convert videos into ASCII-art frame sets, play them in the terminal, or serve them to a browser player.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging
		logging.Init(verbose)

		// Load config
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		// Store config in context
		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./asciivid.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	exportCmd.Flags().Float64Var(&exportFPS, "fps", 0, "target frame rate (default from config)")
	playCmd.Flags().BoolVar(&playDebug, "debug", false, "render a single frame and exit")
	serveCmd.Flags().StringVar(&serveDir, "dir", "", "directory to serve (default from config)")
	serveCmd.Flags().StringVar(&accessLog, "access-log", "", "append request lines as JSON to this file")
	serveCmd.Flags().BoolVar(&noBrowser, "no-browser", false, "do not open a browser")
	configInitCmd.Flags().BoolVar(&forceConfig, "force", false, "overwrite an existing file")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <video> [output]",
	Short: "Convert a video into a JSON frame set",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		output := cfg.Export.Output
		if len(args) > 1 {
			output = args[1]
		}

		exporter, err := pipeline.NewFromConfig(log.Logger, cfg)
		if err != nil {
			return err
		}

		opts := pipeline.OptionsFromConfig(cfg)
		if exportFPS > 0 {
			opts.TargetFPS = exportFPS
		}

		result, err := exporter.Run(cmd.Context(), args[0], output, opts)
		if err != nil {
			return err
		}

		fs := result.FrameSet
		fmt.Print(terminal.Summary("Export finished", []terminal.Field{
			{Label: "Output", Value: result.Output},
			{Label: "Frames", Value: strconv.Itoa(fs.TotalFrames)},
			{Label: "Size", Value: fmt.Sprintf("%dx%d @ %dfps", fs.Width, fs.Height, fs.FPS)},
			{Label: "Length", Value: fmt.Sprintf("%.1fs", fs.Duration())},
			{Label: "File", Value: util.FormatBytes(result.Bytes)},
			{Label: "Took", Value: util.FormatDuration(result.Elapsed)},
		}, nextSteps(result)))

		return nil
	},
}

func nextSteps(result *pipeline.ExportResult) string {
	if result.Interrupted {
		return "Interrupted: the frame set holds the frames rendered so far"
	}
	return "Next: put " + result.Output + " next to index.html and run `asciivid serve`"
}

var playCmd = &cobra.Command{
	Use:   "play <video> [frame_index]",
	Short: "Play a video as ASCII art in the terminal",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		p, err := player.NewFromConfig(log.Logger, cfg, os.Stdout)
		if err != nil {
			return err
		}

		if !playDebug {
			return p.Play(cmd.Context(), args[0])
		}

		index := 0
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				cliLog := logging.WithComponent("cli")
				cliLog.Warn().Str("frame", args[1]).Msg("Invalid frame number, using 0.")
			} else {
				index = n
			}
		}
		return p.Debug(cmd.Context(), args[0], index)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve [port]",
	Short: "Serve the browser player and frame set over HTTP",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		opts := server.OptionsFromConfig(cfg)

		if len(args) > 0 {
			port, err := strconv.Atoi(args[0])
			if err != nil || port <= 0 || port > 65535 {
				def := config.Default().Serve.Port
				cliLog := logging.WithComponent("cli")
				cliLog.Warn().Str("port", args[0]).Int("using", def).Msg("invalid port number")
				port = def
			}
			opts.Port = port
		}
		if serveDir != "" {
			opts.Dir = serveDir
		}
		if accessLog != "" {
			opts.AccessLog = accessLog
		}
		if noBrowser {
			opts.OpenBrowser = false
		}

		return server.New(log.Logger, opts, os.Stdout).Serve(cmd.Context())
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := config.FromContext(cmd.Context()).Marshal()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration to a file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "asciivid.yaml"
		if len(args) > 0 {
			path = args[0]
		}
		if util.FileExists(path) && !forceConfig {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := util.EnsureParentDir(path); err != nil {
			return err
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}

		log.Info().Str("path", path).Msg("config written")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
