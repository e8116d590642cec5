package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"portstress/internal/config"
	"portstress/internal/engine"
	"portstress/internal/engine/jackd"
	"portstress/internal/engine/pa"
	"portstress/internal/stress"
)

var rootCmd = &cobra.Command{
	Use:   "portstress",
	Short: "Stress an audio server's port handling with a large port count",
	Long: `portstress opens a client connection to a real-time audio server,
registers a large number of input and output ports, and copies every input
buffer verbatim to the matching output buffer each processing cycle. Its only
purpose is to load the server's port bookkeeping; it makes no connections of
its own and is normally killed by the operator before the run time elapses.`,
	SilenceUsage: true,
	RunE:         run,
}

// Execute runs the root command. Any setup failure, and an engine-initiated
// shutdown, exit with status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Int("ports", config.DefaultPortCount, "number of input and of output ports to register")
	rootCmd.Flags().Duration("run-time", config.DefaultRunTime, "how long to keep the client active")
	rootCmd.Flags().String("name", config.DefaultClientName, "client name to request from the engine")
	rootCmd.Flags().String("engine", config.DefaultBackend, "engine backend (jack or portaudio)")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	eng, err := connect(cfg)
	if err != nil {
		return err
	}
	log.Printf("connected to %s engine as %q", cfg.Backend, eng.Name())
	log.Printf("engine sample rate: %d", eng.SampleRate())

	client := stress.New(eng)
	if err := client.RegisterPorts(cfg.PortCount); err != nil {
		return err
	}
	log.Printf("registered %d input and %d output ports", cfg.PortCount, cfg.PortCount)

	if err := client.Activate(); err != nil {
		return err
	}

	stop := make(chan struct{})
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	go func() {
		<-sc
		close(stop)
	}()

	log.Printf("running for %s, press CTRL-C to stop early", cfg.RunTime)
	if err := client.Run(cfg.RunTime, stop); err != nil {
		// The engine dropped us; ports and buffers are already invalid, so
		// no cleanup is attempted.
		return err
	}

	log.Println("Starting close")
	counters := client.Counters()
	log.Printf("processed %d cycles, %d frames per port", counters.Cycles(), counters.Frames())
	return client.Close()
}

// loadConfig layers flag overrides on top of the .env / environment values.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("ports") {
		cfg.PortCount, _ = flags.GetInt("ports")
	}
	if flags.Changed("run-time") {
		cfg.RunTime, _ = flags.GetDuration("run-time")
	}
	if flags.Changed("name") {
		cfg.ClientName, _ = flags.GetString("name")
	}
	if flags.Changed("engine") {
		cfg.Backend, _ = flags.GetString("engine")
	}
	return cfg, cfg.Validate()
}

func connect(cfg config.Config) (engine.Client, error) {
	switch cfg.Backend {
	case "portaudio":
		return pa.Connect(cfg.ClientName)
	default:
		return jackd.Connect(cfg.ClientName)
	}
}
