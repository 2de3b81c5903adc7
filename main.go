// main.go
// Purpose: Console entry point. Loads configuration, builds the session and
// starts the console, simulation and feed threads. Shuts down on Ctrl+C,
// on "q" or when stdin ends.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"buildingsim/building"
	"buildingsim/common"
	"buildingsim/logger"
	"buildingsim/session"

	"github.com/eiannone/keyboard"
	"github.com/mattn/go-isatty"
)

var Log = logger.GetLogger()

func main() {
	configPath := flag.String("config", "buildingsim.yaml", "YAML configuration file")
	envPath := flag.String("env", ".env", "file with ELEVSIM_* overrides")
	feedAddr := flag.String("feed", "", "listen address for the report feed, overrides the config")
	noIntro := flag.Bool("nointro", false, "skip the intro screen")
	flag.Parse()

	cfg, err := loadConfig(*configPath, *envPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *feedAddr != "" {
		cfg.Feed.Listen = *feedAddr
	}
	if *noIntro {
		cfg.Console.Intro = false
	}
	logger.GetLoggerConfigured(logger.ParseLevel(cfg.LogLevel))

	// ctrl + c handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		cancel()
	}()

	if cfg.Console.Intro {
		if !showIntro(os.Stdout, cfg.Building) {
			return
		}
	}

	// sim -> feed
	reportCh := make(chan common.BuildingReport, max(cfg.Feed.Outbox, 1))
	feedEnabled := cfg.Feed.Listen != ""

	presenterFor := func(common.BuildingConfig) session.Presenter {
		console := session.NewConsolePresenter(os.Stdout)
		if !feedEnabled {
			return console
		}
		return session.MultiPresenter{console, session.NewReportSink(reportCh)}
	}

	sess, err := session.New(cfg.SessionID, cfg.Building, presenterFor, building.WithCarConfig(cfg.Car))
	if err != nil {
		Log.Error().Err(err).Msg("cannot create building")
		os.Exit(1)
	}
	Log.Info().Msgf("session %s started", sess.ID)

	sess.Presenter().Show(sess.Report())
	fmt.Println(session.InputGuide)

	// console -> sim
	lineCh := make(chan string)

	go consoleThread(ctx, cancel, os.Stdin, lineCh)
	go simThread(ctx, cancel, cfg.Console, sess, lineCh)
	if feedEnabled {
		go feedThread(ctx, cfg.Feed, sess.ID, reportCh)
	}
	<-ctx.Done()
	fmt.Println("Shutting down")
}

func loadConfig(configPath, envPath string) (common.Config, error) {
	cfg, err := common.LoadConfig(configPath)
	if err != nil {
		return common.Config{}, err
	}
	if err := cfg.ApplyEnvFile(envPath); err != nil {
		return common.Config{}, err
	}
	return cfg, nil
}

// showIntro prints the welcome text and waits for a key. It reports false
// if the user pressed Ctrl+C.
func showIntro(out io.Writer, b common.BuildingConfig) bool {
	introText := []string{
		"Welcome to the Elevator System!",
		"This system will simulate the operation of an elevator system.",
		"The system will be initialized with the following parameters:",
		fmt.Sprintf("Number of floors: %d", b.NumFloors),
		fmt.Sprintf("Number of elevators: %d", b.NumElevators),
		fmt.Sprintf("Elevator capacity: %d", b.ElevatorCapacity),
		"The system will then be run and the results will be displayed.",
		"",
	}
	for _, line := range introText {
		fmt.Fprintln(out, line)
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return true
	}
	fmt.Fprintln(out, "Press any key to continue.")
	_, key, err := keyboard.GetSingleKey()
	if err != nil {
		Log.Warn().Err(err).Msg("keyboard unavailable, skipping intro wait")
		return true
	}
	return key != keyboard.KeyCtrlC
}
