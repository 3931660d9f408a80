package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"devfeed/client"
	"devfeed/config"
	"devfeed/lifecycle"
	"devfeed/rotation"
	"devfeed/tui"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadDashboard(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cfg == nil {
		return
	}

	logFile, err := config.SetupLogging(cfg.Debug, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	log.WithFields(log.Fields{
		"endpoint": cfg.Endpoint,
		"rotation": cfg.Rotation,
		"version":  config.GetVersion(),
	}).Info("Starting dashboard")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feedClient := client.New(cfg.Endpoint, client.WithUserAgent(cfg.UserAgent))
	controller := lifecycle.New(feedClient, rotation.WithInterval(cfg.Rotation))

	m := tui.NewModel(ctx, controller, tui.Options{
		Endpoint: cfg.Endpoint,
		Interval: cfg.Rotation,
		MaxItems: cfg.MaxItems,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())

	// Send blocks until the event loop reads; controller calls are issued
	// from commands, never from Update, so this cannot deadlock.
	controller.OnChange(func(s lifecycle.Snapshot) {
		program.Send(tui.SnapshotMsg{Snapshot: s})
	})

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		program.Quit()
	}()

	// Run the program
	_, runErr := program.Run()
	controller.Teardown()
	if runErr != nil {
		log.WithError(runErr).Error("Dashboard exited with error")
		fmt.Printf("Error running program: %v\n", runErr)
		os.Exit(1)
	}
	log.Info("Dashboard stopped")
}
