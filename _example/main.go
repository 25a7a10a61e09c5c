// This is an example bot that reports guild statistics while serving go-sarah commands.
// It registers two commands whose completions are counted, and the hourly boost task.
//
// Usage:
//
//	export DISCORD_TOKEN="your-bot-token"
//	go run . -config stats.yml
//
// A minimal stats.yml:
//
//	guild_id: "267624335836053506"
//	modmail_category_id: "714494672835444826"
//	incidents_channel_id: "714214212200562749"
//	channel_name_overrides:
//	  "291284109232308226": off_topic_0
//	presence_update_timeout: 5m
//	statsd:
//	  address: localhost:8125
//	  prefix: bot
//	prometheus:
//	  listen_address: :9090
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-kasumi/logger"
	"github.com/oklahomer/go-sarah/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oklahomer/go-sarah-discord-stats"
	"github.com/oklahomer/go-sarah-discord-stats/stats"
)

func main() {
	configPath := flag.String("config", "stats.yml", "path to the stats configuration file")
	flag.Parse()

	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		fmt.Fprintln(os.Stderr, "DISCORD_TOKEN environment variable is required")
		os.Exit(1)
	}

	statsConfig, err := stats.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load stats config: %s\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// The session is created here so the listener can read the same State the adapter keeps up to date.
	config := discord.NewConfig()
	config.Token = token
	session, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create session: %s\n", err)
		os.Exit(1)
	}
	session.Identify.Intents = config.Intents

	registry := prometheus.NewRegistry()
	client, err := stats.NewClient(statsConfig, registry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up stats client: %s\n", err)
		os.Exit(1)
	}
	if closer, ok := client.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	if addr := statsConfig.Prometheus.ListenAddress; addr != "" {
		go func() {
			if err := stats.ServePrometheus(ctx, addr, registry); err != nil {
				logger.Errorf("Metrics server stopped: %+v", err)
			}
		}()
	}

	listener, err := stats.NewListener(statsConfig, client, session.State)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create stats listener: %s\n", err)
		os.Exit(1)
	}

	adapter, err := discord.NewAdapter(config,
		discord.WithSession(session),
		discord.WithEventHandlers(listener.Handlers()...),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create adapter: %s\n", err)
		os.Exit(1)
	}

	storage := sarah.NewUserContextStorage(sarah.NewCacheConfig())
	sarah.RegisterBot(sarah.NewBot(adapter, sarah.BotWithStorage(storage)))

	registerPingCommand(listener)
	registerBoostCommand(listener)

	boostTask, err := stats.BoostTaskProps(listener)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build boost task: %s\n", err)
		os.Exit(1)
	}
	sarah.RegisterScheduledTaskProps(boostTask)

	err = sarah.Run(ctx, sarah.NewConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run: %s\n", err)
		os.Exit(1)
	}

	logger.Infof("Bot is running. Press Ctrl+C to stop.")

	<-ctx.Done()

	logger.Infof("Shutting down...")
}

var pingPattern = regexp.MustCompile(`^!ping`)

func registerPingCommand(listener *stats.Listener) {
	props := sarah.NewCommandPropsBuilder().
		BotType(discord.DISCORD).
		Identifier("ping").
		MatchPattern(pingPattern).
		Func(listener.TrackCommand("ping", func(_ context.Context, input sarah.Input) (*sarah.CommandResponse, error) {
			return discord.NewResponse(input, "Pong.")
		})).
		Instruction("Input !ping to check the bot is alive.").
		MustBuild()

	sarah.RegisterCommandProps(props)
}

var boostPattern = regexp.MustCompile(`^!stats boost`)

func registerBoostCommand(listener *stats.Listener) {
	props := sarah.NewCommandPropsBuilder().
		BotType(discord.DISCORD).
		Identifier("stats boost").
		MatchPattern(boostPattern).
		Func(listener.TrackCommand("stats boost", func(_ context.Context, input sarah.Input) (*sarah.CommandResponse, error) {
			listener.ReportBoost()
			return discord.NewResponse(input, "Boost stats were refreshed.")
		})).
		Instruction("Input !stats boost to refresh the boost gauges right away.").
		MustBuild()

	sarah.RegisterCommandProps(props)
}
