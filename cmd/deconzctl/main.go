// Command deconzctl bridges a deCONZ coordinator module's serial link to
// either an HTTP API or an MCP tool server.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-deconz/deconz-sp/pkg/deconz"
	"github.com/go-deconz/deconz-sp/pkg/httpapi"
	"github.com/go-deconz/deconz-sp/pkg/mcpserver"
	"github.com/go-deconz/deconz-sp/pkg/schema"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	serialPort := flag.String("port", "/dev/ttyUSB0", "path to the deCONZ serial port")
	mode := flag.String("mode", "http", "server mode: http or mcp")
	addr := flag.String("addr", "127.0.0.1:8080", "address to bind the HTTP API to (http mode only)")
	flag.Parse()

	serial, err := deconz.OpenSerial(*serialPort)
	if err != nil {
		log.Fatal().Err(err).Str("port", *serialPort).Msg("failed to open deconz serial port")
	}

	client, notifications, err := deconz.NewClient(serial)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start deconz client")
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("shutting down")
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close deconz client")
		}
		os.Exit(0)
	}()

	switch *mode {
	case "http":
		validator := schema.NewValidator()
		router := httpapi.NewRouter(client, notifications, validator)

		log.Info().Str("address", *addr).Msg("starting deconz HTTP API")
		if err := router.Run(*addr); err != nil {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}

	case "mcp":
		// DeviceStateChanged notifications have no MCP transport in this
		// mode; drain them so the Client's internal channel never blocks.
		go func() {
			for range notifications {
			}
		}()

		server := mcpserver.NewServer(client)
		log.Info().Msg("starting deconz MCP server on stdio")
		if err := server.ServeStdio(); err != nil {
			log.Fatal().Err(err).Msg("MCP server failed")
		}

	default:
		log.Fatal().Str("mode", *mode).Msg("unknown mode: must be http or mcp")
	}
}
