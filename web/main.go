package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/df07/go-scene-raytracer/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes", "scenes", "Directory of scene documents to offer next to the built-in scenes")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	webServer := server.NewServer(*port, *scenesDir, log.Logger)

	log.Info().Msgf("Visit http://localhost:%d/api/scenes to list scenes", *port)
	if err := webServer.Start(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
