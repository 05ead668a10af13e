// Command schema writes the JSON schema of every wire message.
package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"haxball/logger"
	"haxball/protocol"
)

func main() {
	out := flag.String("out", "", "output file (stdout when empty)")
	flag.Parse()
	logger.Init("info", true)

	b, err := json.MarshalIndent(protocol.Schema(), "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("marshal schema")
	}
	b = append(b, '\n')

	if *out == "" {
		if _, err := os.Stdout.Write(b); err != nil {
			log.Fatal().Err(err).Msg("write schema")
		}
		return
	}
	if err := os.WriteFile(*out, b, 0o644); err != nil {
		log.Fatal().Err(err).Str("path", *out).Msg("write schema")
	}
	log.Info().Str("path", *out).Msg("schema written")
}
