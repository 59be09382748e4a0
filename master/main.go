// Command master is the directory skirmish servers register with and clients
// list from.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/automoto/skirmish/logging"
)

func main() {
	port := flag.Int("port", 8080, "HTTP listen port")
	ttl := flag.Duration("ttl", 90*time.Second, "Server TTL before expiry")
	level := flag.String("log", "info", "log level")
	pretty := flag.Bool("pretty", false, "human readable logs")
	flag.Parse()

	logging.Setup(*level, *pretty, nil)
	logger := logging.For("master")

	reg := NewRegistry(*ttl, logger)
	go reg.Run(30 * time.Second)
	defer reg.Stop()

	addr := fmt.Sprintf(":%d", *port)
	logger.Info().Str("addr", addr).Dur("ttl", *ttl).Msg("starting")
	if err := http.ListenAndServe(addr, NewMux(reg, logger)); err != nil {
		logger.Fatal().Err(err).Msg("listen failed")
	}
}
