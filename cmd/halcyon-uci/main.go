package main

import (
	"flag"
	"os"
	"runtime/pprof"

	"github.com/lchess/halcyon/internal/engine"
	"github.com/lchess/halcyon/internal/uci"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	logLevel   = flag.String("loglevel", "info", "log level: debug, info, warn, error, disabled")
)

func main() {
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// UCI speaks on stdout; logs go to stderr so they never corrupt the protocol stream.
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", profilePath).Msg("cpu profiling enabled")
	}

	driver := engine.NewDriver()
	driver.Logger = log.Logger

	protocol := uci.New(driver)
	protocol.Run()
}
