package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/warcouncil/age-of-war/pkg/agewar"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var (
		attacking string
		defending string
		wins      int
		factor    int
		timeout   time.Duration
		jsonOut   bool
	)

	flag.StringVar(&attacking, "a", "", "Attacking army (e.g. Spearmen#10;Militia#30;...)")
	flag.StringVar(&defending, "d", "", "Defending army")
	flag.IntVar(&wins, "wins", agewar.DefaultRequiredWins, "Battles that must be won")
	flag.IntVar(&factor, "factor", agewar.DefaultAdvantageFactor, "Class advantage multiplier")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Search timeout")
	flag.BoolVar(&jsonOut, "json", false, "Output the arrangement as JSON")

	flag.Parse()

	if attacking == "" || defending == "" {
		fmt.Fprintln(os.Stderr, "usage: solve -a <attacking army> -d <defending army> [-wins N] [-factor N]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	att, err := agewar.ParseArmy(attacking)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid attacking army")
	}
	def, err := agewar.ParseArmy(defending)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid defending army")
	}

	plan, err := agewar.NewWarPlan(att, def, agewar.Rules{RequiredWins: wins, AdvantageFactor: factor})
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot build war plan")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	arrangement, err := plan.FindWinningArrangement(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Fatal().Dur("timeout", timeout).Msg("Search timed out")
		}
		log.Fatal().Err(err).Msg("Search failed")
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("Search finished")

	if arrangement == nil {
		fmt.Println("There is no chance of winning")
		os.Exit(1)
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(arrangement)
		return
	}

	fmt.Println(arrangement.Attacking.String())
	for i, b := range arrangement.Battles {
		fmt.Printf("Battle %d: %s vs %s -> %s\n", i+1, b.Attacker, b.Defender, b.Outcome)
	}
	fmt.Printf("Result: %d/%d battles won\n", arrangement.Wins, len(arrangement.Battles))
}
