package main

import (
	"flag"
	"log"

	"ytcommentsync/internal/app"
)

func main() {
	authorize := flag.String("authorize", "", "run the interactive consent flow for the named channel and exit")
	flag.Parse()

	if *authorize != "" {
		if err := app.Authorize(*authorize); err != nil {
			log.Fatalf("Authorization failed: %v", err)
		}
		return
	}

	if err := app.Run(); err != nil {
		log.Fatalf("Syncer failed: %v", err)
	}
}
