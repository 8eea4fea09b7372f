package main

import (
	"os"

	"postapi/cmd"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	_ "golang.org/x/crypto/x509roots/fallback" // We need this to make TLS to the database work in scratch containers
)

func main() {
	// A missing .env file is fine, the environment may be set already
	_ = godotenv.Load()

	if err := cmd.RootApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
