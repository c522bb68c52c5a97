package main

import (
	"context"
	"flag"
	"log"

	"github.com/vnkhanh/pesquisa-clima/config"
	"github.com/vnkhanh/pesquisa-clima/seed"
)

func main() {
	path := flag.String("f", "seed.yaml", "YAML file with admins, respondents and questions")
	flag.Parse()

	settings, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := config.ConnectDB(settings); err != nil {
		log.Fatalf("database: %v", err)
	}

	file, err := seed.Load(*path)
	if err != nil {
		log.Fatal(err)
	}
	if err := seed.ApplyStrict(context.Background(), config.DB, file); err != nil {
		log.Fatal(err)
	}
	log.Printf("Seeded %d admins, %d respondents, %d questions from %s",
		len(file.Admins), len(file.Respondents), len(file.Questions), *path)
}
