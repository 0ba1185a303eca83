package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/Stephen-Garner/UniLexApp2-sub001/cmd"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	cmd.Execute()
}
