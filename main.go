package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/lepinkainen/bestlastyear/cmd"
)

var execute = cmd.Execute

func main() {
	execute()
}
