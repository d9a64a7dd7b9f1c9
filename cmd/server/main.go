package main

import (
	"os"

	"github.com/dmitrijs2005/gophid/internal/server"
)

func main() {
	os.Exit(server.Main())
}
