package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/mailpasswd/internal/client/cli"
	"github.com/dmitrijs2005/mailpasswd/internal/client/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app := cli.NewApp(cfg)

	os.Exit(app.Run(ctx, os.Args[1:]))

}
