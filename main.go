package main

import (
	"github.com/haguru/connectpro/config"
	"github.com/haguru/connectpro/internal/app"
)

func main() {

	// create and initialize the app
	app, err := app.NewApp(config.CONFIG_PATH)
	if err != nil {
		panic(err)
	}

	// run the app
	// Backend selection has completed by now; this only starts the listener.
	err = app.Run()
	if err != nil {
		panic(err)
	}
}
