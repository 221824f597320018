package main

import (
	"fmt"
	"time"

	"github.com/Tharunkunamalla/CodeSync/config"
	"github.com/Tharunkunamalla/CodeSync/database"
	"github.com/Tharunkunamalla/CodeSync/registry"
	"github.com/Tharunkunamalla/CodeSync/routes"
	"github.com/Tharunkunamalla/CodeSync/runner"
	"github.com/Tharunkunamalla/CodeSync/socket"
	"github.com/Tharunkunamalla/CodeSync/store"

	"github.com/sirupsen/logrus"
)

func main() {
	config.LoadConfig()

	if level, err := logrus.ParseLevel(config.C.Log.Level); err == nil {
		logrus.SetLevel(level)
	}

	db, err := database.Connect(config.C.Database.SQLitePath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect database")
	}
	if err := database.RunMigrations(db); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	reg := registry.NewRegistry()
	rooms := store.NewRoomStore(db)

	engine := socket.NewEngine(
		reg,
		rooms,
		time.Duration(config.C.Sync.CodeDebounceMS)*time.Millisecond,
		time.Duration(config.C.Sync.LanguageDebounceMS)*time.Millisecond,
	)

	srv := socket.NewServer()
	engine.Register(srv)
	go func() {
		if err := srv.Serve(); err != nil {
			logrus.WithError(err).Fatal("socket server stopped")
		}
	}()
	defer srv.Close()

	timeout := time.Duration(config.C.Runners.TimeoutMS) * time.Millisecond
	proxy := runner.NewProxy(
		runner.NewPaiza(
			config.C.Runners.PaizaURL,
			time.Duration(config.C.Runners.PollIntervalMS)*time.Millisecond,
			config.C.Runners.PollAttempts,
			timeout,
		),
		runner.NewPiston(config.C.Runners.PistonURL, timeout),
	)

	router := routes.SetupRouter(srv, proxy)

	addr := fmt.Sprintf(":%d", config.C.Server.Port)
	logrus.WithField("addr", addr).Info("server running")

	if err := router.Run(addr); err != nil {
		logrus.Fatal(err)
	}
}
