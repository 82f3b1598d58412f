// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/MKhiriev/go-link-keeper/internal/adapter"
	"github.com/MKhiriev/go-link-keeper/internal/config"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/service"
	"github.com/MKhiriev/go-link-keeper/internal/store"
)

const defaultCommand = "watch"

type App struct {
	services *service.ClientServices
	cfg      *config.ClientConfig
	out      io.Writer
	closer   io.Closer

	logger *logger.Logger
}

// NewApp opens the local store and the remote adapter and wires the client
// services.
func NewApp(ctx context.Context, cfg *config.ClientConfig, logger *logger.Logger) (*App, error) {
	remote, err := adapter.NewRemoteStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create remote adapter: %w", err)
	}

	storages, err := store.NewClientStorages(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	services := service.NewClientServices(storages, remote, cfg, logger)
	return newApp(services, cfg, os.Stdout, storages, logger), nil
}

func newApp(services *service.ClientServices, cfg *config.ClientConfig, out io.Writer, closer io.Closer, logger *logger.Logger) *App {
	return &App{
		services: services,
		cfg:      cfg,
		out:      out,
		closer:   closer,
		logger:   logger,
	}
}

func (a *App) Run(ctx context.Context) error {
	command, args := defaultCommand, []string(nil)
	if len(a.cfg.Args) > 0 {
		command, args = a.cfg.Args[0], a.cfg.Args[1:]
	}
	a.logger.Debug().Str("command", command).Strs("args", args).Msg("running command")

	switch command {
	case "watch":
		return a.watch(ctx)
	case "sync":
		return a.sync(ctx)
	case "status":
		return a.status(ctx)
	case "conflicts":
		return a.conflicts(ctx)
	case "resolve":
		return a.resolve(ctx, args)
	case "log":
		return a.log(ctx, args)
	case "add-link":
		return a.addLink(ctx, args)
	case "add-note":
		return a.addNote(ctx, args)
	case "add-favorite":
		return a.addFavorite(ctx, args)
	case "edit-link":
		return a.editLink(ctx, args)
	case "edit-note":
		return a.editNote(ctx, args)
	case "edit-favorite":
		return a.editFavorite(ctx, args)
	case "rm":
		return a.remove(ctx, args)
	case "help":
		return a.usage()
	}
	a.usage()
	return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
}

func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
