// LIM Core
// Copyright (c) 2026 The LevelImposter Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of LIM Core.
//
// LIM Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// LIM Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with LIM Core.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/LevelImposter/lim-core/pkg/cli"
	"github.com/LevelImposter/lim-core/pkg/config"
	"github.com/LevelImposter/lim-core/pkg/helpers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("limconv", flag.ContinueOnError)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: limconv [flags] <map file>\n\n")
		fs.PrintDefaults()
	}
	flags := cli.SetupFlags(fs)

	path, err := flags.Parse(fs, os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if errors.Is(err, cli.ErrUsage) {
		fs.Usage()
		return err
	}
	if err != nil {
		return err
	}

	if *flags.Version {
		_, _ = fmt.Printf("limconv v%s\n", cli.AppVersion)
		return nil
	}

	dirs := helpers.DefaultDirs()
	cfg, err := cli.Setup(
		dirs,
		*flags.Config,
		config.BaseDefaults,
		[]io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}},
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := &cli.Env{
		Fs:      afero.NewOsFs(),
		Cfg:     cfg,
		Stdout:  os.Stdout,
		DataDir: dirs.Data,
	}

	if path == "" {
		_, err = cli.Search(ctx, env, *flags.Search)
		return err
	}

	_, err = cli.Run(ctx, env, flags, path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("conversion failed")
		return err
	}
	return nil
}
