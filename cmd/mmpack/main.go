// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command mmpack installs, removes and keeps coherent a set of binary
// packages inside a user-selected prefix.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/nbourdau/mmpack"
)

type command interface {
	Name() string           // "install"
	Args() string           // "<pkgname>[=<version>]..."
	ShortHelp() string      // "Install packages and their dependencies"
	LongHelp() string       // "Install downloads and installs..."
	Register(*flag.FlagSet) // command-specific flags
	Hidden() bool           // hide the command from help output
	Run(*mmpack.Ctx, []string) error
}

func main() {
	c := &Config{
		Args:   os.Args,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	os.Exit(c.Run())
}

// A Config specifies a full configuration for an mmpack execution.
type Config struct {
	Args           []string  // Command-line arguments, starting with the program name.
	Stdout, Stderr io.Writer // Output streams
}

// Run executes a configuration and returns an exit code.
func (c *Config) Run() (exitCode int) {
	commands := []command{
		&installCommand{},
		&removeCommand{},
		&updateCommand{},
		&downloadCommand{},
		&sourceCommand{},
		&listCommand{},
		&checkIntegrityCommand{},
		&versionCommand{},
		&completePkgnameCommand{},
	}

	examples := [][2]string{
		{
			"mmpack update",
			"refresh the package list of every configured repository",
		},
		{
			"mmpack install hdf5=1.10",
			"install hdf5 at version 1.10 with its dependencies",
		},
		{
			"mmpack remove hdf5",
			"remove hdf5 and everything depending on it",
		},
	}

	outLogger := log.New(c.Stdout, "", 0)
	errLogger := log.New(c.Stderr, "", 0)

	usage := func() {
		errLogger.Println("mmpack is a package manager for user-owned prefixes")
		errLogger.Println()
		errLogger.Println("Usage: mmpack <command> [--prefix=<path>] [arguments]")
		errLogger.Println()
		errLogger.Println("Commands:")
		errLogger.Println()
		w := tabwriter.NewWriter(c.Stderr, 0, 4, 2, ' ', 0)
		for _, cmd := range commands {
			if !cmd.Hidden() {
				fmt.Fprintf(w, "\t%s\t%s\n", cmd.Name(), cmd.ShortHelp())
			}
		}
		w.Flush()
		errLogger.Println()
		errLogger.Println("Examples:")
		for _, example := range examples {
			fmt.Fprintf(w, "\t%s\t%s\n", example[0], example[1])
		}
		w.Flush()
		errLogger.Println()
		errLogger.Println("Use \"mmpack help [command]\" for more information about a command.")
	}

	cmdName, printCommandHelp, exit := parseArgs(c.Args)
	if exit {
		usage()
		return 1
	}

	for _, cmd := range commands {
		if cmd.Name() != cmdName {
			continue
		}

		fs := flag.NewFlagSet(cmdName, flag.ContinueOnError)
		fs.SetOutput(c.Stderr)
		verbose := fs.Bool("v", false, "enable verbose logging")
		prefix := fs.String("prefix", "", "operate on the prefix at this path")
		cmd.Register(fs)

		fs.Usage = func() {
			errLogger.Printf("Usage: mmpack %s %s\n", cmdName, cmd.Args())
			errLogger.Println()
			errLogger.Println(strings.TrimSpace(cmd.LongHelp()))
			errLogger.Println()
			if hasFlags(fs) {
				errLogger.Println("Flags:")
				errLogger.Println()
				fs.SetOutput(c.Stderr)
				fs.PrintDefaults()
			}
		}

		if printCommandHelp {
			fs.Usage()
			return 1
		}

		if err := fs.Parse(c.Args[2:]); err != nil {
			return 1
		}

		settings := mmpack.NewSettings()
		if err := settings.LoadFile(mmpack.UserConfigPath()); err != nil {
			errLogger.Printf("%v\n", err)
			return 1
		}

		ctx := mmpack.NewContext(*prefix, settings, outLogger, errLogger)
		ctx.Verbose = *verbose

		if err := cmd.Run(ctx, fs.Args()); err != nil {
			if err != errExitSilently {
				errLogger.Printf("%v\n", err)
			}
			return 1
		}
		return 0
	}

	errLogger.Printf("mmpack: %s: no such command\n", cmdName)
	usage()
	return 1
}

// errExitSilently signals a non-zero exit whose cause was already
// reported (e.g. the user declined the confirmation prompt).
var errExitSilently = fmt.Errorf("exit silently")

func parseArgs(args []string) (cmdName string, printCmdUsage bool, exit bool) {
	isHelpArg := func() bool {
		return strings.Contains(strings.ToLower(args[1]), "help") || strings.ToLower(args[1]) == "-h"
	}

	switch len(args) {
	case 0, 1:
		exit = true
	case 2:
		if isHelpArg() {
			exit = true
		} else {
			cmdName = args[1]
		}
	default:
		if isHelpArg() {
			cmdName = args[2]
			printCmdUsage = true
		} else {
			cmdName = args[1]
		}
	}
	return cmdName, printCmdUsage, exit
}

func hasFlags(fs *flag.FlagSet) bool {
	var has bool
	fs.VisitAll(func(*flag.Flag) {
		has = true
	})
	return has
}
