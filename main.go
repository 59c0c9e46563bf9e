/*
 * S2200 - Main program
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"io"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"
	reader "github.com/rcornwell/S2200/command/reader"
	config "github.com/rcornwell/S2200/config/configparser"
	core "github.com/rcornwell/S2200/emu/core"
	master "github.com/rcornwell/S2200/emu/master"
	logger "github.com/rcornwell/S2200/util/logger"

	_ "github.com/rcornwell/S2200/config/debugconfig"
	_ "github.com/rcornwell/S2200/config/machineconfig"
)

var Logger *slog.Logger

func main() {
	optConfig := getopt.StringLong("config", 'c', "S2200.cfg", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optScript := getopt.StringLong("script", 's', "", "Command script to run before console")
	optDebug := getopt.BoolLong("debug", 'd', "Log debug to console")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var out io.Writer
	if *optLogFile != "" {
		file, err := os.Create(*optLogFile)
		if err != nil {
			slog.Error("Unable to create log file: " + err.Error())
			os.Exit(1)
		}
		defer file.Close()
		out = file
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger = slog.New(logger.NewHandler(out, &slog.HandlerOptions{Level: programLevel, AddSource: false}, *optDebug))
	slog.SetDefault(Logger)

	Logger.Info("S2200 Started")
	if _, err := os.Stat(*optConfig); os.IsNotExist(err) {
		Logger.Error("Configuration file " + *optConfig + " can't be found")
		os.Exit(1)
	}

	if err := config.LoadConfigFile(*optConfig); err != nil {
		Logger.Error(*optConfig + ": " + err.Error())
		os.Exit(1)
	}

	// Create routine that owns the processors.
	sim := core.New(make(chan master.Packet))
	go sim.Start()

	quit := false
	if *optScript != "" {
		var err error
		quit, err = reader.ScriptFile(*optScript, sim)
		if err != nil {
			Logger.Error(err.Error())
		}
	}

	if !quit {
		reader.Run(sim)
	}

	sim.Stop()
	Logger.Info("Simulator stopped.")
}
