/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

// Package config handles the emulator's command line options and logger
// setup.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/retroenv/retrogolib/log"
)

// Defaults for the emulation speed and window size.
const (
	DefaultHz    = 500
	DefaultScale = 10

	MaxHz    = 100000
	MaxScale = 64
)

// Options are the settings for a single run of the emulator.
type Options struct {
	// ROM is the file to load, a file dialog is shown if empty.
	ROM string

	// Hz is how many instructions are executed per second.
	Hz int

	// Scale is the size in window pixels of one CHIP-8 pixel.
	Scale int

	// Wav is the name of a file to record the beeper to.
	Wav string

	StatsView bool
	Debug     bool
	Quiet     bool
}

// UsageError represents an error that should show usage information.
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the flag defaults to w.
func (e *UsageError) ShowUsage(w io.Writer) {
	fmt.Fprintf(w, "usage: chip8 [options] [ROM file]\n\n")
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	fmt.Fprintln(w)
}

// ParseFlags parses the command line arguments, not including the program
// name.
func ParseFlags(args []string) (Options, error) {
	flags := flag.NewFlagSet("chip8", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts Options
	readOptionFlags(flags, &opts)

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, &UsageError{flags: flags, msg: "help requested"}
		}
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	rest := flags.Args()
	switch len(rest) {
	case 0:
	case 1:
		opts.ROM = rest[0]
	default:
		return opts, &UsageError{flags: flags, msg: fmt.Sprintf("unexpected argument %s after ROM file", rest[1])}
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}

	return opts, nil
}

// Validate checks the option values are in range.
func (opts Options) Validate() error {
	if opts.Hz < 1 || opts.Hz > MaxHz {
		return fmt.Errorf("clock speed %d Hz out of range 1-%d", opts.Hz, MaxHz)
	}
	if opts.Scale < 1 || opts.Scale > MaxScale {
		return fmt.Errorf("scale %d out of range 1-%d", opts.Scale, MaxScale)
	}
	if opts.Debug && opts.Quiet {
		return errors.New("debug and quiet options are mutually exclusive")
	}

	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *Options) {
	flags.IntVar(&opts.Hz, "hz", DefaultHz, "instructions executed per second")
	flags.IntVar(&opts.Scale, "scale", DefaultScale, "window pixels per CHIP-8 pixel")
	flags.StringVar(&opts.Wav, "wav", "", "record the beeper to this WAV file")
	flags.BoolVar(&opts.StatsView, "statsview", false, "serve runtime statistics on localhost")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.Quiet, "q", false, "only log errors")
}

// CreateLogger creates a logger with appropriate settings.
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
