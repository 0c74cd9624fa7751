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

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/c8emu/chip8/chip8"
	"github.com/c8emu/chip8/internal/config"
	"github.com/c8emu/chip8/internal/history"
	"github.com/c8emu/chip8/internal/statsview"
	"github.com/c8emu/chip8/internal/wavwriter"
	"github.com/retroenv/retrogolib/log"
	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
)

// how many executed instructions are kept for fault reports
const historySize = 16

var (
	/// The CHIP-8 virtual machine.
	///
	VM *chip8.CHIP_8

	/// The SDL Window and Renderer.
	///
	Window   *sdl.Window
	Renderer *sdl.Renderer

	/// Logger for the whole application.
	///
	Logger *log.Logger

	/// True if emulation is paused.
	///
	Paused bool

	/// Recent instructions executed by the VM.
	///
	Recent *history.History

	/// Clock paces the VM, Speed is its rate in instructions per second.
	///
	Clock *time.Ticker
	Speed int
)

func init() {
	runtime.LockOSThread()
}

func main() {
	opts, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		var usageErr *config.UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage(os.Stderr)
			os.Exit(2)
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	Logger = config.CreateLogger(opts.Debug, opts.Quiet)

	if err := run(opts); err != nil {
		Logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

func run(opts config.Options) error {
	if opts.StatsView {
		statsview.Launch(Logger)
	}

	file, err := selectROM(opts.ROM)
	if err != nil {
		return err
	}

	// create a new CHIP-8 virtual machine, must happen early!
	if VM, err = chip8.LoadFile(Logger, file); err != nil {
		return err
	}

	Recent = history.New(historySize)
	VM.Trace = Recent.Record

	Logger.Info("ROM loaded", log.String("file", file))

	// initialize SDL
	if err = sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("initializing SDL: %w", err)
	}
	defer sdl.Quit()

	// create the main window and renderer
	w := int32(chip8.Width * opts.Scale)
	h := int32(chip8.Height * opts.Scale)
	if Window, Renderer, err = sdl.CreateWindowAndRenderer(w, h, sdl.WINDOW_SHOWN); err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer Window.Destroy()
	defer Renderer.Destroy()

	// set the title
	Window.SetTitle("CHIP-8 - " + filepath.Base(file))

	// initialize subsystems
	if err = InitScreen(); err != nil {
		return err
	}
	if err = InitAudio(); err != nil {
		Logger.Error("Audio unavailable", log.Err(err))
	}
	defer CloseAudio()

	recorder, err := openRecorder(opts.Wav)
	if err != nil {
		return err
	}

	PrintHelp()

	// set processor speed and refresh rate
	Speed = opts.Hz
	Clock = time.NewTicker(time.Second / time.Duration(Speed))
	video := time.NewTicker(time.Second / 60)
	defer Clock.Stop()
	defer video.Stop()

	// loop until window closed or user quit
	for ProcessEvents() {
		select {
		case <-video.C:
			Refresh()

			beep := VM.Beeping() && !Paused
			Beep(beep)

			if recorder != nil {
				recorder.SetBeep(beep, AudioFreq/60)
			}
		case <-Clock.C:
			if !Paused {
				Step()
			}
		}
	}

	if recorder != nil {
		if err := recorder.Close(); err != nil {
			return err
		}
		Logger.Info("Beeper recorded", log.String("file", opts.Wav))
	}

	return nil
}

/// selectROM returns the ROM given on the command line, or asks for one.
///
func selectROM(file string) (string, error) {
	if file != "" {
		return file, nil
	}

	file, err := dialog.File().Filter("CHIP-8 ROM", "ch8", "c8").Title("Load CHIP-8 ROM").Load()
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			return "", errors.New("no ROM selected")
		}
		return "", fmt.Errorf("selecting ROM: %w", err)
	}

	return file, nil
}

/// openRecorder creates the WAV recorder if a file was requested.
///
func openRecorder(file string) (*wavwriter.WavWriter, error) {
	if file == "" {
		return nil, nil
	}

	recorder, err := wavwriter.New(file, AudioFreq)
	if err != nil {
		return nil, err
	}

	Logger.Info("Recording beeper", log.String("file", file))
	return recorder, nil
}

/// Step the VM, pausing and reporting the last instructions on a fault.
///
func Step() {
	if VM.Halted() != nil {
		return
	}

	if err := VM.Step(); err != nil {
		Paused = true

		Logger.Error("Machine halted, press backspace to reboot", log.Err(err))
		for _, line := range Recent.Window(historySize) {
			Logger.Error("Executed", log.String("instruction", line))
		}
	}
}

/// Reboot the VM from the loaded ROM.
///
func Reboot() {
	VM.Reset()
	Recent.Clear()
	Paused = false

	Logger.Info("Rebooted")
}

/// SetSpeed changes the clock rate of the VM.
///
func SetSpeed(hz int) {
	if hz < 1 {
		hz = 1
	}
	if hz > config.MaxHz {
		hz = config.MaxHz
	}

	Speed = hz
	Clock.Reset(time.Second / time.Duration(Speed))

	Logger.Info("Speed changed", log.Int("hz", Speed))
}

/// Refresh the window with the CHIP-8 video memory.
///
func Refresh() {
	if err := RefreshScreen(); err != nil {
		Logger.Error("Refreshing screen failed", log.Err(err))
	}

	Renderer.SetDrawColor(0, 0, 0, 255)
	Renderer.Clear()

	// stretch the screen over the whole window
	CopyScreen()

	// show the new frame
	Renderer.Present()
}
