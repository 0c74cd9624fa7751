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
	"fmt"

	"github.com/c8emu/chip8/internal/wavwriter"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

/// Sample rate of the beeper.
///
const AudioFreq = 22050

var (
	/// The audio device, zero if audio is unavailable.
	///
	AudioDevice sdl.AudioDeviceID

	// square wave generator and one video frame of samples
	tone     wavwriter.Tone
	audioBuf []byte
)

/// Initialize an audio device for the CHIP-8 beeper. Samples are queued
/// once per video frame instead of being pulled by a callback.
///
func InitAudio() error {
	spec := &sdl.AudioSpec{
		Freq:     AudioFreq,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  512,
	}

	var actual sdl.AudioSpec

	// open the device and start playing it
	dev, err := sdl.OpenAudioDevice("", false, spec, &actual, 0)
	if err != nil {
		return fmt.Errorf("opening audio device: %w", err)
	}

	AudioDevice = dev
	tone = wavwriter.Tone{SampleRate: int(actual.Freq)}
	audioBuf = make([]byte, int(actual.Freq)/60)

	sdl.PauseAudioDevice(AudioDevice, false)

	return nil
}

/// Beep queues one frame of tone (or silence) to the audio device.
///
func Beep(on bool) {
	if AudioDevice == 0 {
		return
	}

	// keep no more than a couple of frames queued to limit lag
	if sdl.GetQueuedAudioSize(AudioDevice) > uint32(len(audioBuf)*2) {
		return
	}

	tone.Fill(audioBuf, on)

	if err := sdl.QueueAudio(AudioDevice, audioBuf); err != nil {
		Logger.Error("Queueing audio failed", log.Err(err))
	}
}

/// CloseAudio releases the audio device.
///
func CloseAudio() {
	if AudioDevice != 0 {
		sdl.CloseAudioDevice(AudioDevice)
		AudioDevice = 0
	}
}
