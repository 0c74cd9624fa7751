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

// Package wavwriter records the CHIP-8 beeper to a WAV file. Note that audio
// data is buffered in memory in its entirety and written to disk on Close.
// It is therefore only suitable for short recordings.
package wavwriter

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	// Silence is the unsigned 8-bit zero level.
	Silence = 0x80

	// amplitude of the square wave either side of Silence
	amplitude = 0x30

	// ToneHz is the pitch of the beeper.
	ToneHz = 440
)

// Tone generates an unsigned 8-bit mono square wave. The phase carries over
// between calls so consecutive buffers join without clicks.
type Tone struct {
	SampleRate int
	phase      int
}

// Fill dst with the tone if on, silence otherwise.
func (t *Tone) Fill(dst []uint8, on bool) {
	half := t.SampleRate / ToneHz / 2
	if half < 1 {
		half = 1
	}

	for i := range dst {
		if !on {
			dst[i] = Silence
			continue
		}

		if (t.phase/half)&1 == 0 {
			dst[i] = Silence + amplitude
		} else {
			dst[i] = Silence - amplitude
		}

		t.phase = (t.phase + 1) % (half * 2)
	}
}

// WavWriter buffers beeper samples and encodes them on Close.
type WavWriter struct {
	filename string
	tone     Tone
	buffer   []int
	scratch  []uint8
}

// New is the preferred method of initialisation for the WavWriter type.
func New(filename string, sampleRate int) (*WavWriter, error) {
	if filename == "" {
		return nil, errors.New("wavwriter: no filename")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("wavwriter: invalid sample rate %d", sampleRate)
	}

	aw := &WavWriter{
		filename: filename,
		tone:     Tone{SampleRate: sampleRate},
		buffer:   make([]int, 0, sampleRate),
	}

	return aw, nil
}

// SetBeep appends n samples of tone (or silence).
func (aw *WavWriter) SetBeep(on bool, n int) {
	if n <= 0 {
		return
	}
	if cap(aw.scratch) < n {
		aw.scratch = make([]uint8, n)
	}

	s := aw.scratch[:n]
	aw.tone.Fill(s, on)

	for _, v := range s {
		aw.buffer = append(aw.buffer, int(v))
	}
}

// Len returns the number of samples recorded.
func (aw *WavWriter) Len() int {
	return len(aw.buffer)
}

// Close writes the recording to disk.
func (aw *WavWriter) Close() (rerr error) {
	f, err := os.Create(aw.filename)
	if err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("wavwriter: %w", err)
		}
	}()

	enc := wav.NewEncoder(f, aw.tone.SampleRate, 8, 1, 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  aw.tone.SampleRate,
		},
		Data:           aw.buffer,
		SourceBitDepth: 8,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}

	return nil
}
