package main

import (
	"fmt"
	"io"
	"math"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitDepth  = 16
	pcmFormat = 1
)

// tone is one generated fixture. Decaying tones fade out exponentially;
// steady ones start and end at a zero crossing so they loop cleanly.
type tone struct {
	name   string
	freqs  []float64
	length time.Duration
	decay  bool
	amp    float64
}

var tones = []tone{
	{name: "blip", freqs: []float64{880}, length: 150 * time.Millisecond, decay: true, amp: 0.6},
	{name: "thud", freqs: []float64{110, 55}, length: 350 * time.Millisecond, decay: true, amp: 0.8},
	{name: "chime", freqs: []float64{1320, 1980}, length: 800 * time.Millisecond, decay: true, amp: 0.5},
	{name: "hum", freqs: []float64{220, 330}, length: 2 * time.Second, amp: 0.4},
	{name: "drone", freqs: []float64{110, 165}, length: 2 * time.Second, amp: 0.4},
}

func (t tone) samples(rate int) []int {
	n := int(t.length.Seconds() * float64(rate))
	out := make([]int, n)
	peak := float64(int(1)<<(bitDepth-1) - 1)
	for i := range out {
		at := float64(i) / float64(rate)
		var v float64
		for _, f := range t.freqs {
			v += math.Sin(2 * math.Pi * f * at)
		}
		v /= float64(len(t.freqs))
		if t.decay {
			v *= math.Exp(-5 * at / t.length.Seconds())
		}
		out[i] = int(v * t.amp * peak)
	}
	return out
}

// writeTone encodes t as mono 16-bit PCM WAV.
func writeTone(w io.WriteSeeker, t tone, rate int) error {
	enc := wav.NewEncoder(w, rate, bitDepth, 1, pcmFormat)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: rate},
		Data:           t.samples(rate),
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode %s: %w", t.name, err)
	}
	return enc.Close()
}
