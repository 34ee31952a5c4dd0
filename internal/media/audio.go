package media

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/pkg/errors"
)

// allowedAudioExtensions holds the file extensions accepted for audio
// uploads.
var allowedAudioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".m4a":  true,
	".aac":  true,
	".flac": true,
}

// AllowedAudioExtension reports whether the extension (with leading dot,
// any case) is accepted for audio uploads.
func AllowedAudioExtension(ext string) bool {
	return allowedAudioExtensions[strings.ToLower(ext)]
}

// AudioProbe carries best-effort metadata extracted from an uploaded
// audio file. Empty fields mean the probe could not determine a value.
type AudioProbe struct {
	Duration string `json:"duration,omitempty"`
	Title    string `json:"title,omitempty"`
	Artist   string `json:"artist,omitempty"`
}

// ProbeAudio inspects uploaded audio bytes for duration and tags. Probing
// is advisory: any failure yields empty fields, never an error, so a
// valid upload is never rejected for unreadable metadata.
func ProbeAudio(data []byte, ext string) AudioProbe {
	probe := AudioProbe{}

	switch strings.ToLower(ext) {
	case ".mp3":
		if d, err := mp3Duration(data); err == nil {
			probe.Duration = FormatDuration(d)
		}
	case ".wav":
		if d, err := wavDuration(data); err == nil {
			probe.Duration = FormatDuration(d)
		}
	}

	if meta, err := tag.ReadFrom(bytes.NewReader(data)); err == nil {
		probe.Title = meta.Title()
		probe.Artist = meta.Artist()
	}

	return probe
}

// FormatDuration renders a duration in the catalog's "m:ss" form.
func FormatDuration(d time.Duration) string {
	total := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func mp3Duration(data []byte) (time.Duration, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return 0, errors.Wrap(err, "decode mp3")
	}
	if dec.SampleRate() == 0 {
		return 0, errors.New("mp3 reports no sample rate")
	}
	// Length is decoded PCM size: 16-bit stereo, 4 bytes per sample
	samples := dec.Length() / 4
	return time.Duration(samples) * time.Second / time.Duration(dec.SampleRate()), nil
}

func wavDuration(data []byte) (time.Duration, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	d, err := dec.Duration()
	if err != nil {
		return 0, errors.Wrap(err, "decode wav")
	}
	return d, nil
}
