package model

// RawNote and RawSong are a song before its tokens are parsed, as read
// from text, XML or JSON scores.
type RawNote struct {
	Pitch    string `json:"pitch" xml:"name"`
	Duration string `json:"duration" xml:"value"`
}

type RawSong struct {
	Title         string    `json:"title" xml:"title"`
	PauseMillis   int       `json:"pause_ms" xml:"pause"`
	TempoBpm      int       `json:"tempo_bpm" xml:"tempo"`
	TimeSignature int       `json:"time_signature" xml:"time"`
	Notes         []RawNote `json:"notes" xml:"note"`
}

type EncodeRequestBody struct {
	Layout string    `json:"layout"`
	Limit  int       `json:"limit"`
	Songs  []RawSong `json:"songs"`
}

type SongSummary struct {
	Title          string `json:"title"`
	Notes          int    `json:"notes"`
	PlaybackMillis int64  `json:"playback_ms"`
}

type EncodeResponse struct {
	Layout  string        `json:"layout"`
	Hex     string        `json:"hex"`
	Size    int           `json:"size"`
	Limit   int           `json:"limit"`
	Dropped int           `json:"dropped"`
	Songs   []SongSummary `json:"songs"`
}

type PitchResponse struct {
	Pitch     string  `json:"pitch"`
	Frequency float64 `json:"frequency"`
	Ticks     uint16  `json:"ticks"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
