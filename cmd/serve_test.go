package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jsphweid/dormbell/model"
	"github.com/stretchr/testify/assert"
)

func get(t *testing.T, path string) (int, []byte) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	Router().ServeHTTP(w, req)
	return w.Code, w.Body.Bytes()
}

func TestPitchEndpoint(t *testing.T) {
	status, body := get(t, "/pitch/A4")
	assert.Equal(t, 200, status)

	var res model.PitchResponse
	assert.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, "A4", res.Pitch)
	assert.Equal(t, uint16(37), res.Ticks)
	assert.InDelta(t, 440.0, res.Frequency, 1e-9)
}

func TestPitchEndpointRest(t *testing.T) {
	status, body := get(t, "/pitch/R")
	assert.Equal(t, 200, status)

	var res model.PitchResponse
	assert.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, model.PitchResponse{Pitch: "R"}, res)
}

func TestPitchEndpointRejectsBadToken(t *testing.T) {
	status, body := get(t, "/pitch/H4")
	assert.Equal(t, 400, status)

	var res model.ErrorResponse
	assert.NoError(t, json.Unmarshal(body, &res))
	assert.NotEmpty(t, res.Error)
}

func TestEncodeRejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/encode", strings.NewReader("{"))
	w := httptest.NewRecorder()
	Router().ServeHTTP(w, req)
	assert.Equal(t, 400, w.Code)
}

func TestBurstCarriesOneSong(t *testing.T) {
	body := `{"layout":"burst","songs":[
		{"tempo_bpm":120,"time_signature":4,"notes":[{"pitch":"A4","duration":"4"}]},
		{"tempo_bpm":120,"time_signature":4,"notes":[{"pitch":"A4","duration":"4"}]}]}`
	req := httptest.NewRequest(http.MethodPost, "/encode", strings.NewReader(body))
	w := httptest.NewRecorder()
	Router().ServeHTTP(w, req)
	assert.Equal(t, 422, w.Code)
	assert.Contains(t, w.Body.String(), "burst layout carries one song")
}
