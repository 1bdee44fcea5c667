package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type stubTranscriber struct {
	text string
	err  error
}

func (s stubTranscriber) Transcribe(_ context.Context, audio io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, audio)
	return s.text, s.err
}

type stubSpeaker struct {
	audio string
	err   error
}

func (s stubSpeaker) Speak(context.Context, string) (io.ReadCloser, error) {
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(strings.NewReader(s.audio)), nil
}

func TestTranscribeEndpoint(t *testing.T) {
	h := NewHandler(testConfig(t, nil), Dependencies{
		Transcriber: stubTranscriber{text: "how many employees per project"},
	})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/voice/transcribe", strings.NewReader("fake-audio")))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.Text != "how many employees per project" {
		t.Fatalf("text = %q", body.Text)
	}
}

func TestSpeakEndpoint(t *testing.T) {
	h := NewHandler(testConfig(t, nil), Dependencies{
		Speaker: stubSpeaker{audio: "RIFF-audio-bytes"},
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/voice/speak", strings.NewReader(`{"text":"two employees are present"}`))
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Content-Type"); got != "audio/wav" {
		t.Fatalf("Content-Type = %q", got)
	}
	if rr.Body.String() != "RIFF-audio-bytes" {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestSpeakEndpointRequiresText(t *testing.T) {
	h := NewHandler(testConfig(t, nil), Dependencies{
		Speaker: stubSpeaker{audio: "x"},
	})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/voice/speak", strings.NewReader(`{"text":" "}`)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	if code := errorCode(t, rr); code != "TEXT_REQUIRED" {
		t.Fatalf("error_code = %q", code)
	}
}
