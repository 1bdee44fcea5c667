package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// Voice endpoints exist only at this boundary: the pipeline itself never
// sees audio. Both return NOT_CONFIGURED when no implementation is wired.

func handleTranscribe(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Transcriber == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "VOICE_NOT_CONFIGURED", "no transcriber is configured", false, nil)
		return
	}
	if err := requireRole(r, "analyst"); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	text, err := deps.Transcriber.Transcribe(r.Context(), r.Body)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadGateway, "TRANSCRIPTION_FAILED", "failed to transcribe audio", true, map[string]any{"details": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"text": text})
}

type speakRequest struct {
	Text string `json:"text"`
}

func handleSpeak(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Speaker == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "VOICE_NOT_CONFIGURED", "no speaker is configured", false, nil)
		return
	}
	if err := requireRole(r, "analyst"); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	var request speakRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid speak request body", false, map[string]any{"details": err.Error()})
		return
	}
	if strings.TrimSpace(request.Text) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "TEXT_REQUIRED", "text is required", false, nil)
		return
	}

	audio, err := deps.Speaker.Speak(r.Context(), request.Text)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadGateway, "SPEECH_FAILED", "failed to synthesize speech", true, map[string]any{"details": err.Error()})
		return
	}
	defer func() { _ = audio.Close() }()

	w.Header().Set("Content-Type", "audio/wav")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, audio)
}
