package server

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/book-expert/tts-api/internal/core"
)

const bytesPerMB = 1024 * 1024

// ttsResponse is the success body of POST /tts.
type ttsResponse struct {
	Success          bool    `json:"success"`
	Message          string  `json:"message"`
	AudioID          string  `json:"audio_id"`
	AudioURL         string  `json:"audio_url"`
	DurationEstimate float64 `json:"duration_estimate"`
	VoiceUsed        string  `json:"voice_used"`
	FileSize         int64   `json:"file_size"`
}

// batchResponse is the body of POST /tts/batch.
type batchResponse struct {
	BatchSuccess  bool                   `json:"batch_success"`
	TotalRequests int                    `json:"total_requests"`
	Successful    int                    `json:"successful"`
	Failed        int                    `json:"failed"`
	Results       []core.BatchItemResult `json:"results"`
}

// voiceInfo is one entry of GET /voices.
type voiceInfo struct {
	VoiceID     string `json:"voice_id"`
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	Description string `json:"description"`
	Language    string `json:"language"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"service":             ServiceName,
		"version":             ServiceVersion,
		"status":              "running",
		"supported_languages": s.registry.Languages(),
		"endpoints": map[string]string{
			"tts":     "/tts - Generate speech",
			"batch":   "/tts/batch - Generate speech in batch",
			"voices":  "/voices - List available voices",
			"audio":   "/audio/{audio_id} - Download audio",
			"health":  "/health - Health check",
			"stats":   "/stats - Service statistics",
			"metrics": "/metrics - Prometheus metrics",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":              "healthy",
		"timestamp":           time.Now().Format(time.RFC3339),
		"service":             ServiceName,
		"output_dir_writable": s.store.Writable(),
	})
}

func (s *Server) handleVoices(w http.ResponseWriter, _ *http.Request) {
	all := s.registry.List()
	infos := make([]voiceInfo, 0, len(all))

	for _, voice := range all {
		infos = append(infos, voiceInfo{
			VoiceID:     voice.ID,
			Name:        voice.Name,
			Gender:      voice.Gender,
			Description: voice.Description,
			Language:    voice.Language,
		})
	}

	s.writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req core.SynthesisRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())

		return
	}

	result, err := s.orchestrator.Synthesize(r.Context(), req)
	if err != nil {
		s.writeError(w, statusForError(err), err.Error())

		return
	}

	s.writeJSON(w, http.StatusOK, ttsResponse{
		Success:          true,
		Message:          "Audio generated successfully",
		AudioID:          result.AudioID,
		AudioURL:         result.AudioURL,
		DurationEstimate: result.DurationEstimate,
		VoiceUsed:        result.VoiceUsed,
		FileSize:         result.FileSize,
	})
}

func (s *Server) handleSynthesizeBatch(w http.ResponseWriter, r *http.Request) {
	var requests []core.SynthesisRequest

	err := json.NewDecoder(r.Body).Decode(&requests)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())

		return
	}

	result, err := s.orchestrator.SynthesizeBatch(r.Context(), requests)
	if err != nil {
		s.writeError(w, statusForError(err), err.Error())

		return
	}

	s.writeJSON(w, http.StatusOK, batchResponse{
		BatchSuccess:  true,
		TotalRequests: result.Total,
		Successful:    result.Successful,
		Failed:        result.Failed,
		Results:       result.Items,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	audioID := r.PathValue("id")

	art, err := s.store.Find(audioID)
	if err != nil {
		s.writeError(w, statusForError(err), err.Error())

		return
	}

	w.Header().Set(headerContentType, art.MediaType())
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "tts_"+art.ID+"."+art.Format),
	)

	http.ServeFile(w, r, art.Path)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	stats, err := s.store.Stats()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to get statistics: "+err.Error())

		return
	}

	totalMB := math.Round(float64(stats.TotalBytes)/bytesPerMB*100) / 100

	s.writeJSON(w, http.StatusOK, map[string]any{
		"total_audio_files":      stats.Count,
		"total_size_bytes":       stats.TotalBytes,
		"total_size_mb":          totalMB,
		"available_voices":       s.registry.Count(),
		"supported_languages":    s.registry.Languages(),
		"max_text_length":        s.orchestrator.MaxTextLength(),
		"cleanup_interval_hours": s.cleanupInterval.Hours(),
		"output_directory":       s.store.Dir(),
	})
}
