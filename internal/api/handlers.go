package api

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"

	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/artifacts"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/quality"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/pkg/models"
)

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SystemText   string               `json:"system_text"`
		UserText     string               `json:"user_text"`
		DeepAnalysis bool                 `json:"deep_analysis"`
		Artifacts    []artifacts.Artifact `json:"artifacts"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := s.orchestrator.Analyze(r.Context(), quality.Request{
		SystemText:   req.SystemText,
		UserText:     req.UserText,
		DeepAnalysis: req.DeepAnalysis,
		Artifacts:    req.Artifacts,
	})
	if err != nil {
		if errors.Is(err, quality.ErrSystemPromptTooShort) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("analyze failed: %v", err)
		respondError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	roundScores(report)
	respondJSON(w, http.StatusOK, report)
}

// roundScores trims the wire representation to two decimals.
func roundScores(report *models.QualityReport) {
	report.OverallScore = round2(report.OverallScore)
	report.Scores.Alignment = round2(report.Scores.Alignment)
	report.Scores.Consistency = round2(report.Scores.Consistency)
	report.Scores.Verbosity = round2(report.Scores.Verbosity)
	report.Scores.Completeness = round2(report.Scores.Completeness)
	if report.Unified != nil {
		report.Unified.Score = round2(report.Unified.Score)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
