package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wanderlab/kotoba/pkg/language"
	"github.com/wanderlab/kotoba/pkg/translate"
)

// translateRequest is the JSON body of POST /api/translate.
type translateRequest struct {
	Text string `json:"text"`
	From string `json:"from"`
	To   string `json:"to"`
}

// translateResponse is the JSON answer for a successful translation.
type translateResponse struct {
	Success    bool   `json:"success"`
	Original   string `json:"original"`
	Translated string `json:"translated"`
	From       string `json:"from"`
	To         string `json:"to"`
	Engine     string `json:"engine"`
	Tokens     int    `json:"tokens"`
}

// errorResponse is the JSON answer for any failure.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// handleTranslate translates one text over the provider chain.
func (s *HTTPServer) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.New().String()
	log := s.logger.WithFields(logrus.Fields{
		"request_id": requestID,
	})

	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Malformed translate request body")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "text is required"})
		return
	}

	from, ok := language.Resolve(req.From)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown source language: " + req.From})
		return
	}
	to, ok := language.Resolve(req.To)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown target language: " + req.To})
		return
	}

	log = log.WithFields(logrus.Fields{
		"from": from,
		"to":   to,
	})
	log.Info("Handling translate request")

	result, err := s.translator.Translate(r.Context(), req.Text, from, to)
	if err != nil {
		log.WithError(err).Error("Translation failed")
		status := http.StatusInternalServerError
		var exhausted *translate.ExhaustedError
		if errors.As(err, &exhausted) {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, errorResponse{Error: "translation failed"})
		return
	}

	log.WithFields(logrus.Fields{
		"engine": result.Engine,
		"tokens": result.Tokens,
	}).Info("Translate request completed")

	writeJSON(w, http.StatusOK, translateResponse{
		Success:    true,
		Original:   req.Text,
		Translated: result.Text,
		From:       string(from),
		To:         string(to),
		Engine:     result.Engine,
		Tokens:     result.Tokens,
	})
}

// languageEntry describes one supported language in the catalog answer.
type languageEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// handleLanguages lists the supported language catalog.
func (s *HTTPServer) handleLanguages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	infos := language.All()
	entries := make([]languageEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, languageEntry{
			Code: string(info.Code),
			Name: info.Name,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"languages": entries,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
