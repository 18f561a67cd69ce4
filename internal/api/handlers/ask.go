package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/maxoun/tg-bot-msc/internal/api"
	"github.com/maxoun/tg-bot-msc/internal/domain"
	"github.com/maxoun/tg-bot-msc/internal/telemetry"
)

type AskService interface {
	Ask(ctx context.Context, question string) (*domain.AnswerRecord, error)
	ChunkCount() int
}

type AskHandler struct {
	svc AskService
}

func NewAskHandler(svc AskService) *AskHandler {
	return &AskHandler{svc: svc}
}

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

type StatusResponse struct {
	Status string `json:"status"`
	Chunks int    `json:"chunks"`
}

func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		api.Error(w, http.StatusBadRequest, "question is required")
		return
	}

	record, err := h.svc.Ask(r.Context(), req.Question)
	if err != nil {
		log.Printf("ask: failed to answer question: %v", err)
		telemetry.CaptureError(r.Context(), err)
		// The cause stays in the logs; clients get a generic message.
		api.Error(w, api.DomainErrorToHTTP(err), "failed to answer question")
		return
	}

	sources := record.Sources
	if sources == nil {
		sources = []string{}
	}

	api.Success(w, http.StatusOK, AskResponse{Answer: record.Answer, Sources: sources})
}

func (h *AskHandler) Status(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, StatusResponse{Status: "ready", Chunks: h.svc.ChunkCount()})
}
