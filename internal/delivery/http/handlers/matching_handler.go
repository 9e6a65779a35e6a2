package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	matchingapi "github.com/carepool/screening-matching-service/internal/delivery/http/dto/matching"
	"github.com/carepool/screening-matching-service/internal/domain"
	matchingdto "github.com/carepool/screening-matching-service/internal/usecase/dto/matching"
	"github.com/carepool/screening-matching-service/internal/usecase/matching"
	"github.com/go-chi/chi/v5"
)

// MatchingHandler exposes the matching engine over HTTP.
type MatchingHandler struct {
	usecase matching.MatchingUsecase
}

func NewMatchingHandler(usecase matching.MatchingUsecase) *MatchingHandler {
	return &MatchingHandler{usecase: usecase}
}

// HandleRunMatching triggers a matching run. The body is an optional set of
// config overrides; an empty body runs with defaults.
func (h *MatchingHandler) HandleRunMatching(w http.ResponseWriter, r *http.Request) {
	var input matchingdto.RunMatchingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	output := h.usecase.RunMatching(r.Context(), &input)

	status := http.StatusOK
	if !output.Success {
		status = http.StatusInternalServerError
	}
	respondWithJSON(w, status, output)
}

// HandleGetExecution returns the audit record of a past run by its
// reference.
func (h *MatchingHandler) HandleGetExecution(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	if reference == "" {
		respondWithError(w, http.StatusBadRequest, "missing execution reference")
		return
	}

	execution, err := h.usecase.GetExecutionByReference(r.Context(), reference)
	if err != nil {
		if errors.Is(err, domain.ErrExecutionNotFound) {
			respondWithError(w, http.StatusNotFound, "execution not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, matchingapi.FromDomainExecution(execution))
}
