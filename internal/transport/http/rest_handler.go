package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"quiz-session-service/internal/app"
	"quiz-session-service/internal/domain"
)

// RESTHandler exposes the session operations over plain HTTP for clients
// that do not hold a websocket open.
type RESTHandler struct {
	service *app.SessionService
}

func NewRESTHandler(service *app.SessionService) *RESTHandler {
	return &RESTHandler{service: service}
}

type startSessionRequest struct {
	Email string `json:"email"`
}

type answerRequest struct {
	Answer string `json:"answer"`
}

type positionRequest struct {
	Index int `json:"index"`
}

// HandleStart creates or rejoins the session for an email and loads its
// questions.
func (h *RESTHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !ValidEmail(req.Email) {
		writeError(w, domain.ErrInvalidEmail)
		return
	}
	snapshot, err := h.service.Start(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snapshot)
}

// HandleSnapshot returns the session's read-only view.
func (h *RESTHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Snapshot(mux.Vars(r)["email"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// HandleAnswer records an answer for one question.
func (h *RESTHandler) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid answer payload"})
		return
	}
	snapshot, err := h.service.Answer(vars["email"], vars["questionID"], req.Answer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// HandleClearAnswer marks one question as unanswered.
func (h *RESTHandler) HandleClearAnswer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	snapshot, err := h.service.ClearAnswer(vars["email"], vars["questionID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// HandlePosition moves the session cursor.
func (h *RESTHandler) HandlePosition(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid position payload"})
		return
	}
	snapshot, err := h.service.GoTo(mux.Vars(r)["email"], req.Index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// HandleSubmit finalizes the session and returns the scored result.
func (h *RESTHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Submit(mux.Vars(r)["email"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleReset tears the session back to empty.
func (h *RESTHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Reset(mux.Vars(r)["email"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// NewRouter wires the REST surface, the websocket endpoint, and the health
// check onto one router.
func NewRouter(service *app.SessionService) *mux.Router {
	rest := NewRESTHandler(service)
	ws := NewWSHandler(service)

	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	router.HandleFunc("/ws", ws.ServeWS)
	router.HandleFunc("/sessions", rest.HandleStart).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{email}", rest.HandleSnapshot).Methods(http.MethodGet)
	router.HandleFunc("/sessions/{email}/answers/{questionID}", rest.HandleAnswer).Methods(http.MethodPut)
	router.HandleFunc("/sessions/{email}/answers/{questionID}", rest.HandleClearAnswer).Methods(http.MethodDelete)
	router.HandleFunc("/sessions/{email}/position", rest.HandlePosition).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{email}/submit", rest.HandleSubmit).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{email}/reset", rest.HandleReset).Methods(http.MethodPost)
	return router
}
