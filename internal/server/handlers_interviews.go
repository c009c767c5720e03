package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/interview"
	"github.com/jonathan/interview-prep/internal/types"
)

// handleCreateInterview creates an interview record owned by the caller.
func (s *Server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req types.CreateInterviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validate(&req); err != nil {
		s.writeError(w, r, err)
		return
	}

	iv, err := s.store.CreateInterview(r.Context(), db.InterviewInput{
		UserID:          userID,
		Title:           req.Title,
		Technology:      req.Technology,
		ExperienceLevel: req.ExperienceLevel,
		DifficultyLevel: req.DifficultyLevel,
	})
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to create interview: %w", err))
		return
	}
	s.jsonResponse(w, http.StatusCreated, iv)
}

// handleListInterviews lists the caller's interviews, newest first.
func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	list, err := s.store.ListInterviews(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to list interviews: %w", err))
		return
	}
	if list == nil {
		list = []db.Interview{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"interviews": list, "count": len(list)})
}

// handleGetInterview returns one interview.
func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	iv, err := s.ownedInterview(r, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, iv)
}

// handleDeleteInterview deletes an interview with its messages and drops the live session.
func (s *Server) handleDeleteInterview(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	iv, err := s.ownedInterview(r, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	deleted, err := s.store.DeleteInterview(r.Context(), iv.ID)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to delete interview: %w", err))
		return
	}
	s.sessions.Delete(iv.ID)
	if !deleted {
		s.writeError(w, r, &ErrNotFound{Resource: "interview", ID: iv.ID.String()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStartInterview runs the greeting turn.
func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	iv, err := s.ownedInterview(r, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := s.session(r.Context(), iv)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.interviewer.Start(r.Context(), sess)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, turnResponse(res))
}

// handleSendMessage runs a follow-up turn and returns the interviewer's reply.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	sess, content, err := s.prepareReply(w, r, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.interviewer.Reply(r.Context(), sess, content)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, turnResponse(res))
}

// handleSendMessageStream runs a follow-up turn and reports it as server-sent
// events: a status event, then the message, then completion.
func (s *Server) handleSendMessageStream(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	sess, content, err := s.prepareReply(w, r, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// Reported before the stream opens so the client gets a plain 409.
	if sess.Busy() {
		s.writeError(w, r, interview.ErrTurnInProgress)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id := sess.ID.String()
	log := s.logger.With(zap.String("interview_id", id))

	if err := sse.WriteEvent(EventStatus, map[string]string{
		"status": "thinking",
		"phase":  string(sess.Context().Phase),
	}); err != nil {
		log.Debug("client went away before the turn started", zap.Error(err))
		return
	}

	res, err := s.interviewer.Reply(r.Context(), sess, content)
	if err != nil {
		log.Warn("streamed turn failed", zap.Error(err))
		sse.WriteError(HTTPStatus(err), publicMessage(err))
		sse.WriteComplete(id, "error")
		return
	}
	if err := sse.WriteEvent(EventMessage, turnResponse(res)); err != nil {
		log.Debug("failed to write message event", zap.Error(err))
		return
	}
	sse.WriteComplete(id, "ok")
}

// handleListMessages returns the persisted chat log of an interview.
func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	iv, err := s.ownedInterview(r, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	msgs, err := s.store.ListMessages(r.Context(), iv.ID)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to list messages: %w", err))
		return
	}
	if msgs == nil {
		msgs = []db.Message{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"messages": msgs, "count": len(msgs)})
}

// handleGetContext returns the in-memory context of the interview session,
// restoring it from the chat log if it is not live.
func (s *Server) handleGetContext(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	iv, err := s.ownedInterview(r, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := s.session(r.Context(), iv)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, contextResponse(sess))
}

// ownedInterview loads the {id} interview. Interviews of other users are reported as not found.
func (s *Server) ownedInterview(r *http.Request, userID string) (*db.Interview, error) {
	id, err := pathID(r, "interview")
	if err != nil {
		return nil, err
	}
	iv, err := s.store.GetInterview(r.Context(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to load interview: %w", err)
	}
	if iv == nil || iv.UserID != userID {
		return nil, &ErrNotFound{Resource: "interview", ID: id.String()}
	}
	return iv, nil
}

// prepareReply resolves the interview session and message body of a follow-up turn.
func (s *Server) prepareReply(w http.ResponseWriter, r *http.Request, userID string) (*interview.Session, string, error) {
	iv, err := s.ownedInterview(r, userID)
	if err != nil {
		return nil, "", err
	}
	var req types.SendMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return nil, "", err
	}
	if err := validate(&req); err != nil {
		return nil, "", err
	}
	sess, err := s.session(r.Context(), iv)
	if err != nil {
		return nil, "", err
	}
	return sess, req.Content, nil
}

// session returns the live session of iv, rebuilding its context from the
// persisted chat log when the session expired or the server restarted.
func (s *Server) session(ctx context.Context, iv *db.Interview) (*interview.Session, error) {
	sess, err := s.sessions.Get(iv.ID)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, interview.ErrSessionNotFound) {
		return nil, err
	}

	msgs, err := s.store.ListMessages(ctx, iv.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to restore interview session: %w", err)
	}
	entries := make([]interview.HistoryEntry, 0, len(msgs))
	for _, m := range msgs {
		entries = append(entries, interview.HistoryEntry{
			Role:      interview.Role(m.Role),
			Content:   m.Content,
			Timestamp: m.CreatedAt,
		})
	}
	meta := interview.Interview{
		Title:           iv.Title,
		Technology:      iv.Technology,
		ExperienceLevel: iv.ExperienceLevel,
		DifficultyLevel: iv.DifficultyLevel,
	}
	return s.sessions.GetOrCreate(iv.ID, meta, func() interview.Context {
		return interview.Replay(entries)
	}), nil
}

func turnResponse(res *interview.TurnResult) types.TurnResponse {
	return types.TurnResponse{
		Message:     res.Reply,
		Phase:       string(res.Phase),
		Question:    res.Question,
		Duplicate:   res.Duplicate,
		HasCodeTask: res.Filtered.HasCodeTask,
		HasFollowUp: res.Filtered.HasFollowUp,
	}
}

func contextResponse(sess *interview.Session) types.ContextResponse {
	c := sess.Context()
	history := make([]types.HistoryMessage, 0, len(c.History))
	for _, h := range c.History {
		history = append(history, types.HistoryMessage{
			Role:      string(h.Role),
			Content:   h.Content,
			Timestamp: h.Timestamp,
		})
	}
	asked := c.AskedQuestions
	if asked == nil {
		asked = []string{}
	}
	return types.ContextResponse{
		InterviewID:    sess.ID,
		Phase:          string(c.Phase),
		AskedQuestions: asked,
		Profile: types.ProfileResponse{
			Name:       c.Profile.Name,
			Experience: c.Profile.Experience,
			Strengths:  c.Profile.Strengths,
			Weaknesses: c.Profile.Weaknesses,
		},
		History: history,
		Busy:    sess.Busy(),
	}
}
