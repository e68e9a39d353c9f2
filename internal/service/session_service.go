package service

import (
	"context"
	"fmt"

	"github.com/liliang-cn/citelens/internal/domain"
	"github.com/liliang-cn/citelens/internal/render"
	"github.com/liliang-cn/citelens/internal/repository"
)

// Default page size for session listings
const defaultSessionLimit = 50

// SessionService handles session browsing and admin operations
type SessionService struct {
	sessionRepo *repository.SessionRepository
}

// NewSessionService creates a new session service
func NewSessionService(sessionRepo *repository.SessionRepository) *SessionService {
	return &SessionService{sessionRepo: sessionRepo}
}

func (s *SessionService) ListSessions(ctx context.Context, limit, offset int) ([]*domain.Session, error) {
	if limit <= 0 {
		limit = defaultSessionLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.sessionRepo.List(limit, offset)
}

func (s *SessionService) GetMessages(ctx context.Context, sessionID string) ([]*domain.Message, error) {
	session, err := s.sessionRepo.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}
	return s.sessionRepo.GetMessages(sessionID)
}

func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	return s.sessionRepo.Delete(id)
}

// Stats

func (s *SessionService) GetStats(ctx context.Context) (*domain.Stats, error) {
	sessions, err := s.sessionRepo.CountSessions()
	if err != nil {
		return nil, err
	}
	chats, err := s.sessionRepo.CountChats()
	if err != nil {
		return nil, err
	}
	annotated, err := s.sessionRepo.CountAnnotated()
	if err != nil {
		return nil, err
	}

	return &domain.Stats{
		TotalSessions:    sessions,
		TotalChats:       chats,
		AnnotatedAnswers: annotated,
	}, nil
}

// AnnotatedCitation renders the stored screenshot of one citation with its
// highlights drawn on top, as PNG.
func (s *SessionService) AnnotatedCitation(ctx context.Context, sessionID, messageID string, index int, opts render.Options) ([]byte, error) {
	msg, err := s.sessionRepo.GetMessage(sessionID, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, domain.ErrNotFound
	}

	citation, ok := msg.CitationContents[index]
	if !ok || citation == nil || citation.ScreenshotURL == "" {
		return nil, fmt.Errorf("%w: citation %d has no screenshot", domain.ErrNotFound, index)
	}

	img, err := domain.ParseImage(citation.ScreenshotURL)
	if err != nil {
		return nil, fmt.Errorf("stored screenshot: %w", err)
	}

	boxes := make([]domain.BoundingBox, len(citation.Highlights))
	for i, h := range citation.Highlights {
		boxes[i] = h.BBox
	}
	return render.AnnotatePNG(img, boxes, opts)
}
