package service

import (
	"context"
	"time"

	"github.com/liliang-cn/citelens/internal/annotate"
	"github.com/liliang-cn/citelens/internal/config"
	"github.com/liliang-cn/citelens/internal/domain"
	"github.com/liliang-cn/citelens/internal/metrics"
	"github.com/liliang-cn/citelens/internal/provider"
	"github.com/liliang-cn/citelens/internal/repository"
	"go.uber.org/zap"
)

const (
	answerFailedMessage = "Sorry, I encountered an error. Please try again."
	visionExplanation   = "Found using vision model"
)

// ProgressFunc receives the loading state as a chat turn moves through its
// steps.
type ProgressFunc func(domain.LoadingState)

// ChatService answers questions and annotates the pages the answer cites
type ChatService struct {
	answerCfg   config.AnswerConfig
	pipelineCfg config.PipelineConfig
	sessionRepo *repository.SessionRepository
	answerer    provider.Answerer
	screenshots provider.Screenshotter
	locator     *LocateService
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(
	cfg *config.Config,
	sessionRepo *repository.SessionRepository,
	answerer provider.Answerer,
	screenshots provider.Screenshotter,
	locator *LocateService,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		answerCfg:   cfg.Answer,
		pipelineCfg: cfg.Pipeline,
		sessionRepo: sessionRepo,
		answerer:    answerer,
		screenshots: screenshots,
		locator:     locator,
		metrics:     m,
		logger:      logger,
	}
}

// Chat handles one chat turn and returns the stored assistant message
func (s *ChatService) Chat(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	return s.run(ctx, req, func(domain.LoadingState) {})
}

// ChatStream runs a chat turn in the background, reporting each step as a
// status chunk followed by the message and a final done chunk.
func (s *ChatService) ChatStream(ctx context.Context, req *domain.ChatRequest) (<-chan domain.StreamChunk, error) {
	if req.SessionID != "" {
		session, err := s.sessionRepo.Get(req.SessionID)
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, domain.ErrNotFound
		}
	}

	ch := make(chan domain.StreamChunk, 8)
	send := func(chunk domain.StreamChunk) {
		select {
		case ch <- chunk:
		case <-ctx.Done():
		}
	}

	go func() {
		defer close(ch)

		resp, err := s.run(ctx, req, func(state domain.LoadingState) {
			send(domain.StreamChunk{Type: "status", Status: &state})
		})
		if err != nil {
			send(domain.StreamChunk{Type: "error", Content: err.Error()})
			return
		}
		send(domain.StreamChunk{Type: "message", Message: resp.Message, Content: resp.Error})
		send(domain.StreamChunk{Type: "done", Content: resp.SessionID})
	}()

	return ch, nil
}

func (s *ChatService) run(ctx context.Context, req *domain.ChatRequest, progress ProgressFunc) (*domain.ChatResponse, error) {
	// Get or create session
	sessionID := req.SessionID
	var history []*domain.Message
	if sessionID == "" {
		session := &domain.Session{}
		if err := s.sessionRepo.Create(session); err != nil {
			return nil, err
		}
		sessionID = session.ID
	} else {
		session, err := s.sessionRepo.Get(sessionID)
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, domain.ErrNotFound
		}
		if history, err = s.sessionRepo.GetMessages(sessionID); err != nil {
			return nil, err
		}
	}

	// Save user message
	userMsg := &domain.Message{
		SessionID: sessionID,
		Role:      domain.RoleUser,
		Content:   req.Message,
	}
	if err := s.sessionRepo.CreateMessage(userMsg); err != nil {
		return nil, err
	}

	progress(domain.LoadingState{Status: domain.StatusThinking, Message: "Thinking..."})

	resp := &domain.ChatResponse{SessionID: sessionID}
	assistantMsg := &domain.Message{SessionID: sessionID, Role: domain.RoleAssistant}

	answer, err := s.answer(ctx, history, req.Message)
	if err != nil {
		s.logger.Error("Answer request failed", zap.String("session_id", sessionID), zap.Error(err))
		assistantMsg.Content = answerFailedMessage
		resp.Error = err.Error()
	} else {
		assistantMsg.Content = answer.Content()
		assistantMsg.Citations = answer.Citations
		assistantMsg.CitationContents = s.annotateCitations(ctx, assistantMsg.Content, answer.Citations, progress)
	}

	// Save assistant message
	if err := s.sessionRepo.CreateMessage(assistantMsg); err != nil {
		return nil, err
	}

	// Update session
	if err := s.sessionRepo.Update(sessionID); err != nil {
		return nil, err
	}

	progress(domain.LoadingState{Status: domain.StatusIdle})

	resp.Message = assistantMsg
	return resp, nil
}

func (s *ChatService) answer(ctx context.Context, history []*domain.Message, question string) (*provider.AnswerResponse, error) {
	messages := make([]provider.Message, 0, len(history)+2)
	if s.answerCfg.SystemPrompt != "" {
		messages = append(messages, provider.Message{Role: domain.RoleSystem, Content: s.answerCfg.SystemPrompt})
	}
	for _, m := range history {
		messages = append(messages, provider.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, provider.Message{Role: domain.RoleUser, Content: question})

	start := time.Now()
	resp, err := s.answerer.Answer(ctx, provider.AnswerRequest{
		Model:       s.answerCfg.Model,
		Messages:    messages,
		Temperature: s.answerCfg.Temperature,
		TopP:        s.answerCfg.TopP,
	})
	s.metrics.Observe(metrics.StageAnswer, start, err)
	return resp, err
}

// annotateCitations screenshots the cited pages one at a time and locates the
// cited sentence on each. Failures drop that citation only.
func (s *ChatService) annotateCitations(ctx context.Context, content string, citations []string, progress ProgressFunc) map[int]*domain.ExtractedCitation {
	markers := annotate.CitationMarkers(content, len(citations))
	if limit := s.pipelineCfg.MaxAnnotatedCitations; limit > 0 && len(markers) > limit {
		markers = markers[:limit]
	}
	if len(markers) == 0 {
		return nil
	}

	contents := make(map[int]*domain.ExtractedCitation)
	for _, marker := range markers {
		if ctx.Err() != nil {
			break
		}
		url := citations[marker-1]
		logger := s.logger.With(zap.Int("citation", marker), zap.String("url", url))

		progress(domain.LoadingState{Status: domain.StatusTakingScreenshot, Message: "Taking screenshot of " + url})
		start := time.Now()
		shot, err := s.screenshots.Capture(ctx, provider.ScreenshotRequest{URL: url})
		s.metrics.Observe(metrics.StageScreenshot, start, err)
		if err != nil {
			logger.Warn("Screenshot failed", zap.Error(err))
			continue
		}

		progress(domain.LoadingState{Status: domain.StatusProcessingCitations, Message: "Finding cited content"})
		img := shot.Image()
		cited := annotate.CitedText(content, marker)
		located := s.locator.LocateContent(ctx, img, cited, "")
		if !located.IsSuccess {
			logger.Warn("Citation not located",
				zap.String("kind", string(located.Kind)),
				zap.String("error", located.Error),
			)
			continue
		}

		highlights := make([]domain.Highlight, len(located.Data.Boxes))
		for i, box := range located.Data.Boxes {
			highlights[i] = domain.Highlight{Text: cited, BBox: box}
		}
		contents[marker] = &domain.ExtractedCitation{
			URL:             url,
			RelevantContent: cited,
			Explanation:     visionExplanation,
			ScreenshotURL:   img.DataURL(),
			Highlights:      highlights,
		}
		logger.Info("Citation annotated", zap.Int("highlights", len(highlights)))
	}

	if len(contents) == 0 {
		return nil
	}
	return contents
}
