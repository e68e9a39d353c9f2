package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/liliang-cn/citelens/internal/domain"
	"github.com/liliang-cn/citelens/internal/render"
	"github.com/liliang-cn/citelens/internal/repository"
)

func pngData(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func seedAnnotated(t *testing.T, repo *repository.SessionRepository) (*domain.Session, *domain.Message) {
	t.Helper()
	session := &domain.Session{}
	if err := repo.Create(session); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.CreateMessage(&domain.Message{SessionID: session.ID, Role: domain.RoleUser, Content: "q"}); err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	shot := domain.NewImage(pngData(t, 40, 20), "image/png")
	msg := &domain.Message{
		SessionID: session.ID,
		Role:      domain.RoleAssistant,
		Content:   "Answer [1].",
		Citations: []string{"https://a.example"},
		CitationContents: map[int]*domain.ExtractedCitation{
			1: {
				URL:           "https://a.example",
				ScreenshotURL: shot.DataURL(),
				Highlights:    []domain.Highlight{{Text: "Answer", BBox: domain.BoundingBox{X0: 0.1, Y0: 0.1, X1: 0.5, Y1: 0.5}}},
			},
		},
	}
	if err := repo.CreateMessage(msg); err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	return session, msg
}

func TestSessionServiceBrowse(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewSessionService(repo)
	ctx := context.Background()
	session, _ := seedAnnotated(t, repo)

	sessions, err := svc.ListSessions(ctx, 0, -5)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != session.ID {
		t.Errorf("sessions = %+v", sessions)
	}

	msgs, err := svc.GetMessages(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetMessages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Role != domain.RoleUser {
		t.Errorf("messages = %+v", msgs)
	}
	if _, err := svc.GetMessages(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing session err = %v", err)
	}

	stats, err := svc.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	want := domain.Stats{TotalSessions: 1, TotalChats: 1, AnnotatedAnswers: 1}
	if *stats != want {
		t.Errorf("stats = %+v, want %+v", *stats, want)
	}

	if err := svc.DeleteSession(ctx, session.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if err := svc.DeleteSession(ctx, session.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestAnnotatedCitation(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewSessionService(repo)
	ctx := context.Background()
	session, msg := seedAnnotated(t, repo)

	data, err := svc.AnnotatedCitation(ctx, session.ID, msg.ID, 1, render.Options{})
	if err != nil {
		t.Fatalf("AnnotatedCitation: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Errorf("bounds = %v", b)
	}

	if _, err := svc.AnnotatedCitation(ctx, session.ID, msg.ID, 2, render.Options{}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing citation err = %v", err)
	}
	if _, err := svc.AnnotatedCitation(ctx, session.ID, "nope", 1, render.Options{}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing message err = %v", err)
	}
}
