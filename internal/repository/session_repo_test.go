package repository

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/liliang-cn/citelens/internal/domain"
)

func newTestRepo(t *testing.T) *SessionRepository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "data", "citelens.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSessionRepository(db)
}

func TestSessionLifecycle(t *testing.T) {
	repo := newTestRepo(t)

	s := &domain.Session{}
	if err := repo.Create(s); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.ID == "" {
		t.Fatal("session ID not assigned")
	}

	got, err := repo.Get(s.ID)
	if err != nil || got == nil {
		t.Fatalf("Get: %v, %v", got, err)
	}

	missing, err := repo.Get("nope")
	if err != nil || missing != nil {
		t.Fatalf("Get(missing) = %v, %v", missing, err)
	}

	if err := repo.Update(s.ID); err != nil {
		t.Fatalf("Update: %v", err)
	}

	list, err := repo.List(10, 0)
	if err != nil || len(list) != 1 {
		t.Fatalf("List = %v, %v", list, err)
	}

	if err := repo.Delete(s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(s.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second Delete err = %v, want ErrNotFound", err)
	}
}

func TestMessagesRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	s := &domain.Session{}
	if err := repo.Create(s); err != nil {
		t.Fatal(err)
	}

	user := &domain.Message{SessionID: s.ID, Role: domain.RoleUser, Content: "How tall is it?"}
	assistant := &domain.Message{
		SessionID: s.ID,
		Role:      domain.RoleAssistant,
		Content:   "828 metres [1].",
		Citations: []string{"https://example.com/burj"},
		CitationContents: map[int]*domain.ExtractedCitation{
			1: {
				URL:             "https://example.com/burj",
				RelevantContent: "828 metres",
				Explanation:     "Found using vision model",
				ScreenshotURL:   "data:image/jpeg;base64,aGVsbG8=",
				Highlights: []domain.Highlight{
					{Text: "828 metres", BBox: domain.BoundingBox{X0: 0.25, Y0: 0.5, X1: 0.5, Y1: 0.75}},
				},
			},
		},
	}
	for _, m := range []*domain.Message{user, assistant} {
		if err := repo.CreateMessage(m); err != nil {
			t.Fatalf("CreateMessage: %v", err)
		}
	}

	msgs, err := repo.GetMessages(s.ID)
	if err != nil {
		t.Fatalf("GetMessages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Role != domain.RoleUser || msgs[1].Role != domain.RoleAssistant {
		t.Fatalf("messages out of order: %+v", msgs)
	}
	if msgs[0].Citations != nil || msgs[0].CitationContents != nil {
		t.Errorf("user message gained citations: %+v", msgs[0])
	}

	got := msgs[1].CitationContents[1]
	if got == nil || len(got.Highlights) != 1 || got.Highlights[0].BBox.X0 != 0.25 {
		t.Fatalf("citation contents = %+v", msgs[1].CitationContents)
	}
	if msgs[1].Citations[0] != "https://example.com/burj" {
		t.Errorf("citations = %v", msgs[1].Citations)
	}

	one, err := repo.GetMessage(s.ID, assistant.ID)
	if err != nil || one == nil || one.ID != assistant.ID {
		t.Fatalf("GetMessage = %+v, %v", one, err)
	}
	none, err := repo.GetMessage(s.ID, "missing")
	if err != nil || none != nil {
		t.Fatalf("GetMessage(missing) = %+v, %v", none, err)
	}

	sess, _ := repo.Get(s.ID)
	if sess.MessageCount != 2 {
		t.Errorf("message count = %d", sess.MessageCount)
	}

	chats, _ := repo.CountChats()
	annotated, _ := repo.CountAnnotated()
	sessions, _ := repo.CountSessions()
	if chats != 1 || annotated != 1 || sessions != 1 {
		t.Errorf("counts chats=%d annotated=%d sessions=%d", chats, annotated, sessions)
	}

	// messages go with their session
	if err := repo.Delete(s.ID); err != nil {
		t.Fatal(err)
	}
	msgs, err = repo.GetMessages(s.ID)
	if err != nil || len(msgs) != 0 {
		t.Errorf("messages after delete = %v, %v", msgs, err)
	}
}
