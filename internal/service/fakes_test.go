package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/liliang-cn/citelens/internal/provider"
	"github.com/liliang-cn/citelens/internal/repository"
)

type fakeVision struct {
	replies []string
	errs    []error
	calls   []provider.VisionRequest
}

func (f *fakeVision) Describe(ctx context.Context, req provider.VisionRequest) (string, error) {
	i := len(f.calls)
	f.calls = append(f.calls, req)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i >= len(f.replies) {
		return "", fmt.Errorf("unexpected vision call %d", i+1)
	}
	return f.replies[i], nil
}

type fakeAnswerer struct {
	resp *provider.AnswerResponse
	err  error
	reqs []provider.AnswerRequest
}

func (f *fakeAnswerer) Answer(ctx context.Context, req provider.AnswerRequest) (*provider.AnswerResponse, error) {
	f.reqs = append(f.reqs, req)
	return f.resp, f.err
}

type fakeScreenshotter struct {
	shot *provider.Screenshot
	err  error
	urls []string
}

func (f *fakeScreenshotter) Capture(ctx context.Context, req provider.ScreenshotRequest) (*provider.Screenshot, error) {
	f.urls = append(f.urls, req.URL)
	return f.shot, f.err
}

func answerWith(content string, citations ...string) *provider.AnswerResponse {
	return &provider.AnswerResponse{
		Citations: citations,
		Choices:   []provider.AnswerChoice{{Message: provider.Message{Role: "assistant", Content: content}}},
	}
}

func newTestRepo(t *testing.T) *repository.SessionRepository {
	t.Helper()
	db, err := repository.NewDB(":memory:")
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return repository.NewSessionRepository(db)
}
