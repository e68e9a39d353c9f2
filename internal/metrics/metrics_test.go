package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/liliang-cn/citelens/internal/domain"
)

func TestObserveAndServe(t *testing.T) {
	m := New()
	m.Observe(StageAnswer, time.Now(), nil)
	m.Observe(StageVision, time.Now(), domain.ErrNoCoordinates)
	m.Observe(StageScreenshot, time.Now(), errors.New("timeout"))
	m.AddBoxes(2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	for _, want := range []string{
		`citelens_stage_requests_total{outcome="success",stage="answer"} 1`,
		`citelens_stage_requests_total{outcome="parse",stage="vision"} 1`,
		`citelens_stage_requests_total{outcome="upstream",stage="screenshot"} 1`,
		`citelens_bounding_boxes_total 2`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Observe(StageAnswer, time.Now(), nil)
	m.AddBoxes(3)
}
