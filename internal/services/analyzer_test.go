package services

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"verinews/internal/models"
)

func newAnalyzerServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze" {
			t.Errorf("请求路径错误: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}

func TestAnalyzeNormalizesRealLabel(t *testing.T) {
	server := newAnalyzerServer(t, `{"is_fake":"REAL","score":0.9,"summary":"摘要","keywords":["economy","policy"]}`)
	defer server.Close()

	result, err := NewAnalyzerService(server.URL).Analyze(context.Background(), "some article text")
	if err != nil {
		t.Fatalf("分析失败: %v", err)
	}
	// REAL 置信度 0.9 -> 伪造度 0.1
	if math.Abs(result.Score-0.1) > 1e-9 {
		t.Errorf("伪造度错误: got %f, want 0.1", result.Score)
	}
	if result.Label != models.LabelReal {
		t.Errorf("标签错误: %s", result.Label)
	}
	if len(result.Keywords) != 2 || result.Keywords[0] != "economy" {
		t.Errorf("关键词顺序错误: %v", result.Keywords)
	}
}

func TestAnalyzeNormalizesFakeLabel(t *testing.T) {
	server := newAnalyzerServer(t, `{"is_fake":"fake","score":0.8,"summary":"s","keywords":[]}`)
	defer server.Close()

	result, err := NewAnalyzerService(server.URL).Analyze(context.Background(), "text")
	if err != nil {
		t.Fatalf("分析失败: %v", err)
	}
	// FAKE 置信度就是伪造度，标签大小写不敏感
	if math.Abs(result.Score-0.8) > 1e-9 {
		t.Errorf("伪造度错误: got %f, want 0.8", result.Score)
	}
	if result.Label != models.LabelFake {
		t.Errorf("标签未归一化: %s", result.Label)
	}
}

func TestAnalyzeRejectsMalformedResponses(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"缺少标签", `{"score":0.9,"summary":"s","keywords":[]}`},
		{"未知标签", `{"is_fake":"MAYBE","score":0.9}`},
		{"缺少置信度", `{"is_fake":"FAKE","summary":"s"}`},
		{"置信度非数值", `{"is_fake":"FAKE","score":"high"}`},
		{"置信度超范围", `{"is_fake":"FAKE","score":1.5}`},
		{"非法JSON", `{"is_fake":`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := newAnalyzerServer(t, tc.body)
			defer server.Close()

			_, err := NewAnalyzerService(server.URL).Analyze(context.Background(), "text")
			if err == nil {
				t.Fatal("期望返回错误")
			}
			var analysisErr *AnalysisError
			if !errors.As(err, &analysisErr) {
				t.Errorf("错误类型不是 AnalysisError: %v", err)
			}
		})
	}
}

func TestAnalyzeRejectsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewAnalyzerService(server.URL).Analyze(context.Background(), "text")
	if err == nil {
		t.Fatal("期望返回错误")
	}
}

func TestFakenessScore(t *testing.T) {
	cases := []struct {
		label      string
		confidence float64
		want       float64
	}{
		{models.LabelReal, 0.9, 0.1},
		{models.LabelReal, 1.0, 0.0},
		{models.LabelFake, 0.7, 0.7},
		{models.LabelFake, 1.0, 1.0},
		{models.LabelFake, 1.2, 1.0}, // 越界截断
		{models.LabelReal, 1.2, 0.0},
	}
	for _, tc := range cases {
		got := FakenessScore(tc.label, tc.confidence)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("FakenessScore(%s, %f) = %f, want %f", tc.label, tc.confidence, got, tc.want)
		}
	}
}
