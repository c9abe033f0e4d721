package services

import (
	"context"
	"errors"
	"testing"
	"verinews/internal/models"
)

func TestKeywordSeed(t *testing.T) {
	cases := []struct {
		name     string
		keywords []string
		title    string
		want     string
	}{
		{"取前两个关键词", []string{"economy", "inflation", "rates"}, "标题", "economy inflation"},
		{"只有一个关键词", []string{"economy"}, "标题", "economy"},
		{"无关键词退回标题", nil, "Fed raises rates", "Fed raises rates"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := keywordSeed(tc.keywords, tc.title); got != tc.want {
				t.Errorf("keywordSeed = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCreateArticleValidation(t *testing.T) {
	// 校验失败发生在任何外部调用之前，零依赖即可触发
	svc := NewIngestService(nil, nil, nil, nil, nil, nil, 1)
	user := &models.User{ID: 1}

	cases := []struct {
		name  string
		input CreateArticleInput
		field string
	}{
		{"标题过短", CreateArticleInput{Title: "abc", URL: "https://example.com/a"}, "title"},
		// 中文标题按字符数计，"新闻头条" 四个字不够，虽然字节数早超过 5
		{"中文标题过短", CreateArticleInput{Title: "新闻头条", URL: "https://example.com/a"}, "title"},
		{"相对URL", CreateArticleInput{Title: "a valid title", URL: "/news/a"}, "url"},
		{"缺少scheme", CreateArticleInput{Title: "a valid title", URL: "example.com/a"}, "url"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateArticle(context.Background(), tc.input, user)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("期望 ValidationError, 得到 %v", err)
			}
			if validationErr.Field != tc.field {
				t.Errorf("校验字段错误: got %s, want %s", validationErr.Field, tc.field)
			}
		})
	}
}

func TestIngestHeadlineValidation(t *testing.T) {
	svc := NewIngestService(nil, nil, nil, nil, nil, nil, 1)

	err := svc.ingestHeadline(context.Background(), Headline{Title: "x", URL: "https://example.com/a"})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("期望 ValidationError, 得到 %v", err)
	}

	err = svc.ingestHeadline(context.Background(), Headline{Title: "a valid headline", URL: "not-a-url"})
	if !errors.As(err, &validationErr) || validationErr.Field != "url" {
		t.Fatalf("期望 url 校验错误, 得到 %v", err)
	}
}

func TestNewIngestServiceClampsCycleCap(t *testing.T) {
	svc := NewIngestService(nil, nil, nil, nil, nil, nil, 0)
	if svc.maxPerCycle != 1 {
		t.Errorf("每轮上限未兜底为 1: %d", svc.maxPerCycle)
	}
}
