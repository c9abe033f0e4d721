package services

import (
	"testing"
	"time"
	"verinews/internal/models"
	"verinews/internal/search"
)

func TestMatchesFallback(t *testing.T) {
	article := &models.Article{
		Title:    "Central Bank Raises Rates",
		Keywords: []string{"Economy", "inflation"},
	}

	cases := []struct {
		needle string
		want   bool
	}{
		{"central bank", true}, // 标题大小写不敏感
		{"ECONOMY", false},     // needle 由调用方先转小写
		{"economy", true},      // 关键词命中
		{"inflation", true},
		{"weather", false},
	}
	for _, tc := range cases {
		if got := matchesFallback(article, tc.needle); got != tc.want {
			t.Errorf("matchesFallback(%q) = %v, want %v", tc.needle, got, tc.want)
		}
	}
}

func TestSearchUsesIndexWhenAvailable(t *testing.T) {
	idx, err := search.OpenMemory()
	if err != nil {
		t.Fatalf("创建内存索引失败: %v", err)
	}
	defer idx.Close()

	article := &models.Article{
		Aid:         "test0001",
		Title:       "Quantum computing milestone reached",
		Content:     "Researchers announced a quantum computing breakthrough.",
		Summary:     "Quantum milestone.",
		Keywords:    []string{"quantum", "research"},
		AiScore:     0.15,
		AiLabel:     models.LabelReal,
		SourceURL:   "https://example.com/quantum",
		SubmittedAt: time.Now(),
	}
	if err := idx.IndexArticle(article); err != nil {
		t.Fatalf("写入索引失败: %v", err)
	}

	svc := NewArticleService(idx)
	results := svc.Search("quantum", 10)
	if len(results) == 0 {
		t.Fatal("期望索引命中")
	}
	if results[0].Aid != "test0001" {
		t.Errorf("命中文档错误: %s", results[0].Aid)
	}

	// 空查询直接短路
	if got := svc.Search("   ", 10); got != nil {
		t.Errorf("空查询应返回 nil, 得到 %v", got)
	}
}
