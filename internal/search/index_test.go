package search

import (
	"testing"
	"time"
	"verinews/internal/models"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := OpenMemory()
	if err != nil {
		t.Fatalf("创建内存索引失败: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func seedArticles(t *testing.T, idx *Index) {
	t.Helper()
	articles := []*models.Article{
		{
			Aid:         "aaaa1111",
			Title:       "Central bank raises interest rates",
			Content:     "The central bank announced a rate hike to fight inflation.",
			Summary:     "Rate hike announced.",
			Keywords:    []string{"economy", "inflation"},
			AiScore:     0.2,
			AiLabel:     models.LabelReal,
			SourceURL:   "https://example.com/rates",
			SubmittedAt: time.Now().Add(-2 * time.Hour),
		},
		{
			Aid:         "bbbb2222",
			Title:       "Miracle cure discovered overnight",
			Content:     "A viral post claims interest in a miracle cure keeps growing.",
			Summary:     "Dubious health claim.",
			Keywords:    []string{"health", "misinformation"},
			AiScore:     0.9,
			AiLabel:     models.LabelFake,
			SourceURL:   "https://example.com/cure",
			SubmittedAt: time.Now().Add(-1 * time.Hour),
		},
		{
			Aid:         "cccc3333",
			Title:       "Local inflation data released",
			Content:     "Monthly inflation figures came in below expectations.",
			Summary:     "Inflation slows.",
			Keywords:    []string{"economy", "statistics"},
			AiScore:     0.1,
			AiLabel:     models.LabelReal,
			SourceURL:   "https://example.com/cpi",
			SubmittedAt: time.Now(),
		},
	}
	for _, a := range articles {
		if err := idx.IndexArticle(a); err != nil {
			t.Fatalf("写入索引失败 %s: %v", a.Aid, err)
		}
	}
}

func TestSearchTitleOutranksContent(t *testing.T) {
	idx := newTestIndex(t)
	seedArticles(t, idx)

	// "interest" 在第一篇的标题里，在第二篇只出现在正文
	results, err := idx.Search("interest", 10)
	if err != nil {
		t.Fatalf("检索失败: %v", err)
	}
	if len(results) < 2 {
		t.Fatalf("期望至少 2 条命中, 得到 %d", len(results))
	}
	if results[0].Aid != "aaaa1111" {
		t.Errorf("标题命中未排在正文命中之前: %s", results[0].Aid)
	}
}

func TestSearchReturnsStoredFields(t *testing.T) {
	idx := newTestIndex(t)
	seedArticles(t, idx)

	results, err := idx.Search("inflation", 10)
	if err != nil {
		t.Fatalf("检索失败: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("期望命中")
	}
	for _, r := range results {
		if r.Title == "" || r.SourceURL == "" {
			t.Errorf("命中缺少存储字段: %+v", r)
		}
	}
}

func TestGetAndRemove(t *testing.T) {
	idx := newTestIndex(t)
	seedArticles(t, idx)

	doc, err := idx.Get("bbbb2222")
	if err != nil {
		t.Fatalf("取文档失败: %v", err)
	}
	if doc == nil || doc.Title != "Miracle cure discovered overnight" {
		t.Fatalf("文档内容错误: %+v", doc)
	}

	if err := idx.Remove("bbbb2222"); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	doc, err = idx.Get("bbbb2222")
	if err != nil {
		t.Fatalf("删除后取文档失败: %v", err)
	}
	if doc != nil {
		t.Error("删除后仍能取到文档")
	}
}

func TestMoreLikeThisExcludesSeed(t *testing.T) {
	idx := newTestIndex(t)
	seedArticles(t, idx)

	results, err := idx.MoreLikeThis("aaaa1111", 5)
	if err != nil {
		t.Fatalf("相似检索失败: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("期望找到相似文章")
	}
	for _, r := range results {
		if r.Aid == "aaaa1111" {
			t.Error("种子文档出现在自己的相似结果里")
		}
	}
	// 共享 economy/inflation 关键词的文章应该在前面
	if results[0].Aid != "cccc3333" {
		t.Errorf("相似度排序错误: %s", results[0].Aid)
	}
}

func TestMoreLikeThisMissingSeed(t *testing.T) {
	idx := newTestIndex(t)
	seedArticles(t, idx)

	results, err := idx.MoreLikeThis("missing1", 5)
	if err != nil {
		t.Fatalf("缺失种子不应报错: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("缺失种子应返回空: %d", len(results))
	}
}

func TestKeywordStats(t *testing.T) {
	idx := newTestIndex(t)
	seedArticles(t, idx)

	stats, err := idx.KeywordStats(10)
	if err != nil {
		t.Fatalf("关键词统计失败: %v", err)
	}
	counts := make(map[string]int, len(stats))
	for _, s := range stats {
		counts[s.Keyword] = s.Count
	}
	if counts["economy"] != 2 {
		t.Errorf("economy 计数错误: %d", counts["economy"])
	}
	if counts["health"] != 1 {
		t.Errorf("health 计数错误: %d", counts["health"])
	}
}

func TestRecommendReturnsRecent(t *testing.T) {
	idx := newTestIndex(t)
	seedArticles(t, idx)

	results, err := idx.Recommend(1, 2)
	if err != nil {
		t.Fatalf("推荐失败: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("期望 2 条推荐, 得到 %d", len(results))
	}
	if results[0].Aid != "cccc3333" {
		t.Errorf("推荐未按提交时间倒序: %s", results[0].Aid)
	}
}
