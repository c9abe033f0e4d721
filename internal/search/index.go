package search

import (
	"fmt"
	"strings"
	"time"
	"verinews/internal/models"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Index 文章全文索引适配层，以文章短 ID 为文档键
// 主存储（Postgres）始终是权威数据源，索引写入全部为尽力而为
type Index struct {
	index bleve.Index
}

// ArticleDoc 索引里的文档形态：分析字段打平，日期存 ISO-8601
type ArticleDoc struct {
	Aid         string    `json:"aid"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Summary     string    `json:"summary"`
	Keywords    []string  `json:"keywords"`
	AiScore     float64   `json:"ai_score"`
	AiLabel     string    `json:"ai_label"`
	SourceURL   string    `json:"source_url"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Result 检索命中
type Result struct {
	Aid       string              `json:"aid"`
	Score     float64             `json:"score"`
	Title     string              `json:"title"`
	Summary   string              `json:"summary"`
	SourceURL string              `json:"source_url"`
	AiScore   float64             `json:"ai_score"`
	Fragments map[string][]string `json:"highlight,omitempty"` // 高亮片段
}

// KeywordCount 关键词聚合条目
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// Open 打开或创建索引文件，已存在时直接复用（幂等）
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	return &Index{index: idx}, nil
}

// OpenMemory 内存索引，测试用
func OpenMemory() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create memory index: %w", err)
	}
	return &Index{index: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	// 英文分析器做词干归一
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = "en"

	// 关键词字段整词入索引，供精确聚合
	keywordFieldMapping := bleve.NewTextFieldMapping()
	keywordFieldMapping.Analyzer = keyword.Name

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("title", textFieldMapping)
	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	docMapping.AddFieldMappingsAt("summary", textFieldMapping)
	docMapping.AddFieldMappingsAt("keywords", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("source_url", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("ai_label", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("ai_score", bleve.NewNumericFieldMapping())
	docMapping.AddFieldMappingsAt("submitted_at", bleve.NewDateTimeFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}

// Close closes the index
func (i *Index) Close() error {
	return i.index.Close()
}

// ToDoc 文章转索引文档
func ToDoc(a *models.Article) *ArticleDoc {
	return &ArticleDoc{
		Aid:         a.Aid,
		Title:       a.Title,
		Content:     a.Content,
		Summary:     a.Summary,
		Keywords:    a.Keywords,
		AiScore:     a.AiScore,
		AiLabel:     a.AiLabel,
		SourceURL:   a.SourceURL,
		SubmittedAt: a.SubmittedAt,
	}
}

// IndexArticle 写入或覆盖一篇文章
func (i *Index) IndexArticle(a *models.Article) error {
	return i.index.Index(a.Aid, ToDoc(a))
}

// Remove 从索引删除
func (i *Index) Remove(aid string) error {
	return i.index.Delete(aid)
}

// Get 按短 ID 取回索引文档
func (i *Index) Get(aid string) (*Result, error) {
	req := bleve.NewSearchRequestOptions(query.NewDocIDQuery([]string{aid}), 1, 0, false)
	req.Fields = []string{"title", "summary", "source_url", "ai_score"}

	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", aid, err)
	}
	if len(res.Hits) == 0 {
		return nil, nil
	}
	return hitToResult(res.Hits[0]), nil
}

// Search 加权多字段检索：标题权重最高，其次摘要，然后正文和关键词
// 带一级模糊匹配（容拼写错误）和 HTML 高亮
func (i *Index) Search(queryStr string, size int) ([]*Result, error) {
	if size <= 0 {
		size = 10
	}

	fields := []struct {
		name  string
		boost float64
	}{
		{"title", 3.0},
		{"summary", 2.0},
		{"content", 1.0},
		{"keywords", 1.0},
	}

	var subQueries []query.Query
	for _, f := range fields {
		mq := bleve.NewMatchQuery(queryStr)
		mq.SetField(f.name)
		mq.SetBoost(f.boost)
		mq.SetFuzziness(1)
		subQueries = append(subQueries, mq)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(subQueries...), size, 0, false)
	req.Highlight = bleve.NewHighlightWithStyle("html")
	req.Highlight.AddField("title")
	req.Highlight.AddField("summary")
	req.Highlight.AddField("content")
	req.Fields = []string{"title", "summary", "source_url", "ai_score"}

	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return hitsToResults(res), nil
}

// MoreLikeThis 相似文章：用目标文档自己的关键词和标题词构造查询，排除目标本身
func (i *Index) MoreLikeThis(aid string, size int) ([]*Result, error) {
	if size <= 0 {
		size = 5
	}

	// 先取回种子文档的可检索字段
	seedReq := bleve.NewSearchRequestOptions(query.NewDocIDQuery([]string{aid}), 1, 0, false)
	seedReq.Fields = []string{"title", "keywords"}
	seedRes, err := i.index.Search(seedReq)
	if err != nil {
		return nil, fmt.Errorf("load seed %s: %w", aid, err)
	}
	if len(seedRes.Hits) == 0 {
		return nil, nil
	}

	seed := seedRes.Hits[0]
	var terms []string
	if title, ok := seed.Fields["title"].(string); ok {
		terms = append(terms, strings.Fields(title)...)
	}
	switch kw := seed.Fields["keywords"].(type) {
	case string:
		terms = append(terms, kw)
	case []interface{}:
		for _, v := range kw {
			if s, ok := v.(string); ok {
				terms = append(terms, s)
			}
		}
	}
	if len(terms) == 0 {
		return nil, nil
	}

	var shoulds []query.Query
	for _, term := range terms {
		mq := bleve.NewMatchQuery(term)
		shoulds = append(shoulds, mq)
	}

	boolQuery := bleve.NewBooleanQuery()
	boolQuery.AddShould(shoulds...)
	boolQuery.AddMustNot(query.NewDocIDQuery([]string{aid}))

	req := bleve.NewSearchRequestOptions(boolQuery, size, 0, false)
	req.Fields = []string{"title", "summary", "source_url", "ai_score"}

	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("more like this: %w", err)
	}
	return hitsToResults(res), nil
}

// Recommend 推荐接口目前是占位实现：按提交时间取最近的文章。
// 真正的个性化（按用户兴趣分类加权）不在当前范围内，签名先留好。
func (i *Index) Recommend(userID uint, size int) ([]*Result, error) {
	if size <= 0 {
		size = 10
	}

	req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), size, 0, false)
	req.SortBy([]string{"-submitted_at"})
	req.Fields = []string{"title", "summary", "source_url", "ai_score"}

	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}
	return hitsToResults(res), nil
}

// KeywordStats 关键词热度聚合（terms facet）
func (i *Index) KeywordStats(size int) ([]KeywordCount, error) {
	if size <= 0 {
		size = 10
	}

	req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), 0, 0, false)
	req.AddFacet("popular_keywords", bleve.NewFacetRequest("keywords", size))

	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("keyword stats: %w", err)
	}

	facet, ok := res.Facets["popular_keywords"]
	if !ok {
		return nil, nil
	}

	var stats []KeywordCount
	for _, term := range facet.Terms.Terms() {
		stats = append(stats, KeywordCount{Keyword: term.Term, Count: term.Count})
	}
	return stats, nil
}

// Count 索引内文档数
func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}

func hitsToResults(res *bleve.SearchResult) []*Result {
	results := make([]*Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		results = append(results, hitToResult(hit))
	}
	return results
}

func hitToResult(hit *search.DocumentMatch) *Result {
	r := &Result{
		Aid:       hit.ID,
		Score:     hit.Score,
		Fragments: hit.Fragments,
	}
	if title, ok := hit.Fields["title"].(string); ok {
		r.Title = title
	}
	if summary, ok := hit.Fields["summary"].(string); ok {
		r.Summary = summary
	}
	if u, ok := hit.Fields["source_url"].(string); ok {
		r.SourceURL = u
	}
	if score, ok := hit.Fields["ai_score"].(float64); ok {
		r.AiScore = score
	}
	return r
}
