package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"verinews/internal/models"
)

// AnalysisResult 分析服务输出，已归一化为"伪造度"语义
// 仅作为中间值嵌入文章，不单独持久化
type AnalysisResult struct {
	Score    float64  // 0~1，越高越可能是伪造内容
	Label    string   // models.LabelFake / models.LabelReal
	Summary  string
	Keywords []string // 按提取权重排序
}

// AnalyzerService 内容分析服务客户端（假新闻分类 + 摘要 + 关键词提取）
type AnalyzerService struct {
	baseURL string
	client  *http.Client
}

// NewAnalyzerService 创建分析服务客户端，启动时构造一次并注入流水线
func NewAnalyzerService(baseURL string) *AnalyzerService {
	return &AnalyzerService{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 60 * time.Second, // 模型推理较慢，给足时间
		},
	}
}

// analyzeResponse 服务端原始返回
type analyzeResponse struct {
	IsFake   *string         `json:"is_fake"` // 分类标签
	Score    json.RawMessage `json:"score"`   // 置信度，手动解析以区分缺失和非数值
	Summary  string          `json:"summary"`
	Keywords []string        `json:"keywords"`
}

// Analyze 提交正文做分析。标签或置信度缺失/非法时返回 AnalysisError，
// 绝不默默填默认值——没有完整分析结果的文章不允许入库。
func (s *AnalyzerService) Analyze(ctx context.Context, text string) (*AnalysisResult, error) {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, &AnalysisError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/analyze", bytes.NewReader(payload))
	if err != nil {
		return nil, &AnalysisError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &AnalysisError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &AnalysisError{Err: fmt.Errorf("HTTP 状态码 %d", resp.StatusCode)}
	}

	var raw analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, &AnalysisError{Err: fmt.Errorf("解析响应失败: %w", err)}
	}

	if raw.IsFake == nil {
		return nil, &AnalysisError{Err: fmt.Errorf("响应缺少分类标签")}
	}

	label, err := normalizeLabel(*raw.IsFake)
	if err != nil {
		return nil, &AnalysisError{Err: err}
	}

	var confidence float64
	if len(raw.Score) == 0 {
		return nil, &AnalysisError{Err: fmt.Errorf("响应缺少置信度")}
	}
	if err := json.Unmarshal(raw.Score, &confidence); err != nil {
		return nil, &AnalysisError{Err: fmt.Errorf("置信度不是数值: %s", string(raw.Score))}
	}
	if confidence < 0 || confidence > 1 {
		return nil, &AnalysisError{Err: fmt.Errorf("置信度超出 [0,1]: %f", confidence)}
	}

	return &AnalysisResult{
		Score:    FakenessScore(label, confidence),
		Label:    label,
		Summary:  raw.Summary,
		Keywords: raw.Keywords,
	}, nil
}

// FakenessScore 把"对某一类别的置信度"归一化为伪造度：
// 分类器报告 REAL 时，伪造度 = 1 - 置信度；报告 FAKE 时就是置信度本身。
// 原始置信度对极性是有歧义的，这个变换保证分数随伪造可能性单调递增。
func FakenessScore(label string, confidence float64) float64 {
	score := confidence
	if label == models.LabelReal {
		score = 1 - confidence
	}
	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func normalizeLabel(raw string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case models.LabelFake:
		return models.LabelFake, nil
	case models.LabelReal:
		return models.LabelReal, nil
	default:
		return "", fmt.Errorf("未知分类标签: %q", raw)
	}
}
