package services

import (
	"errors"
	"fmt"
)

// 服务层统一错误分类，handler 按类别映射状态码
var (
	ErrNotFound   = errors.New("资源不存在")
	ErrPermission = errors.New("没有权限执行该操作")
	ErrDuplicate  = errors.New("相同来源的文章已存在")
)

// ValidationError 输入校验失败，发生在任何外部调用之前
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("字段 %s 无效: %s", e.Field, e.Reason)
}

// AnalysisError 内容分析服务不可用或返回非法结果
// 分析失败的文章一律放弃入库，不允许用兜底分数凑数
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("内容分析失败: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}
