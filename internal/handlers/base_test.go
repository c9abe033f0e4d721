package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"verinews/internal/services"

	"github.com/gin-gonic/gin"
)

func TestAbortErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"不存在", services.ErrNotFound, http.StatusNotFound},
		{"无权限", services.ErrPermission, http.StatusForbidden},
		{"重复来源", services.ErrDuplicate, http.StatusConflict},
		{"包装过的哨兵", errorsWrap(services.ErrNotFound), http.StatusNotFound},
		{"校验失败", &services.ValidationError{Field: "title", Reason: "太短"}, http.StatusBadRequest},
		{"分析失败", &services.AnalysisError{Err: errors.New("下游超时")}, http.StatusBadGateway},
		{"未知错误", errors.New("数据库炸了"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)

			AbortError(c, tc.err)
			if recorder.Code != tc.want {
				t.Errorf("状态码错误: got %d, want %d", recorder.Code, tc.want)
			}
		})
	}
}

func errorsWrap(err error) error {
	return &wrapped{err}
}

type wrapped struct{ inner error }

func (w *wrapped) Error() string { return "外层: " + w.inner.Error() }
func (w *wrapped) Unwrap() error { return w.inner }
