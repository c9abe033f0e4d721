package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"verinews/internal/models"
)

func TestSortThreads(t *testing.T) {
	threads := []models.DiscussionThread{
		{Title: "b", Comments: 5, Upvotes: 1},
		{Title: "c", Comments: 2, Upvotes: 100},
		{Title: "a", Comments: 5, Upvotes: 9},
	}
	sortThreads(threads)

	// 评论数优先，赞数只在评论数相同时起作用
	want := []string{"a", "b", "c"}
	for i, w := range want {
		if threads[i].Title != w {
			t.Fatalf("排序错误: 位置 %d 是 %s, 期望 %s", i, threads[i].Title, w)
		}
	}
}

func TestKeywordQuery(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Breaking: Fed raises rates again!", "Breaking Fed raises rates again"},
		{"one two three four five six seven eight nine", "one two three four five six seven"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := keywordQuery(tc.title); got != tc.want {
			t.Errorf("keywordQuery(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func listingBody(posts ...redditPost) string {
	var listing redditListing
	for _, p := range posts {
		listing.Data.Children = append(listing.Data.Children, struct {
			Data redditPost `json:"data"`
		}{Data: p})
	}
	raw, _ := json.Marshal(listing)
	return string(raw)
}

func TestFindDiscussionsKeywordFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// 子版块内 url 精确匹配一律空手而归
		if strings.HasPrefix(r.URL.Path, "/r/") {
			fmt.Fprint(w, listingBody())
			return
		}
		// 站内关键词搜索返回两条，其中一条评论数低于门槛
		if r.URL.Path == "/search.json" {
			fmt.Fprint(w, listingBody(
				redditPost{ID: "aa1", Title: "hot take", Permalink: "/r/news/comments/aa1/x", Score: 10, NumComments: 12, Subreddit: "news"},
				redditPost{ID: "aa2", Title: "quiet post", Permalink: "/r/news/comments/aa2/y", Score: 99, NumComments: 1, Subreddit: "news"},
			))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	svc := NewRedditService(server.URL, server.URL+"/html", "test-agent")
	threads := svc.FindDiscussions(context.Background(), DiscussionSeed{
		Query: "fed raises rates",
		URL:   "https://example.com/news/rates",
	})

	// 冷门帖被评论数门槛过滤
	if len(threads) != 1 {
		t.Fatalf("期望 1 条讨论, 得到 %d", len(threads))
	}
	if threads[0].Source != models.DiscussionSourceKeywordMatch {
		t.Errorf("来源标记错误: %s", threads[0].Source)
	}
	if threads[0].URL != "https://www.reddit.com/r/news/comments/aa1/x" {
		t.Errorf("链接拼接错误: %s", threads[0].URL)
	}
}

func TestFindDiscussionsURLMatchWins(t *testing.T) {
	target := "https://example.com/news/rates"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasPrefix(r.URL.Path, "/r/") {
			fmt.Fprint(w, listingBody(
				// URL 一致的留下，不一致的被精确比对剔除
				redditPost{ID: "m1", Title: "match", URL: target + "?utm_source=x", Permalink: "/r/news/comments/m1/x", Score: 3, NumComments: 7, Subreddit: "news"},
				redditPost{ID: "m2", Title: "other", URL: "https://example.com/other", Permalink: "/r/news/comments/m2/y", Score: 8, NumComments: 20, Subreddit: "news"},
			))
			return
		}
		// url 匹配已有结果，关键词搜索不该被调用
		t.Errorf("不应该触发降级策略: %s", r.URL.Path)
		http.NotFound(w, r)
	}))
	defer server.Close()

	svc := NewRedditService(server.URL, server.URL+"/html", "test-agent")
	threads := svc.FindDiscussions(context.Background(), DiscussionSeed{Query: "whatever", URL: target})

	if len(threads) == 0 {
		t.Fatal("期望 url 精确匹配命中")
	}
	for _, thread := range threads {
		if thread.Source != models.DiscussionSourceURLMatch {
			t.Errorf("来源标记错误: %s", thread.Source)
		}
		if thread.Title != "match" {
			t.Errorf("URL 不一致的帖子未被剔除: %s", thread.Title)
		}
	}
}

func TestFindDiscussionsWebSearchLastResort(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/r/"), r.URL.Path == "/search.json":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, listingBody())
		case r.URL.Path == "/html":
			// 站外搜索结果页：两个链接指向同一帖子，去重后只剩一个 id
			fmt.Fprint(w, `<html><body>
				<a href="https://www.reddit.com/r/news/comments/zz9/title/">hit</a>
				<a href="https://www.reddit.com/r/news/comments/zz9/title/?ref=share">dup</a>
				<a href="https://unrelated.org/page">noise</a>
			</body></html>`)
		case r.URL.Path == "/api/info.json":
			if got := r.URL.Query().Get("id"); got != "t3_zz9" {
				t.Errorf("fullname 拼接错误: %s", got)
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, listingBody(
				redditPost{ID: "zz9", Title: "found via web", Permalink: "/r/news/comments/zz9/title", Score: 42, NumComments: 15, Subreddit: "news"},
			))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	svc := NewRedditService(server.URL, server.URL+"/html", "test-agent")
	threads := svc.FindDiscussions(context.Background(), DiscussionSeed{Query: "obscure local story", URL: "https://example.com/x"})

	if len(threads) != 1 {
		t.Fatalf("期望 1 条讨论, 得到 %d", len(threads))
	}
	if threads[0].Source != models.DiscussionSourceWebSearch {
		t.Errorf("来源标记错误: %s", threads[0].Source)
	}
}

func TestFindDiscussionsEmptyIsLegal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/html":
			fmt.Fprint(w, `<html><body></body></html>`)
		default:
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, listingBody())
		}
	}))
	defer server.Close()

	svc := NewRedditService(server.URL, server.URL+"/html", "test-agent")
	threads := svc.FindDiscussions(context.Background(), DiscussionSeed{Query: "nobody talks about this", URL: ""})
	if len(threads) != 0 {
		t.Fatalf("期望空结果, 得到 %d", len(threads))
	}
}
