package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hristiyandudev55/flipcards-learner/internal/assets"
	"github.com/hristiyandudev55/flipcards-learner/internal/domain"
	"github.com/hristiyandudev55/flipcards-learner/internal/http/middleware"
)

func Test_fail_500_LogsAndBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	// header-only request id, as set by a proxy-facing middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-500")
		c.Set("logger", &logger)
		c.Next()
	})
	r.GET("/boom", func(c *gin.Context) {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "kaboom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.RequestID != "rid-500" || resp.Code != "internal_error" || resp.Detail != "kaboom" {
		t.Fatalf("unexpected body: %+v", resp)
	}
	if !strings.Contains(buf.String(), `"level":"error"`) || !strings.Contains(buf.String(), `"detail":"kaboom"`) {
		t.Fatalf("expected error log, got: %s", buf.String())
	}
}

func Test_Fail_404_UsesRequestIDFromMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/missing", func(c *gin.Context) {
		Fail(c, http.StatusNotFound, ErrCodeNotFound, "Card with ID 7 not found!")
	})

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set("X-Request-ID", "rid-404")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("json 404: %v", err)
	}
	if w.Code != http.StatusNotFound || er.RequestID != "rid-404" || er.Code != "not_found" || er.Detail != "Card with ID 7 not found!" {
		t.Fatalf("unexpected 404: %d %+v", w.Code, er)
	}
}

func Test_failStorage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var attached []error
	r.Use(func(c *gin.Context) {
		c.Next()
		for _, e := range c.Errors {
			attached = append(attached, e.Err)
		}
	})
	dbErr := errors.New("database is locked")
	r.DELETE("/cards/3", func(c *gin.Context) {
		failStorage(c, ErrCodeDeleteFailed, "deleting", fmt.Errorf("storage failure: %w", dbErr))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/cards/3", nil))

	var er ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &er)
	if w.Code != http.StatusInternalServerError || er.Code != ErrCodeDeleteFailed {
		t.Fatalf("unexpected response: %d %+v", w.Code, er)
	}
	if er.Detail != "An error occurred while deleting the card: storage failure: database is locked" {
		t.Fatalf("detail = %q", er.Detail)
	}
	if len(attached) != 1 || !errors.Is(attached[0], dbErr) {
		t.Fatalf("expected the storage error on the gin context, got %v", attached)
	}
}

func Test_cause(t *testing.T) {
	cases := []struct {
		err, sentinel error
		want          string
	}{
		{fmt.Errorf("%w: AccessDenied", assets.ErrUpload), assets.ErrUpload, "AccessDenied"},
		{fmt.Errorf("%w: image: unknown format", assets.ErrImageProcessing), assets.ErrImageProcessing, "image: unknown format"},
		{errors.New("plain failure"), assets.ErrUpload, "plain failure"},
	}
	for _, tc := range cases {
		if got := cause(tc.err, tc.sentinel); got != tc.want {
			t.Fatalf("cause(%v) = %q; want %q", tc.err, got, tc.want)
		}
	}
}

func Test_okCard_okCards(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	back := "A view into an array."
	r.GET("/one", func(c *gin.Context) {
		okCard(c, &domain.Card{ID: 4, FrontText: "Null back", Category: domain.CategoryGeneral})
	})
	r.GET("/none", func(c *gin.Context) { okCards(c, nil) })
	r.GET("/two", func(c *gin.Context) {
		okCards(c, []domain.Card{
			{ID: 1, FrontText: "What is a slice?", BackText: &back, Category: domain.CategoryGeneral},
			{ID: 2, FrontText: "Null back", Category: domain.CategoryOOP},
		})
	})

	get := func(path string) string {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s = %d", path, w.Code)
		}
		return strings.TrimSpace(w.Body.String())
	}

	if got := get("/one"); got != `{"id":4,"front_text":"Null back","back_text":"","category":"GENERAL"}` {
		t.Fatalf("okCard body = %s", got)
	}
	if got := get("/none"); got != "[]" {
		t.Fatalf("okCards(nil) body = %s", got)
	}
	var list []CardResponse
	if err := json.Unmarshal([]byte(get("/two")), &list); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(list) != 2 || list[0].BackText != back || list[1].BackText != "" || list[1].Category != "OOP" {
		t.Fatalf("unexpected list: %+v", list)
	}
}
