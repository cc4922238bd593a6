package errors

import (
	"bytes"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDocsError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DocsError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryTemplate, SeverityFatal, "base template could not be read"),
			expected: "template (fatal): base template could not be read: file not found",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestDocsError_WithContext(t *testing.T) {
	err := NotFound("package", "addon-kit").WithContext("route", "/packages/addon-kit/addon-kit.html")

	if err.Context["name"] != "addon-kit" {
		t.Errorf("Context[name] = %v, want addon-kit", err.Context["name"])
	}
	if err.Context["route"] != "/packages/addon-kit/addon-kit.html" {
		t.Errorf("Context[route] = %v", err.Context["route"])
	}
}

func TestIsCategory_FollowsWrapChain(t *testing.T) {
	inner := RenderFailed("guide", fs.ErrNotExist)
	outer := fmt.Errorf("generate: %w", inner)

	if !IsCategory(outer, CategoryRender) {
		t.Error("expected wrapped DocsError to be found")
	}
	if IsCategory(fmt.Errorf("plain"), CategoryRender) {
		t.Error("plain errors have no category")
	}
	if !stdErrors.Is(outer, fs.ErrNotExist) {
		t.Error("cause should remain reachable through errors.Is")
	}
	if GetCategory(fmt.Errorf("plain")) != CategoryInternal {
		t.Error("unclassified errors default to internal")
	}
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)

	tests := []struct {
		err  error
		code int
	}{
		{nil, 0},
		{fmt.Errorf("plain"), 1},
		{ValidationFailed("base_url", "must start with /"), 2},
		{NotFound("package", "x"), 3},
		{BrokenLinks(4), 4},
		{ConfigNotFound("sdkdocs.yaml"), 7},
		{TemplateMissing("base.html", fs.ErrNotExist), 11},
		{InternalError("boom", nil), 10},
	}
	for _, tt := range tests {
		if got := a.ExitCodeFor(tt.err); got != tt.code {
			t.Errorf("ExitCodeFor(%v) = %d, want %d", tt.err, got, tt.code)
		}
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, nil)
	tests := []struct {
		err  error
		want string
	}{
		{ConfigNotFound("x.yaml"), "configuration file not found (x.yaml)"},
		{NotFound("package", "x"), "not_found: package not found (x)"},
		{ValidationFailed("base_url", "must start with /"), "validation failed (base_url): must start with /"},
		{RenderFailed("dev-guide/a.html", fs.ErrNotExist), "render: page rendering failed (dev-guide/a.html): file does not exist"},
		{fmt.Errorf("plain"), "Error: plain"},
	}
	for _, tt := range tests {
		if got := quiet.FormatError(tt.err); got != tt.want {
			t.Errorf("FormatError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}

	verbose := NewCLIErrorAdapter(true, nil)
	if got := verbose.FormatError(ConfigNotFound("x.yaml")); got != "config (fatal): configuration file not found" {
		t.Errorf("verbose FormatError = %q", got)
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out bytes.Buffer
	code := -1
	a := NewCLIErrorAdapter(false, nil)
	a.out = &out
	a.exit = func(c int) { code = c }

	a.HandleError(nil)
	if code != -1 || out.Len() != 0 {
		t.Fatalf("nil error must not exit or print")
	}

	a.HandleError(BrokenLinks(2))
	if code != ExitBrokenLink {
		t.Errorf("exit code = %d, want %d", code, ExitBrokenLink)
	}
	if got := out.String(); got != "links: broken links found (2)\n" {
		t.Errorf("output = %q", got)
	}
}

func TestHTTPErrorAdapter_StatusCodeFor(t *testing.T) {
	a := NewHTTPErrorAdapter(nil)
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{NotFound("package", "nope"), http.StatusNotFound},
		{ValidationFailed("x", "bad"), http.StatusBadRequest},
		{RenderFailed("a.html", stdErrors.New("boom")), http.StatusUnprocessableEntity},
		{stdErrors.New("plain"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := a.StatusCodeFor(c.err); got != c.want {
			t.Errorf("StatusCodeFor(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestHTTPErrorAdapter_WriteErrorResponse(t *testing.T) {
	a := NewHTTPErrorAdapter(nil)
	rec := httptest.NewRecorder()
	a.WriteErrorResponse(rec, httptest.NewRequest(http.MethodGet, "/packages/nope/nope.html", nil), NotFound("package", "nope"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var payload HTTPErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error != "package not found" || payload.Category != CategoryNotFound || payload.Details["name"] != "nope" {
		t.Errorf("unexpected payload: %+v", payload)
	}
}
