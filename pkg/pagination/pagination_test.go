package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, target string) Params {
	t.Helper()
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
	return FromContext(c)
}

func TestFromContext_Defaults(t *testing.T) {
	p := paramsFor(t, "/admin/users")
	if p.Page != 1 || p.Limit != 10 {
		t.Errorf("expected page 1 limit 10, got %+v", p)
	}
	if p.Offset() != 0 {
		t.Errorf("expected offset 0, got %d", p.Offset())
	}
}

func TestFromContext_CustomValues(t *testing.T) {
	p := paramsFor(t, "/admin/users?page=3&limit=25")
	if p.Page != 3 || p.Limit != 25 {
		t.Errorf("expected page 3 limit 25, got %+v", p)
	}
	if p.Offset() != 50 {
		t.Errorf("expected offset 50, got %d", p.Offset())
	}
	if p.SQL() != "LIMIT 25 OFFSET 50" {
		t.Errorf("unexpected SQL: %s", p.SQL())
	}
}

func TestFromContext_InvalidValues(t *testing.T) {
	tests := []string{
		"/?page=abc&limit=xyz",
		"/?page=0&limit=0",
		"/?page=-2&limit=-5",
	}
	for _, target := range tests {
		p := paramsFor(t, target)
		if p.Page != DefaultPage || p.Limit != DefaultLimit {
			t.Errorf("%s: expected defaults, got %+v", target, p)
		}
	}
}

func TestFromContext_MaxLimit(t *testing.T) {
	p := paramsFor(t, "/?limit=5000")
	if p.Limit != MaxLimit {
		t.Errorf("expected limit capped at %d, got %d", MaxLimit, p.Limit)
	}
}

func TestNew_Clamps(t *testing.T) {
	tests := []struct {
		page, limit int
		want        Params
	}{
		{0, 0, Params{Page: DefaultPage, Limit: DefaultLimit}},
		{-3, 20, Params{Page: DefaultPage, Limit: 20}},
		{4, -1, Params{Page: 4, Limit: DefaultLimit}},
		{2, MaxLimit + 1, Params{Page: 2, Limit: MaxLimit}},
		{5, 50, Params{Page: 5, Limit: 50}},
	}
	for _, tt := range tests {
		got := New(tt.page, tt.limit)
		if got != tt.want {
			t.Errorf("New(%d, %d) = %+v, want %+v", tt.page, tt.limit, got, tt.want)
		}
		if got.Offset() < 0 {
			t.Errorf("New(%d, %d) gives negative offset %d", tt.page, tt.limit, got.Offset())
		}
	}
}

func TestTotalPages(t *testing.T) {
	p := Params{Page: 1, Limit: 10}
	cases := map[int]int{0: 0, 1: 1, 10: 1, 11: 2, 95: 10}
	for total, want := range cases {
		if got := p.TotalPages(total); got != want {
			t.Errorf("TotalPages(%d) = %d, want %d", total, got, want)
		}
	}
	if !p.HasNext(11) {
		t.Error("expected next page for 11 rows")
	}
	if p.HasNext(10) {
		t.Error("expected no next page for 10 rows")
	}
}
