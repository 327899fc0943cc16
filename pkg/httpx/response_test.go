package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestWriteObject(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	WriteObject(c, "查询成功", map[string]int{"n": 1}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if resp := decode(t, w); !resp.Success || resp.Code != http.StatusOK || resp.Message != "查询成功" || resp.Data == nil {
		t.Fatalf("unexpected success envelope %+v", resp)
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	WriteObject(c, "", nil, errors.New("bad input"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if resp := decode(t, w); resp.Success || resp.Code != http.StatusBadRequest || resp.Message != "bad input" {
		t.Fatalf("unexpected failure envelope %+v", resp)
	}
}

func TestAbortStopsChain(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Abort(c, http.StatusInternalServerError, "internal server error")
	if !c.IsAborted() || w.Code != http.StatusInternalServerError {
		t.Fatalf("expected aborted 500, got aborted=%v code=%d", c.IsAborted(), w.Code)
	}
}
