package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ferretek/procurement/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testContext(headers map[string]string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	return c, recorder
}

func TestGetExpectedVersion(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    int
		wantOK  bool
		missing bool
	}{
		{name: "bare number", header: "3", want: 3, wantOK: true},
		{name: "zero", header: "0", want: 0, wantOK: true},
		{name: "quoted number", header: `"7"`, want: 7, wantOK: true},
		{name: "surrounding whitespace", header: " 2 ", want: 2, wantOK: true},
		{name: "missing", missing: true},
		{name: "empty", header: ""},
		{name: "not a number", header: "latest"},
		{name: "negative", header: "-1"},
		{name: "wildcard", header: "*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if !tt.missing {
				headers[IfMatchHeader] = tt.header
			}
			c, _ := testContext(headers)

			version, ok := getExpectedVersion(c)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, version)
			}
		})
	}
}

func TestGetActor(t *testing.T) {
	c, _ := testContext(map[string]string{ActorHeader: "  jane.doe  "})
	assert.Equal(t, "jane.doe", getActor(c))

	c, _ = testContext(nil)
	assert.Equal(t, "", getActor(c))
}

func TestHandleDomainError(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound},
		{"concurrency conflict", shared.ErrConcurrencyConflict, http.StatusConflict},
		{"invalid transition", shared.NewDomainError(shared.ErrCodeInvalidTransition, "no"), http.StatusUnprocessableEntity},
		{"validation", shared.NewDomainError(shared.ErrCodeValidation, "no"), http.StatusUnprocessableEntity},
		{"over receipt", shared.NewDomainError(shared.ErrCodeOverReceipt, "no"), http.StatusUnprocessableEntity},
		{"wrapped domain error", fmt.Errorf("load order: %w", shared.ErrNotFound), http.StatusNotFound},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, recorder := testContext(nil)
			h.HandleDomainError(c, tt.err)
			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}
