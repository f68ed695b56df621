package ratelim

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func TestLimitAllowsBurstThenRejects(t *testing.T) {
	rl := NewRateLimiter()

	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	got := map[int]int{}
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
		req.RemoteAddr = "198.51.100.7:1234"
		handler(rec, req, nil)
		got[rec.Code]++
	}

	assert.Equal(t, 5, got[http.StatusOK], "burst of 5 should pass")
	assert.Equal(t, 5, got[http.StatusTooManyRequests])
}

func TestLimitIsPerIP(t *testing.T) {
	rl := NewRateLimiter()

	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	// Exhaust one IP's bucket.
	for i := 0; i < 6; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
		req.RemoteAddr = "203.0.113.1:1234"
		handler(rec, req, nil)
	}

	// A different IP still gets through.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.RemoteAddr = "203.0.113.2:1234"
	handler(rec, req, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
