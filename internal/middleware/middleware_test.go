package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/neontetris/internal/testutil"
)

type MiddlewareSuite struct {
	suite.Suite
}

func TestMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareSuite))
}

func (s *MiddlewareSuite) TestLoggingRecordsStatusAndSize() {
	logger, logs := testutil.CaptureLogger()
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))

	entry := logs.Find("http request")
	s.Require().NotNil(entry)
	s.Equal("INFO", entry["level"])
	s.Equal("POST", entry["method"])
	s.Equal("/api/v1/sessions", entry["path"])
	s.Equal(float64(http.StatusCreated), entry["status"])
	s.Equal(float64(5), entry["size"])
	s.Equal(false, entry["upgraded"])
}

func (s *MiddlewareSuite) TestLoggingServerErrorAtErrorLevel() {
	logger, logs := testutil.CaptureLogger()
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	entry := logs.Find("http request")
	s.Require().NotNil(entry)
	s.Equal("ERROR", entry["level"])
}

func (s *MiddlewareSuite) TestHijackUnsupported() {
	rw := NewResponseWriter(httptest.NewRecorder())
	_, _, err := rw.Hijack()
	s.Error(err)
	s.Equal(http.StatusOK, rw.Status())
}

func (s *MiddlewareSuite) TestRecoveryUsesHandler() {
	logger, logs := testutil.CaptureLogger()
	var recovered any
	h := Recovery(logger, func(w http.ResponseWriter, r *http.Request, err any) {
		recovered = err
		DefaultPanicHandler(w, r, err)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	s.Equal("boom", recovered)
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.NotNil(logs.Find("panic recovered"))
}

func (s *MiddlewareSuite) TestRecoveryReraisesAbort() {
	h := Recovery(testutil.NopLogger(), DefaultPanicHandler)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	s.PanicsWithValue(http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
