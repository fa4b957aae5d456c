package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestTimeTrackingMiddleware(t *testing.T) {
	before := testutil.CollectAndCount(timings)
	h := TimeTrackingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health-test", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
	if got := testutil.CollectAndCount(timings); got != before+1 {
		t.Errorf("timing series = %d, want %d", got, before+1)
	}
}

func TestInstrumentTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := &http.Client{Transport: InstrumentTransport(nil)}
	resp, err := client.Get(srv.URL + "/api/data-test")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()

	if got := testutil.CollectAndCount(backendTimings, "backend_request_timing"); got == 0 {
		t.Error("no backend timing recorded")
	}
}

func TestFlowResult(t *testing.T) {
	FlowResult("topup", "ok")
	FlowResult("topup", "ok")
	if got := testutil.ToFloat64(flowResults.WithLabelValues("topup", "ok")); got != 2 {
		t.Errorf("topup ok = %v, want 2", got)
	}
}
