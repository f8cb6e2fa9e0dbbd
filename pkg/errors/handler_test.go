package errors

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRecoverMiddlewareSwallowsPanic(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer RecoverMiddleware()()
		panic("boom")
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("goroutine did not finish after panic")
	}
}

func TestGoRunsFunction(t *testing.T) {
	ran := make(chan struct{})
	Go(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("Go() did not run the function")
	}
}

func TestHandlePanicIncrementsCount(t *testing.T) {
	h := NewErrorHandler("", nil)
	h.HandlePanic("fallo")
	h.HandlePanic("fallo")

	if got := h.ErrorCount(); got != 2 {
		t.Errorf("ErrorCount() = %v, want %v", got, 2)
	}
}

func TestShutdownRunsHookAndExits(t *testing.T) {
	var reported int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&reported, 1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	hookCalled := false
	exitCode := -1

	h := NewErrorHandler(srv.URL, func() { hookCalled = true })
	h.exitFunc = func(code int) { exitCode = code }
	h.maxErrors = 1

	h.IncrementError()
	h.IncrementError()
	if !h.overLimit() {
		t.Fatal("overLimit() should be true after exceeding maxErrors")
	}

	h.shutdown()

	if !hookCalled {
		t.Error("shutdown hook was not called")
	}
	if exitCode != 1 {
		t.Errorf("exit code = %v, want %v", exitCode, 1)
	}
	if atomic.LoadInt32(&reported) != 1 {
		t.Errorf("webhook reports = %v, want %v", reported, 1)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	h := NewErrorHandler("", nil)
	h.start()
	h.Stop()
	h.Stop()
}
