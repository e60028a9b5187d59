package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"user-manager/internal/domain"
)

func TestResultLabel(t *testing.T) {
	assert.Equal(t, "ok", resultLabel(nil))
	assert.Equal(t, "not_found", resultLabel(fmt.Errorf("user 1: %w", domain.ErrUserNotFound)))
	assert.Equal(t, "conflict", resultLabel(domain.ErrUserAlreadyExists))
	assert.Equal(t, "error", resultLabel(errors.New("boom")))
}

func TestObserveUserOperation(t *testing.T) {
	counter := UserOperationsTotal.WithLabelValues("delete", "not_found")
	before := testutil.ToFloat64(counter)

	ObserveUserOperation("delete", domain.ErrUserNotFound)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestObserveHTTPRequestUnmatchedRoute(t *testing.T) {
	counter := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")
	before := testutil.ToFloat64(counter)

	ObserveHTTPRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
