package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/posts/{idOrSlug}", "404"))
	RecordRequest("GET", "/posts/{idOrSlug}", 404, 3*time.Millisecond)
	after := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/posts/{idOrSlug}", "404"))
	assert.Equal(t, before+1, after)

	RecordRequest("GET", "", 404, time.Millisecond)
	assert.GreaterOrEqual(t, testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "unmatched", "404")), 1.0)
}

func TestRecordLoginAndUpload(t *testing.T) {
	ok := testutil.ToFloat64(LoginAttempts.WithLabelValues("success"))
	bad := testutil.ToFloat64(LoginAttempts.WithLabelValues("rejected"))
	RecordLogin(true)
	RecordLogin(false)
	RecordLogin(false)
	assert.Equal(t, ok+1, testutil.ToFloat64(LoginAttempts.WithLabelValues("success")))
	assert.Equal(t, bad+2, testutil.ToFloat64(LoginAttempts.WithLabelValues("rejected")))

	up := testutil.ToFloat64(UploadedBytes)
	RecordUpload(1024)
	assert.Equal(t, up+1024, testutil.ToFloat64(UploadedBytes))
}
