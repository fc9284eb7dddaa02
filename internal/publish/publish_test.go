package publish

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	got, err := ParseTarget("s3://reports/nightly/app/")
	require.NoError(t, err)
	assert.Equal(t, Target{Bucket: "reports", Prefix: "nightly/app"}, got)

	got, err = ParseTarget("s3://reports")
	require.NoError(t, err)
	assert.Equal(t, Target{Bucket: "reports"}, got)

	for _, bad := range []string{"reports/x", "s3://", "s3:///x", "https://reports"} {
		_, err := ParseTarget(bad)
		assert.Error(t, err, bad)
	}
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "demo_ts.json", ObjectKey("", "/tmp/out/demo_ts.json"))
	assert.Equal(t, "nightly/demo_ts.json", ObjectKey("/nightly/", "/tmp/out/demo_ts.json"))
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Bucket: "b", AccessKey: "a", SecretKey: "s"})
	assert.ErrorContains(t, err, "endpoint")

	_, err = New(Config{Endpoint: "localhost:9000", Bucket: "b"})
	assert.ErrorContains(t, err, "access key")

	_, err = New(Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"})
	assert.ErrorContains(t, err, "bucket")

	p, err := New(Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "b", Prefix: "x"})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", p.region)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv; charset=utf-8", contentType("a_stats.csv"))
	assert.Equal(t, "application/pdf", contentType("a.pdf"))
	assert.Equal(t, "application/json", contentType("a.json"))
}
