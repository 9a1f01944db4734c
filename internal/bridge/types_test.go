package bridge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandboxfs/bridge/internal/vfs"
)

func TestRequestWireFormat(t *testing.T) {
	data, err := json.Marshal(&Request{Type: OpWriteFile, FilePath: "/a.txt", Content: "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"write-file","filePath":"/a.txt","content":"x"}`, string(data))

	// Unused fields stay off the wire.
	data, err = json.Marshal(&Request{Type: OpGetFileTree})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"get-file-tree"}`, string(data))
}

func TestResponseSuccessAlwaysPresent(t *testing.T) {
	data, err := json.Marshal(Fail("boom"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"boom"}`, string(data))

	data, err = json.Marshal(OK())
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true}`, string(data))
}

func TestResponseEstimateFields(t *testing.T) {
	usage := uint64(30)
	quota := uint64(100)
	available := uint64(70)

	data, err := json.Marshal(&Response{
		Success:   true,
		DiskUsage: &vfs.DiskUsage{Quota: &quota, Usage: &usage, Available: &available},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"quota":100,"usage":30,"available":70}`, string(data))

	// Unknown figures are explicit nulls, not absent keys.
	data, err = json.Marshal(&Response{Success: true, DiskUsage: &vfs.DiskUsage{Usage: &usage}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"quota":null,"usage":30,"available":null}`, string(data))

	// A response for a different operation carries no estimate keys.
	data, err = json.Marshal(OK())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "usage")
}

func TestResponseEstimateRoundTrip(t *testing.T) {
	var decoded Response
	require.NoError(t, json.Unmarshal([]byte(`{"success":true,"quota":100,"usage":30,"available":70}`), &decoded))

	require.NotNil(t, decoded.DiskUsage)
	require.NotNil(t, decoded.Quota)
	assert.Equal(t, uint64(100), *decoded.Quota)
	assert.Equal(t, uint64(30), *decoded.Usage)
	assert.Equal(t, uint64(70), *decoded.Available)
}

func TestFailFormats(t *testing.T) {
	resp := Fail("read failed: %v", "nope")
	assert.False(t, resp.Success)
	assert.Equal(t, "read failed: nope", resp.Error)
}
