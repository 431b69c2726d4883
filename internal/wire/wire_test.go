package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestHeaderRoundTrip(t *testing.T) {
	h := RequestHeader{Proto: Proto, Ver: Version, Ratio: 42.5, FilenameLen: 10}
	decoded, err := DecodeRequestHeader(EncodeRequestHeader(h))
	require.NoError(t, err)
	assert.Equal(t, h, decoded)
	assert.NoError(t, decoded.Validate())
}

func TestRequestHeaderValidateRejectsBadProto(t *testing.T) {
	h := RequestHeader{Proto: 0xBEEF, Ver: Version, Ratio: 10, FilenameLen: 5}
	assert.Error(t, h.Validate())
}

func TestRequestHeaderValidateRejectsBadFilenameLen(t *testing.T) {
	h := RequestHeader{Proto: Proto, Ver: Version, Ratio: 10, FilenameLen: 0}
	assert.Error(t, h.Validate())

	h.FilenameLen = MaxFilenameLen + 1
	assert.Error(t, h.Validate())
}

func TestSummaryHeaderRoundTrip(t *testing.T) {
	h := NewSummaryHeader(1024)
	decoded, err := DecodeSummaryHeader(EncodeSummaryHeader(h))
	require.NoError(t, err)
	assert.Equal(t, h, decoded)
}

func TestErrorResponseRoundTrip(t *testing.T) {
	buf := EncodeErrorResponse(StatusInvalidReq)
	proto, ver, status, err := DecodeErrorResponse(buf)
	require.NoError(t, err)
	assert.Equal(t, Proto, proto)
	assert.Equal(t, Version, ver)
	assert.Equal(t, StatusInvalidReq, status)
}
