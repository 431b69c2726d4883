// Package wire implements the fixed-layout binary request/response framing
// described in spec §4.6: a 12-byte summarization request header followed
// by a nul-terminated filename, a 12-byte summary response header
// followed by summary text, and an 8-byte error response. All multi-byte
// integers are network (big-endian) byte order.
//
// Grounded on summarizerd.c's req_header_s/rep_header_s wire structs and
// read_summary_request/write_summary_response/write_error_response.
package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Protocol constants (§4.6).
const (
	Proto   uint16 = 0x1421
	Version uint16 = 0x0001

	DefaultPort = 9872

	MaxFilenameLen = 256

	RequestHeaderSize = 12
	SummaryHeaderSize = 12
	ErrorResponseSize = 8
)

// Status codes carried in response headers.
const (
	StatusSummary       uint32 = 0 // REP_SUMMARY
	StatusInvalidReq    uint32 = 1 // REP_ERROR_INVALID_REQ
	StatusInternalError uint32 = 2 // REP_ERROR_INTERNAL_ERROR
)

// RequestHeader is the 12-byte fixed request header: proto, ver, ratio
// (IEEE-754 percentage 0..100), filename_len (including trailing nul).
type RequestHeader struct {
	Proto       uint16
	Ver         uint16
	Ratio       float32
	FilenameLen uint32
}

// EncodeRequestHeader writes h in network byte order.
func EncodeRequestHeader(h RequestHeader) []byte {
	buf := make([]byte, RequestHeaderSize)
	binary.BigEndian.PutUint16(buf[0:2], h.Proto)
	binary.BigEndian.PutUint16(buf[2:4], h.Ver)
	binary.BigEndian.PutUint32(buf[4:8], math.Float32bits(h.Ratio))
	binary.BigEndian.PutUint32(buf[8:12], h.FilenameLen)
	return buf
}

// DecodeRequestHeader parses a 12-byte request header.
func DecodeRequestHeader(buf []byte) (RequestHeader, error) {
	if len(buf) < RequestHeaderSize {
		return RequestHeader{}, fmt.Errorf("wire: request header too short: %d bytes", len(buf))
	}
	return RequestHeader{
		Proto:       binary.BigEndian.Uint16(buf[0:2]),
		Ver:         binary.BigEndian.Uint16(buf[2:4]),
		Ratio:       math.Float32frombits(binary.BigEndian.Uint32(buf[4:8])),
		FilenameLen: binary.BigEndian.Uint32(buf[8:12]),
	}, nil
}

// Validate checks a decoded request header against §4.6/§4.7's schema
// rules, returning whether it should be treated as PROTO_INVALID.
func (h RequestHeader) Validate() error {
	if h.Proto != Proto {
		return fmt.Errorf("wire: bad proto 0x%04x", h.Proto)
	}
	if h.Ver != Version {
		return fmt.Errorf("wire: bad version 0x%04x", h.Ver)
	}
	if h.Ratio < 0 || h.Ratio > 100 {
		return fmt.Errorf("wire: ratio %f out of [0,100]", h.Ratio)
	}
	if h.FilenameLen < 1 || h.FilenameLen > MaxFilenameLen {
		return fmt.Errorf("wire: filename_len %d out of [1,%d]", h.FilenameLen, MaxFilenameLen)
	}
	return nil
}

// SummaryHeader is the 12-byte success response header.
type SummaryHeader struct {
	Proto      uint16
	Ver        uint16
	Status     uint32
	SummaryLen uint32
}

// EncodeSummaryHeader writes h in network byte order.
func EncodeSummaryHeader(h SummaryHeader) []byte {
	buf := make([]byte, SummaryHeaderSize)
	binary.BigEndian.PutUint16(buf[0:2], h.Proto)
	binary.BigEndian.PutUint16(buf[2:4], h.Ver)
	binary.BigEndian.PutUint32(buf[4:8], h.Status)
	binary.BigEndian.PutUint32(buf[8:12], h.SummaryLen)
	return buf
}

// DecodeSummaryHeader parses a 12-byte summary response header.
func DecodeSummaryHeader(buf []byte) (SummaryHeader, error) {
	if len(buf) < SummaryHeaderSize {
		return SummaryHeader{}, fmt.Errorf("wire: summary header too short: %d bytes", len(buf))
	}
	return SummaryHeader{
		Proto:      binary.BigEndian.Uint16(buf[0:2]),
		Ver:        binary.BigEndian.Uint16(buf[2:4]),
		Status:     binary.BigEndian.Uint32(buf[4:8]),
		SummaryLen: binary.BigEndian.Uint32(buf[8:12]),
	}, nil
}

// EncodeErrorResponse writes the 8-byte error frame for the given status.
func EncodeErrorResponse(status uint32) []byte {
	buf := make([]byte, ErrorResponseSize)
	binary.BigEndian.PutUint16(buf[0:2], Proto)
	binary.BigEndian.PutUint16(buf[2:4], Version)
	binary.BigEndian.PutUint32(buf[4:8], status)
	return buf
}

// DecodeErrorResponse parses an 8-byte error frame.
func DecodeErrorResponse(buf []byte) (proto, ver uint16, status uint32, err error) {
	if len(buf) < ErrorResponseSize {
		return 0, 0, 0, fmt.Errorf("wire: error response too short: %d bytes", len(buf))
	}
	proto = binary.BigEndian.Uint16(buf[0:2])
	ver = binary.BigEndian.Uint16(buf[2:4])
	status = binary.BigEndian.Uint32(buf[4:8])
	return proto, ver, status, nil
}

// NewSummaryHeader builds a success header for a summary of the given
// byte length.
func NewSummaryHeader(summaryLen int) SummaryHeader {
	return SummaryHeader{Proto: Proto, Ver: Version, Status: StatusSummary, SummaryLen: uint32(summaryLen)}
}
