package constants

import (
	"net/http"
	"strings"
)

const (
	MimePDF = "application/pdf"

	// MaxContractSize is the upload ceiling for signed contract documents.
	MaxContractSize = 10 * 1024 * 1024
)

// IsPDF checks the declared content type and, when a head is given, the sniffed one.
func IsPDF(declared string, head []byte) bool {
	ct := strings.ToLower(strings.TrimSpace(declared))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct != MimePDF {
		return false
	}
	if len(head) == 0 {
		return true
	}
	return strings.HasPrefix(http.DetectContentType(head), MimePDF)
}
