package models

import id "veriflow/pkg/domain"

const bytesPerMegabyte = 1024 * 1024

// OfficerWorkload is computed on demand from active requests and their
// documents; it is never persisted.
type OfficerWorkload struct {
	OfficerID      id.UserID
	ActiveRequests int
	TotalDocuments int
	TotalBytes     int64
}

// Score weights active requests, documents and whole megabytes. Lower is less busy.
func (w OfficerWorkload) Score() int64 {
	return int64(w.ActiveRequests)*10 + int64(w.TotalDocuments)*2 + w.TotalBytes/bytesPerMegabyte
}
