package module

import dom "rephraser/internal/services/reports/domain"

// Ports holds the ports exposed by the reports module
type Ports struct {
	Recorder dom.RecorderPort
	// Reader is nil without postgres
	Reader dom.ReaderPort
}
