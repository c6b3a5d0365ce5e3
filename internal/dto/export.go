package dto

// Export is a rendered report served as a download.
type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}
