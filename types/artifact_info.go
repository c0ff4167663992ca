package types

// ArtifactInfo describes an artifact written by a stage
type ArtifactInfo struct {
	Path  string `json:"path"`
	Rows  int    `json:"rows,omitempty"`
	Bytes int64  `json:"bytes"`
}

func NewArtifactInfo(path string, rows int, bytes int64) *ArtifactInfo {
	return &ArtifactInfo{
		Path:  path,
		Rows:  rows,
		Bytes: bytes,
	}
}
