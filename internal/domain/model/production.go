package model

// ProductionRecord is one ledger row tracking artifact production.
type ProductionRecord struct {
	Row           int
	OrderID       string
	CustomerEmail string
	ArtifactLinks []string
	Ready         bool
	Paid          bool
}

// ArtifactLink returns the primary artifact link or empty string.
func (r ProductionRecord) ArtifactLink() string {
	if len(r.ArtifactLinks) == 0 {
		return ""
	}
	return r.ArtifactLinks[0]
}

// Downloadable reports whether the artifact is ready and has a link.
func (r ProductionRecord) Downloadable() bool {
	return r.Ready && r.ArtifactLink() != ""
}
