package entities

// Capability partition names. Declaration order here is the tie-break
// order used when merging retrieval results.
const (
	PartitionCompanies = "companies"
	PartitionProducts  = "products"
)

// ProfileKind distinguishes the two capability profile types
type ProfileKind string

const (
	ProfileKindCompany ProfileKind = "company"
	ProfileKindProduct ProfileKind = "product"
)

// CapabilityMatch is one similarity hit from a capability partition.
// Matches live only for the duration of a single retrieval call and
// are never persisted.
type CapabilityMatch struct {
	ProfileID string      `json:"profile_id"`
	Kind      ProfileKind `json:"kind"`
	Score     float64     `json:"score"` // similarity in [0,1]
	Partition string      `json:"partition"`
	Name      string      `json:"name"`
}
