package cache

// Keyer generates cache keys for pipeline stages. Implementations must be
// deterministic: identical inputs always map to identical keys, and any
// option that changes the output must change the key.
type Keyer interface {
	// DatasetKey keys a parsed dataset by the hash of its raw source bytes.
	DatasetKey(sourceHash string) string

	// AllocationKey keys a tile allocation by the dataset it was computed
	// from and the layout options that shaped it.
	AllocationKey(datasetHash string, opts AllocationKeyOpts) string

	// ArtifactKey keys a rendered artifact by the allocation it draws and
	// the styling options applied to it.
	ArtifactKey(allocationHash string, opts ArtifactKeyOpts) string
}

// AllocationKeyOpts are the layout options that affect tile placement.
type AllocationKeyOpts struct {
	Width         int
	Height        int
	Vertical      bool
	Autoscale     bool
	MaxScaleSteps int
}

// ArtifactKeyOpts are the styling options that affect rendered output.
type ArtifactKeyOpts struct {
	Format        string
	Palette       string
	Colors        []string
	Background    string
	OverRepresent bool
	Legend        bool
	ShowValues    bool
	ShowPercents  bool
	ValueSign     string
	Title         string
	Scale         float64
}

// DefaultKeyer hashes options into namespaced keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DatasetKey generates a key for parsed dataset caching.
func (k *DefaultKeyer) DatasetKey(sourceHash string) string {
	return "dataset:" + sourceHash
}

// AllocationKey generates a key for allocation caching.
func (k *DefaultKeyer) AllocationKey(datasetHash string, opts AllocationKeyOpts) string {
	return hashKey("alloc", datasetHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(allocationHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", allocationHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
