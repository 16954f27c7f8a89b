package cache

// Keyer derives cache keys for each pipeline stage.
type Keyer interface {
	// LayoutKey keys a settled layout by the hash of its input text.
	LayoutKey(textHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact by the hash of its layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the options that change node positions.
type LayoutKeyOpts struct {
	Engine     string  `json:"engine"`
	Seed       uint64  `json:"seed"`
	Iterations int     `json:"iterations"`
	Epsilon    float64 `json:"epsilon"`
	Attraction float64 `json:"attraction"`
	Repulsion  float64 `json:"repulsion"`
	Gravity    float64 `json:"gravity"`
	Inertia    float64 `json:"inertia"`
	MaxMove    float64 `json:"max_move"`
}

// ArtifactKeyOpts holds the options that change rendered output.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Engine string  `json:"engine"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultKeyer produces keys of the form "<stage>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(textHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", textHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
