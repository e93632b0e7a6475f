package cache

// Keyer builds cache keys.
type Keyer interface {
	// DiagramKey identifies a laid-out diagram built from a tree.
	DiagramKey(treeHash string, opts DiagramKeyOpts) string

	// ArtifactKey identifies an exported document of a diagram.
	ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string
}

// DiagramKeyOpts are the build options that change a diagram.
type DiagramKeyOpts struct {
	Engine    string   `json:"engine"`
	Direction string   `json:"direction"`
	RankSep   float64  `json:"rank_sep"`
	NodeSep   float64  `json:"node_sep"`
	Palette   []string `json:"palette,omitempty"`
	RootColor string   `json:"root_color,omitempty"`
	Normalize bool     `json:"normalize"`
}

// ArtifactKeyOpts are the export options that change a document.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Padding   float64 `json:"padding"`
	Scale     float64 `json:"scale,omitempty"`
	Filename  string  `json:"filename,omitempty"`
	EdgeColor string  `json:"edge_color,omitempty"`
}

// DefaultKeyer derives keys by hashing their inputs.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DiagramKey returns "diagram:<sha256>".
func (DefaultKeyer) DiagramKey(treeHash string, opts DiagramKeyOpts) string {
	return hashKey("diagram", treeHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", diagramHash, opts)
}
