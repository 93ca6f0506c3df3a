package domain

// PluginKind classifies a pipeline plugin.
type PluginKind string

const (
	// PluginReader produces documents.
	PluginReader PluginKind = "reader"

	// PluginChunker splits documents into chunks.
	PluginChunker PluginKind = "chunker"

	// PluginEmbedder attaches vectors to chunks.
	PluginEmbedder PluginKind = "embedder"
)

// InputForm tells a front end what a reader expects as input.
type InputForm string

const (
	// InputFormUpload expects uploaded files.
	InputFormUpload InputForm = "UPLOAD"

	// InputFormInput expects free-text paths.
	InputFormInput InputForm = "INPUT"

	// InputFormNone takes no input (chunkers, embedders).
	InputFormNone InputForm = ""
)

// PluginInfo describes a plugin for listing and readiness checks.
type PluginInfo struct {
	// Name is the registry key, e.g. "GithubReader".
	Name string

	// Kind is the pipeline stage the plugin serves.
	Kind PluginKind

	// Description is a one-line human-readable summary.
	Description string

	// RequiresEnv lists environment variables the plugin reads.
	RequiresEnv []string

	// RequiresLibrary lists native libraries or model assets the plugin needs.
	RequiresLibrary []string

	// InputForm is how a reader expects its input.
	InputForm InputForm
}

// PluginStatus reports whether a plugin can run in this environment.
type PluginStatus struct {
	Info PluginInfo

	// MissingEnv lists unset variables from Info.RequiresEnv.
	MissingEnv []string

	// Err is the library check failure, if any.
	Err error
}

// Ready reports whether the plugin can run at all.
func (s PluginStatus) Ready() bool {
	return s.Err == nil
}

// Degraded reports whether the plugin runs with reduced capability,
// e.g. a reader falling back to unauthenticated requests.
func (s PluginStatus) Degraded() bool {
	return s.Ready() && len(s.MissingEnv) > 0
}
