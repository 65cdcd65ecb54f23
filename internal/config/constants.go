package config

// Source and artifact file extensions.
const (
	SourceFileExt   = ".clr"
	ArtifactFileExt = ".clr.b"
)

// ProjectFileName is the per-project configuration file looked up next to
// the source file and in its parent directories.
const ProjectFileName = "clear.yaml"

// Version is the compiler version, compared against a project's minimum
// requirement.
const Version = "0.3.0"
