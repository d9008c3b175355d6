package driven

import (
	"io"

	"github.com/gplanner/gplan/internal/core/domain"
)

// DocumentExporter writes a single document as a standalone artifact.
type DocumentExporter interface {
	// ExportDocument writes doc to w.
	ExportDocument(w io.Writer, doc domain.DocNode) error

	// Extension returns the file extension of exported files, with dot.
	Extension() string
}

// ProjectExporter writes a whole project as a portable snapshot.
type ProjectExporter interface {
	// ExportProject writes the project to w.
	ExportProject(w io.Writer, meta domain.ProjectMeta, content *domain.ProjectContent) error

	// Extension returns the file extension of exported files, with dot.
	Extension() string
}
