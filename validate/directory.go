package validate

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/pytracer/artifact"
)

// DirectoryReport aggregates one Report per artifact JSON file found under
// a directory, keyed by file URL.
type DirectoryReport struct {
	Files map[string]Report
}

// OK reports whether every file in the directory validated cleanly.
func (d DirectoryReport) OK() bool {
	for _, r := range d.Files {
		if !r.OK {
			return false
		}
	}
	return true
}

// Directory walks dir via fs (the teacher's afs.Service abstraction,
// carried over from analyzer/package.go's own AnalyzeDir/analyzePackages
// walk), parses every *.json file it finds as an artifact.Artifact, and
// validates its ast/trace pair. Python has no direct analogue of afs — the
// source validator uses glob.glob(directory + "/*.json") — afs.Walk plays
// the same role here.
func Directory(ctx context.Context, fs afs.Service, dir string) (DirectoryReport, error) {
	report := DirectoryReport{Files: make(map[string]Report)}

	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return true, nil
		}
		if !strings.HasSuffix(info.Name(), ".json") {
			return true, nil
		}
		fileURL := url.Join(baseURL, parent)
		data, err := fs.DownloadWithURL(ctx, fileURL)
		if err != nil {
			return true, err
		}
		var art artifact.Artifact
		if err := json.Unmarshal(data, &art); err != nil {
			report.Files[fileURL] = Report{OK: false}
			return true, nil
		}
		root := artifact.ToNode(art.AST)
		report.Files[fileURL] = ValidateTrace(root, &art)
		return true, nil
	}

	if err := fs.Walk(ctx, dir, visitor); err != nil {
		return report, err
	}
	return report, nil
}
