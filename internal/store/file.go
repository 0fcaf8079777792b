package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/visitgraph/internal/models"
)

const (
	filePrefix = "visit_graph_"
	fileSuffix = ".json"
)

// FileStore serves graphs from a directory of visit_graph_<name>.json files.
type FileStore struct {
	dir string
	log *logrus.Logger
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string, log *logrus.Logger) *FileStore {
	return &FileStore{dir: dir, log: log}
}

// Dir returns the directory the store reads from.
func (s *FileStore) Dir() string {
	return s.dir
}

// NameFromPath returns the graph name for a visit graph file path.
func NameFromPath(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasPrefix(base, filePrefix) || !strings.HasSuffix(base, fileSuffix) {
		return "", false
	}

	name := strings.TrimSuffix(strings.TrimPrefix(base, filePrefix), fileSuffix)
	if models.ValidateGraphName(name) != nil {
		return "", false
	}

	return name, true
}

// GetGraph loads and decodes the named graph.
func (s *FileStore) GetGraph(ctx context.Context, name string) (*models.Graph, error) {
	if err := models.ValidateGraphName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, models.ErrGraphNotFound
		}

		return nil, fmt.Errorf("reading graph %q: %w", name, err)
	}

	g, skipped, err := models.DecodeVisitGraph(data)
	if err != nil {
		return nil, fmt.Errorf("decoding graph %q: %w: %w", name, models.ErrCorruptGraph, err)
	}
	logSkipped(s.log, name, skipped)

	return g, nil
}

// ListGraphs returns every graph file in the directory, sorted by name.
func (s *FileStore) ListGraphs(ctx context.Context) ([]models.GraphInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing graph directory: %w", err)
	}

	infos := make([]models.GraphInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name, ok := NameFromPath(e.Name())
		if !ok {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		infos = append(infos, models.GraphInfo{
			Name:      name,
			SizeBytes: fi.Size(),
			UpdatedAt: fi.ModTime().UTC(),
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	return infos, nil
}

// PutGraph writes g under name. The file is replaced atomically so
// concurrent readers and the directory watcher never see partial documents.
func (s *FileStore) PutGraph(ctx context.Context, name string, g *models.Graph) error {
	if err := models.ValidateGraphName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodeGraph(g)
	if err != nil {
		return fmt.Errorf("encoding graph %q: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-"+filePrefix+"*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName) //nolint:errcheck // best-effort cleanup.

		return fmt.Errorf("writing graph %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck // best-effort cleanup.

		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path(name)); err != nil {
		os.Remove(tmpName) //nolint:errcheck // best-effort cleanup.

		return fmt.Errorf("replacing graph %q: %w", name, err)
	}

	s.log.WithFields(logrus.Fields{"graph": name, "nodes": g.Len()}).Debug("graph file written")

	return nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, models.GraphFileName(name))
}
