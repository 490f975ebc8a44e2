// Package modelsource opens the model a process serves predictions from:
// either a local artifact file or a remote inference server.
package modelsource

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mr1hm/go-quake-magnitude/internal/artifact"
	"github.com/mr1hm/go-quake-magnitude/internal/inference"
	"github.com/mr1hm/go-quake-magnitude/internal/models"
	"github.com/mr1hm/go-quake-magnitude/internal/remote"
)

const KindRemote = "remote"

type Options struct {
	Path    string
	URL     string
	Timeout time.Duration
}

// Source is an opened model plus the labels used to describe it.
type Source struct {
	Model    inference.Model
	Name     string
	Version  string
	Kind     string
	Location string
}

// Open loads the artifact at opts.Path, or connects to opts.URL when set.
// A model whose feature layout differs from the encoder's is still returned;
// the mismatch is logged and every prediction will fail with an inference error.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (*Source, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if opts.URL != "" {
		m := remote.NewModel(opts.URL, opts.Timeout)
		if err := m.Ping(ctx); err != nil {
			logger.Warn("inference server not reachable yet", "url", opts.URL, "error", err)
		}
		return &Source{
			Model:    m,
			Name:     "remote",
			Kind:     KindRemote,
			Location: m.URL(),
		}, nil
	}

	if opts.Path == "" {
		return nil, fmt.Errorf("no model path or url given")
	}

	m, err := artifact.Load(opts.Path)
	if err != nil {
		return nil, err
	}

	info := m.Info()
	if err := info.Compatible(models.FeatureNames[:]); err != nil {
		logger.Warn("model does not match input features", "path", opts.Path, "error", err)
	}

	return &Source{
		Model:    m,
		Name:     info.Name,
		Version:  info.Version,
		Kind:     string(info.Kind),
		Location: info.Source,
	}, nil
}
