// Package domain defines the canonical graph interfaces shared across the API,
// service and viewer layers. Consumers should depend on these interfaces
// rather than re-declaring equivalent ones.
package domain

import (
	"context"

	"github.com/persistorai/visitgraph/internal/models"
	"github.com/persistorai/visitgraph/internal/render"
)

// GraphStore persists recorded visit graphs.
type GraphStore interface {
	GetGraph(ctx context.Context, name string) (*models.Graph, error)
	ListGraphs(ctx context.Context) ([]models.GraphInfo, error)
	PutGraph(ctx context.Context, name string, g *models.Graph) error
}

// GraphService serves analyzed graphs and their renders.
type GraphService interface {
	GetGraph(ctx context.Context, name string) (*models.Graph, error)
	ListGraphs(ctx context.Context) ([]models.GraphInfo, error)
	PutGraph(ctx context.Context, name string, g *models.Graph) error
	RenderSVG(ctx context.Context, name string) ([]byte, render.Result, error)
}

// GraphSource supplies laid-out graphs by name to a viewer.
type GraphSource interface {
	Graph(ctx context.Context, name string) (*models.Graph, error)
}
