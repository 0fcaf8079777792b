package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/visitgraph/internal/models"
)

// svgContentType is the media type for rendered graphs.
const svgContentType = "image/svg+xml"

// GraphHandler serves visit graphs and their renders.
type GraphHandler struct {
	svc GraphService
	log *logrus.Logger
}

// NewGraphHandler creates a GraphHandler with the given service and logger.
func NewGraphHandler(svc GraphService, log *logrus.Logger) *GraphHandler {
	return &GraphHandler{svc: svc, log: log}
}

// Get handles GET /graph/:name and returns the laid-out graph as JSON.
func (h *GraphHandler) Get(c *gin.Context) {
	g, err := h.svc.GetGraph(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondGraphError(c, h.log, "getting graph", err)

		return
	}

	c.JSON(http.StatusOK, g)
}

// SVG handles GET /graph/:name/svg and returns the rendered scatter.
// X-Skipped-Nodes carries how many malformed nodes were left out; their
// identifiers are listed in the Skipped field of GET /graph/:name.
func (h *GraphHandler) SVG(c *gin.Context) {
	svg, res, err := h.svc.RenderSVG(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondGraphError(c, h.log, "rendering graph", err)

		return
	}

	c.Header("X-Drawn-Nodes", strconv.Itoa(res.Drawn))
	if len(res.Skipped) > 0 {
		c.Header("X-Skipped-Nodes", strconv.Itoa(len(res.Skipped)))
	}
	c.Data(http.StatusOK, svgContentType, svg)
}

// listResponse is the JSON payload returned by the list endpoint.
type listResponse struct {
	Graphs []models.GraphInfo `json:"graphs"`
}

// List handles GET /api/v1/graphs.
func (h *GraphHandler) List(c *gin.Context) {
	graphs, err := h.svc.ListGraphs(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("listing graphs")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	if graphs == nil {
		graphs = []models.GraphInfo{}
	}

	c.JSON(http.StatusOK, listResponse{Graphs: graphs})
}

// putResponse is the JSON payload returned after an upload.
type putResponse struct {
	Name    string   `json:"name"`
	Nodes   int      `json:"nodes"`
	Skipped []string `json:"skipped,omitempty"`
}

// Put handles PUT /api/v1/graphs/:name. The body is a recorded visit graph;
// layout coordinates are optional and recomputed on read.
func (h *GraphHandler) Put(c *gin.Context) {
	name := c.Param("name")
	if err := models.ValidateGraphName(name); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidName, err.Error())

		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, ErrCodeTooLarge, "request body too large")

			return
		}
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "reading request body")

		return
	}

	g, skipped, err := models.DecodeVisitGraph(body)
	if err != nil {
		respondGraphError(c, h.log, "decoding graph", err)

		return
	}

	if err := h.svc.PutGraph(c.Request.Context(), name, g); err != nil {
		respondGraphError(c, h.log, "storing graph", err)

		return
	}

	c.JSON(http.StatusOK, putResponse{Name: name, Nodes: g.Len(), Skipped: skipped})
}
