package reverse

import (
	"context"
	"strings"

	"go_rdns/internal/httpx"
	"go_rdns/internal/reverse"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handler handles the reverse DNS API requests
type Handler struct {
	service *reverse.Service
	logger  *logrus.Entry
}

// NewHandler creates a new reverse DNS handler
func NewHandler(service *reverse.Service, logger *logrus.Entry) *Handler {
	return &Handler{
		service: service,
		logger:  logger.WithField("component", "reverse-handler"),
	}
}

// ResolveRequest represents the request body for a reverse lookup
type ResolveRequest struct {
	CIDR string `json:"cidr"`
}

// ResolveResponse is returned by Resolve
type ResolveResponse struct {
	CIDR       string         `json:"cidr"`
	Resultados []reverse.Pair `json:"resultados"`
}

// Resolve looks up the PTR record of every address in a CIDR block
// POST /buscar-reverso
func (h *Handler) Resolve(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, h.logger, httpx.ErrInvalidInput("invalid request body"))
		return
	}
	if strings.TrimSpace(req.CIDR) == "" {
		httpx.Fail(c, h.logger, httpx.ErrInvalidInput("cidr is required"))
		return
	}

	pairs, err := h.service.Resolve(c.Request.Context(), req.CIDR)
	if err != nil {
		h.fail(c, err, "reverse lookup failed")
		return
	}

	httpx.OK(c, ResolveResponse{CIDR: req.CIDR, Resultados: pairs})
}

// WriteRequest represents the request body for a manual write.
// Registros is a pointer so an absent field can be told from an empty list.
type WriteRequest struct {
	Registros *[]reverse.Pair `json:"registros"`
	DomainID  int64           `json:"domain_id"`
}

// WriteResponse is returned by Write
type WriteResponse struct {
	Message  string `json:"message"`
	Gravados int    `json:"gravados"`
}

// Write inserts the given ip/ptr pairs as PTR records of a zone
// POST /gravar
func (h *Handler) Write(c *gin.Context) {
	var req WriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, h.logger, httpx.ErrInvalidInput("registros or domain_id not provided correctly"))
		return
	}
	if req.Registros == nil || req.DomainID <= 0 {
		httpx.Fail(c, h.logger, httpx.ErrInvalidInput("registros or domain_id not provided correctly"))
		return
	}

	written, err := h.service.Write(detach(c), req.DomainID, *req.Registros)
	if err != nil {
		h.fail(c, err, "failed to write records")
		return
	}

	httpx.OK(c, WriteResponse{Message: "records written successfully", Gravados: written})
}

// ImportRequest represents the request body for an import.
// CIDR takes precedence over ReverseZone.
type ImportRequest struct {
	CIDR        string `json:"cidr"`
	ReverseZone string `json:"reverse_zone"`
	DomainID    int64  `json:"domain_id"`
}

// ImportResponse is returned by Import
type ImportResponse struct {
	Message string          `json:"message"`
	Summary reverse.Summary `json:"summary"`
}

// Import resolves a CIDR block or reverse zone and upserts the PTR records found
// POST /importar
func (h *Handler) Import(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, h.logger, httpx.ErrInvalidInput("invalid request body"))
		return
	}
	if req.DomainID <= 0 || (strings.TrimSpace(req.CIDR) == "" && strings.TrimSpace(req.ReverseZone) == "") {
		httpx.Fail(c, h.logger, httpx.ErrInvalidInput("cidr or reverse_zone, and domain_id are required"))
		return
	}

	block, ips, err := h.service.ImportBlock(req.CIDR, req.ReverseZone)
	if err != nil {
		h.fail(c, err, "import failed")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"cidr":      block,
		"addresses": len(ips),
		"domain_id": req.DomainID,
	}).Info("import started")

	summary, err := h.service.Import(detach(c), req.DomainID, ips)
	if err != nil {
		h.fail(c, err, "import failed")
		return
	}

	httpx.OK(c, ImportResponse{Message: "import completed", Summary: summary})
}

// fail maps service errors to responses: bad input is a 400, anything else
// happened while talking to the database and is a 500
func (h *Handler) fail(c *gin.Context, err error, msg string) {
	if reverse.IsInvalidInput(err) {
		httpx.Fail(c, h.logger, httpx.ErrInvalidInput(err.Error()))
		return
	}
	httpx.Fail(c, h.logger, httpx.ErrDatabaseError(msg, err))
}

// detach keeps writes running to completion when the client goes away
func detach(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}
