// Package directory exposes the merged student directory over HTTP.
// The pipeline writes into the store; these handlers only read it.
package directory

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ecoulson/perdue/internal/logger"
	"github.com/ecoulson/perdue/internal/storage"
)

// Handler serves the directory read surface.
type Handler struct {
	db  *storage.DB
	log *logger.Logger
}

// NewHandler builds the directory handler.
func NewHandler(db *storage.DB, log *logger.Logger) *Handler {
	return &Handler{db: db, log: log.WithModule("directory")}
}

// Register mounts the directory routes on the router group.
func (h *Handler) Register(router gin.IRoutes) {
	router.GET("/directory", h.listDirectory)
	router.GET("/colleges/:id", h.getCollege)
	router.GET("/colleges/:id/students", h.listCollegeStudents)
}

// listDirectory returns the filterable, sortable directory.
//
// Query parameters:
//
//	filter=Column=Value  repeatable; filters are OR-combined
//	sort_column=Name     one of the directory columns
//	sort_direction=asc|desc
func (h *Handler) listDirectory(c *gin.Context) {
	query := storage.DirectoryQuery{
		SortColumn:    c.Query("sort_column"),
		SortDirection: c.Query("sort_direction"),
	}

	for _, raw := range c.QueryArray("filter") {
		column, value, ok := strings.Cut(raw, "=")
		if !ok || !storage.IsDirectoryColumn(column) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter: " + raw})
			return
		}
		query.Filters = append(query.Filters, storage.Filter{Column: column, Value: value})
	}

	if query.SortColumn != "" && !storage.IsDirectoryColumn(query.SortColumn) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sort column: " + query.SortColumn})
		return
	}

	rows, err := h.db.DirectoryRows(c.Request.Context(), query)
	if err != nil {
		h.log.WithError(err).ErrorContext(c.Request.Context(), "Failed to list directory")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list directory"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"students": rows, "count": len(rows)})
}

// getCollege returns one college's configuration.
func (h *Handler) getCollege(c *gin.Context) {
	row, err := h.db.CollegeByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.WithError(err).ErrorContext(c.Request.Context(), "Failed to load college")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load college"})
		return
	}
	if row == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "college not found"})
		return
	}

	c.JSON(http.StatusOK, row)
}

// listCollegeStudents returns the directory restricted to one college.
func (h *Handler) listCollegeStudents(c *gin.Context) {
	rows, err := h.db.StudentsByCollege(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.WithError(err).ErrorContext(c.Request.Context(), "Failed to list college students")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list students"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"students": rows, "count": len(rows)})
}
