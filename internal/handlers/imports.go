package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/lojista/backoffice-service/internal/database"
	"github.com/lojista/backoffice-service/internal/ingestion"
	zipexpand "github.com/lojista/backoffice-service/internal/ingestion/zip"
	"github.com/lojista/backoffice-service/internal/storage"
	"github.com/lojista/backoffice-service/internal/types"
)

// maxUploadBytes caps a single export upload
const maxUploadBytes = 50 << 20

// archive receives a copy of every uploaded export for replay and audit.
// Nil disables archiving.
var archive storage.Storage

// SetArchive installs the storage backend used to retain uploaded exports
func SetArchive(s storage.Storage) {
	archive = s
}

// ImportResponse summarizes one processed upload
type ImportResponse struct {
	Channel  types.ChannelID `json:"channel" jsonschema:"required"`
	Filename string          `json:"filename" jsonschema:"required"`
	Accepted int             `json:"accepted" jsonschema:"required"`
	Rejected int             `json:"rejected" jsonschema:"required"`
}

// ImportChannel ingests a marketplace order export for one channel
// @Summary Import channel order export
// @Description Accepts a CSV, XLSX or ZIP export upload and ingests it into the canonical store. Re-uploading the same file is idempotent.
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Param channel path string true "Sales channel" Enums(site, shopee, meli)
// @Param file formData file true "Export file"
// @Success 200 {object} ImportResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/imports/{channel} [post]
func ImportChannel(c *gin.Context) {
	channelSlug := c.Param("channel")
	if !types.IsValidChannel(channelSlug) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid channel: %s", channelSlug)})
		return
	}
	channel := types.ChannelID(channelSlug)

	content, filename, ok := readUpload(c)
	if !ok {
		return
	}
	archiveUpload(c, channel, filename, content)

	ctx := c.Request.Context()
	response := ImportResponse{Channel: channel, Filename: filename}

	// ZIP uploads carry one or more exports; each inner file is its own batch
	for _, part := range expandUpload(content, filename) {
		result, err := ingestion.Ingest(ctx, part.Content, part.Name, channel)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		response.Accepted += result.Accepted
		response.Rejected += result.Rejected
	}

	c.JSON(http.StatusOK, response)
}

// ImportSiteItems ingests the storefront's items-only export, which details
// the lines of orders already ingested from the order-level export
// @Summary Import storefront item export
// @Description Accepts the storefront's secondary items export and attaches line items to previously ingested orders
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Param channel path string true "Sales channel" Enums(site)
// @Param file formData file true "Items export file"
// @Success 200 {object} ImportResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Router /internal/imports/{channel}/items [post]
func ImportSiteItems(c *gin.Context) {
	if c.Param("channel") != string(types.ChannelSite) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "items exports are only supported for the site channel"})
		return
	}

	content, filename, ok := readUpload(c)
	if !ok {
		return
	}
	archiveUpload(c, types.ChannelSite, filename, content)

	result, err := ingestion.IngestSiteItems(c.Request.Context(), content, filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ImportResponse{
		Channel:  types.ChannelSite,
		Filename: filename,
		Accepted: result.Accepted,
		Rejected: result.Rejected,
	})
}

// ListImportRunsResponse represents the response for listing import runs
type ListImportRunsResponse struct {
	Runs []database.ImportRun `json:"runs" jsonschema:"required"`
}

// ListImportRuns returns recent ingestion batches, newest first
// @Summary List import runs
// @Description Returns the audit records of recent ingestion batches
// @Tags imports
// @Produce json
// @Param limit query int false "Number of items to return" default(50) minimum(1) maximum(500)
// @Success 200 {object} ListImportRunsResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/imports/runs [get]
func ListImportRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	runs, err := database.ListImportRuns(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list import runs"})
		return
	}
	c.JSON(http.StatusOK, ListImportRunsResponse{Runs: runs})
}

// readUpload reads the multipart "file" field, enforcing the size cap.
// On failure it writes the error response and returns ok=false.
func readUpload(c *gin.Context) (content []byte, filename string, ok bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return nil, "", false
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return nil, "", false
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open upload"})
		return nil, "", false
	}
	defer file.Close()

	content, err = io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
		return nil, "", false
	}
	if int64(len(content)) > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return nil, "", false
	}
	return content, filepath.Base(fileHeader.Filename), true
}

// archiveUpload retains a copy of the raw upload. Archive failures are logged
// and never block ingestion.
func archiveUpload(c *gin.Context, channel types.ChannelID, filename string, content []byte) {
	if archive == nil {
		return
	}
	now := time.Now().UTC()
	key := storage.BuildArchiveKey(string(channel), now, filename)
	meta := &storage.Metadata{
		OriginalName: filename,
		Channel:      string(channel),
		UploadedAt:   now,
	}
	if err := archive.Put(c.Request.Context(), key, content, meta); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to archive upload")
	}
}

type uploadPart struct {
	Name    string
	Content []byte
}

// expandUpload splits a ZIP upload into its inner export files; any other
// upload passes through as a single part
func expandUpload(content []byte, filename string) []uploadPart {
	if strings.ToLower(filepath.Ext(filename)) != ".zip" {
		return []uploadPart{{Name: filename, Content: content}}
	}

	expanded, err := zipexpand.ExpandInMemory(content, filename)
	if err != nil || len(expanded) == 0 {
		log.Warn().Err(err).Str("filename", filename).Msg("ZIP expansion failed, ingesting as-is")
		return []uploadPart{{Name: filename, Content: content}}
	}

	parts := make([]uploadPart, 0, len(expanded))
	for _, f := range expanded {
		parts = append(parts, uploadPart{Name: f.Name, Content: f.Content})
	}
	return parts
}
