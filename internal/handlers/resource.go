package handlers

import (
	"net/http"
	"time"

	"github.com/hdoo42/mock-veeam-server/internal/audit"

	"github.com/gin-gonic/gin"
)

// serverTimeLayout is the ISO-8601-like local timestamp the real Veeam
// API returns (no zone suffix).
const serverTimeLayout = "2006-01-02T15:04:05"

// Backup is one entry of the fixed backups list.
type Backup struct {
	Name         string `json:"name"`
	PlatformName string `json:"platformName"`
}

// backupList never changes: repeated scrapes within a token lifetime must
// see the identical two entries.
var backupList = []Backup{
	{Name: "backup1", PlatformName: "VmWare"},
	{Name: "backup2", PlatformName: "HyperV"},
}

// ResourceHandler serves the bearer-protected resource endpoints. Token
// validation happens in middleware.RequireBearer before these run.
type ResourceHandler struct {
	auditLog *audit.Log
}

func NewResourceHandler(auditLog *audit.Log) *ResourceHandler {
	return &ResourceHandler{auditLog: auditLog}
}

// ServerTime handles GET /api/v1/serverTime and /v1/serverTime.
func (h *ResourceHandler) ServerTime(c *gin.Context) {
	h.auditLog.Printf("RESULT: 200 OK (serverTime)")
	c.JSON(http.StatusOK, gin.H{
		"serverTime": time.Now().Format(serverTimeLayout),
	})
}

// Backups handles GET /api/v1/backups and /v1/backups.
func (h *ResourceHandler) Backups(c *gin.Context) {
	h.auditLog.Printf("RESULT: 200 OK (backups)")
	c.JSON(http.StatusOK, gin.H{
		"data": backupList,
	})
}

// Health handles GET /health. No auth: the test driver polls it to decide
// the server is up before the first scrape.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok": true,
	})
}

// NotFound answers every unrouted path with the JSON error shape.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error": "Not found",
	})
}
