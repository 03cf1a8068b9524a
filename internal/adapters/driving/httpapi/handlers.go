package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/logger"
)

const (
	statusSuccess = "success"
	statusSkipped = "skipped"
)

// MaxSearchLimit caps the limit query parameter.
const MaxSearchLimit = 50

type indexRequest struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	MIMEType string `json:"mime_type"`
}

type indexResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	DocID   string `json:"doc_id,omitempty"`
	Chunks  int    `json:"chunks"`
	Warning string `json:"warning,omitempty"`
}

type chatRequest struct {
	Query string `json:"query"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": float64(time.Now().UnixMilli()) / 1000})
}

func (s *Server) indexPage(c *gin.Context) {
	var req indexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "No data provided")
		return
	}
	if strings.TrimSpace(req.URL) == "" || strings.TrimSpace(req.Content) == "" {
		badRequest(c, "URL and content are required")
		return
	}

	logger.Info("Indexing page: %s", truncate(req.URL, 60))
	s.ingest(c, domain.Page{
		URL:      req.URL,
		Title:    req.Title,
		Content:  []byte(req.Content),
		MIMEType: req.MIMEType,
	})
}

func (s *Server) indexPDF(c *gin.Context) {
	url := strings.TrimSpace(c.PostForm("url"))
	if url == "" {
		badRequest(c, "URL is required")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "PDF file is required")
		return
	}
	if fh.Size > maxUploadBytes {
		badRequest(c, fmt.Sprintf("PDF exceeds %d bytes", maxUploadBytes))
		return
	}

	f, err := fh.Open()
	if err != nil {
		fail(c, "open upload", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		fail(c, "read upload", err)
		return
	}

	logger.Info("Indexing PDF: %s (%d bytes)", truncate(url, 60), len(data))
	s.ingest(c, domain.Page{
		URL:      url,
		Title:    c.PostForm("title"),
		Content:  data,
		MIMEType: "application/pdf",
	})
}

func (s *Server) ingest(c *gin.Context, page domain.Page) {
	res, err := s.ports.Ingest.Ingest(c.Request.Context(), page)
	if err != nil {
		fail(c, "index page", err)
		return
	}

	status := statusSuccess
	if res.Status == domain.IngestSkipped {
		status = statusSkipped
		logger.Info("Skipped %s: %s", truncate(page.URL, 60), res.Message)
	}
	c.JSON(http.StatusOK, indexResponse{
		Status:  status,
		Message: res.Message,
		DocID:   res.DocumentID,
		Chunks:  res.Chunks,
		Warning: res.Warning,
	})
}

func (s *Server) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		badRequest(c, "Query parameter 'q' is required")
		return
	}

	limit := domain.DefaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(c, "limit must be a positive integer")
			return
		}
		limit = min(n, MaxSearchLimit)
	}

	logger.Info("Searching for: %s", query)
	results, err := s.ports.Search.Search(c.Request.Context(), query, domain.SearchOptions{Limit: limit})
	if err != nil {
		fail(c, "search", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSuccess, "results": results})
}

func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "No data provided")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		badRequest(c, "Query is required")
		return
	}

	logger.Info("Chat query: %s", req.Query)
	resp, err := s.ports.Chat.Ask(c.Request.Context(), req.Query)
	if err != nil {
		fail(c, "chat", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSuccess, "text": resp.Text, "sources": resp.Sources})
}

func (s *Server) stats(c *gin.Context) {
	stats, err := s.ports.Index.Stats(c.Request.Context())
	if err != nil {
		fail(c, "stats", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSuccess, "stats": stats})
}

func (s *Server) clear(c *gin.Context) {
	if err := s.ports.Index.Clear(c.Request.Context()); err != nil {
		fail(c, "clear", err)
		return
	}
	logger.Info("Index cleared")
	c.JSON(http.StatusOK, gin.H{"status": statusSuccess, "message": "Index cleared"})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
