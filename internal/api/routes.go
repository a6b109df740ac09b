package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Kilerd/todoki/internal/models"
	"github.com/Kilerd/todoki/internal/report"
	"github.com/Kilerd/todoki/internal/task"
)

// registerRoutes sets up all API routes on the gin router. Everything
// except the health probe sits behind the bearer-token check.
func registerRoutes(router *gin.Engine, db *gorm.DB, token string, loc *time.Location) {
	router.GET("/health", handleHealth())

	authed := router.Group("/", requireToken(token))

	authed.GET("/tasks", handleListToday(db, loc))
	authed.GET("/tasks/inbox", handleList(db, task.ListInbox))
	authed.GET("/tasks/backlog", handleList(db, task.ListBacklog))
	authed.GET("/tasks/in-progress", handleList(db, task.ListInProgress))
	authed.GET("/tasks/done", handleList(db, task.ListDone))
	authed.GET("/tasks/done/today", handleListDoneToday(db, loc))

	authed.POST("/tasks", handleCreate(db))
	authed.GET("/tasks/:id", handleGet(db))
	authed.PUT("/tasks/:id", handleUpdate(db))
	authed.POST("/tasks/:id/status", handleChangeStatus(db))
	authed.POST("/tasks/:id/archive", handleArchive(db))
	authed.POST("/tasks/:id/unarchive", handleUnarchive(db))
	authed.DELETE("/tasks/:id", handleDelete(db))
	authed.POST("/tasks/:id/comments", handleAddComment(db))

	authed.GET("/report", handleReport(db, loc))
}

func handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

type createRequest struct {
	Priority int      `json:"priority"`
	Content  string   `json:"content"`
	Group    string   `json:"group"`
	Workflow string   `json:"workflow"`
	Status   string   `json:"status"`
	States   []string `json:"states"`
}

func handleCreate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		t, err := task.Create(db, task.CreateOpts{
			Priority: req.Priority,
			Content:  req.Content,
			Group:    req.Group,
			Workflow: req.Workflow,
			Status:   req.Status,
			States:   req.States,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, t)
	}
}

func handleGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := task.Get(db, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

type updateRequest struct {
	Priority int      `json:"priority"`
	Content  string   `json:"content"`
	Group    string   `json:"group"`
	States   []string `json:"states"`
}

func handleUpdate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		t, err := task.Update(db, c.Param("id"), task.UpdateOpts{
			Priority: req.Priority,
			Content:  req.Content,
			Group:    req.Group,
			States:   req.States,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

type statusRequest struct {
	Status string `json:"status"`
}

func handleChangeStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		t, err := task.ChangeStatus(db, c.Param("id"), req.Status)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func handleArchive(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := task.Archive(db, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func handleUnarchive(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := task.Unarchive(db, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func handleDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := task.Delete(db, c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type commentRequest struct {
	Content string `json:"content"`
}

func handleAddComment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req commentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		comment, err := task.AddComment(db, c.Param("id"), req.Content)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, comment)
	}
}

func handleListToday(db *gorm.DB, loc *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		tasks, err := task.ListToday(db, loc)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, tasks)
	}
}

func handleListDoneToday(db *gorm.DB, loc *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		tasks, err := task.ListDoneToday(db, loc)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, tasks)
	}
}

func handleList(db *gorm.DB, list func(*gorm.DB) ([]models.Task, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		tasks, err := list(db)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, tasks)
	}
}

func handleReport(db *gorm.DB, loc *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		period := c.DefaultQuery("period", report.PeriodToday)
		if !report.KnownPeriod(period) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown period: " + period})
			return
		}
		rep, err := report.Aggregate(db, period, loc)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rep)
	}
}

// writeError maps domain errors onto HTTP statuses: missing tasks to 404,
// rejected states to 400, everything else to 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, task.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, task.ErrInvalidStates):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
}
