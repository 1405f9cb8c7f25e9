package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rnovais/coursetrack/internal/database/notes"
	"github.com/rnovais/coursetrack/internal/entities"
)

// NoteStore defines database operations for note management.
type NoteStore interface {
	Create(p notes.CreateParams) (*entities.UserNote, error)
	Get(id string) (*entities.UserNote, error)
	GetByVideo(videoID string, order notes.Order, desc bool) ([]entities.UserNote, error)
	GetByModule(moduleID string, order notes.Order, desc bool) ([]entities.UserNote, error)
	GetByCourse(courseID string, order notes.Order, desc bool) ([]entities.UserNote, error)
	GetAll(order notes.Order, desc bool) ([]entities.UserNote, error)
	Update(id, title, content string) (*entities.UserNote, error)
	Delete(id string) error
}

type NotesController struct {
	store NoteStore
}

func NewNotesController(store NoteStore) *NotesController {
	return &NotesController{store: store}
}

// CreateNote creates a new note
// POST /api/notes
func (nc *NotesController) CreateNote(c *gin.Context) {
	var req struct {
		VideoID   *string  `json:"video_id"`
		CourseID  *string  `json:"course_id"`
		ModuleID  *string  `json:"module_id"`
		Timestamp *float64 `json:"timestamp"`
		Title     string   `json:"title" binding:"required"`
		Content   string   `json:"content" binding:"required"`
		NoteType  string   `json:"note_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and content are required")
		return
	}

	note, err := nc.store.Create(notes.CreateParams{
		VideoID:   req.VideoID,
		CourseID:  req.CourseID,
		ModuleID:  req.ModuleID,
		Timestamp: req.Timestamp,
		Title:     req.Title,
		Content:   req.Content,
		NoteType:  entities.NoteType(req.NoteType),
	})
	if err != nil {
		respondError(c, err, "create note")
		return
	}
	respondCreated(c, note)
}

// GetNote returns one note
// GET /api/notes/:id
func (nc *NotesController) GetNote(c *gin.Context) {
	note, err := nc.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, err, "get note")
		return
	}
	c.JSON(http.StatusOK, note)
}

// ListNotes returns all notes, optionally ordered
// GET /api/notes?order=created_at&desc=true
func (nc *NotesController) ListNotes(c *gin.Context) {
	order, desc := orderParams(c)
	list, err := nc.store.GetAll(order, desc)
	if err != nil {
		respondError(c, err, "list notes")
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetVideoNotes returns the notes attached to a video
// GET /api/videos/:id/notes
func (nc *NotesController) GetVideoNotes(c *gin.Context) {
	order, desc := orderParams(c)
	list, err := nc.store.GetByVideo(c.Param("id"), order, desc)
	if err != nil {
		respondError(c, err, "get video notes")
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetCourseNotes returns the notes attached to a course
// GET /api/courses/:id/notes
func (nc *NotesController) GetCourseNotes(c *gin.Context) {
	order, desc := orderParams(c)
	list, err := nc.store.GetByCourse(c.Param("id"), order, desc)
	if err != nil {
		respondError(c, err, "get course notes")
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetModuleNotes returns the notes attached to a module
// GET /api/modules/:id/notes
func (nc *NotesController) GetModuleNotes(c *gin.Context) {
	order, desc := orderParams(c)
	list, err := nc.store.GetByModule(c.Param("id"), order, desc)
	if err != nil {
		respondError(c, err, "get module notes")
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpdateNote changes a note's title and content
// PUT /api/notes/:id
func (nc *NotesController) UpdateNote(c *gin.Context) {
	var req struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title is required")
		return
	}

	note, err := nc.store.Update(c.Param("id"), req.Title, req.Content)
	if err != nil {
		respondError(c, err, "update note")
		return
	}
	c.JSON(http.StatusOK, note)
}

// DeleteNote removes a note (idempotent)
// DELETE /api/notes/:id
func (nc *NotesController) DeleteNote(c *gin.Context) {
	if err := nc.store.Delete(c.Param("id")); err != nil {
		respondError(c, err, "delete note")
		return
	}
	respondOK(c, "note deleted")
}

func orderParams(c *gin.Context) (notes.Order, bool) {
	return notes.Order(c.Query("order")), c.Query("desc") == "true"
}
