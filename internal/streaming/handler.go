package streaming

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/diegoalvesdg/CineList-Projeto/internal/media"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// ServeFile streams a local poster with range and conditional request support.
func (h *Handler) ServeFile(w http.ResponseWriter, r *http.Request, filePath string) {
	file, err := os.Open(filePath)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		http.Error(w, "Cannot read file", http.StatusInternalServerError)
		return
	}
	if stat.IsDir() {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", media.GetContentType(filePath))
	w.Header().Set("Cache-Control", "public, max-age=86400")

	http.ServeContent(w, r, filepath.Base(filePath), stat.ModTime(), file)
}
