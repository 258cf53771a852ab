package httpserver

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"diagno-bot/internal/container"
)

// maxUploadSize ограничение размера загружаемого снимка (16 МБ).
const maxUploadSize = 16 << 20

// Server HTTP API поверх сервиса диагностики
type Server struct {
	container *container.Container
}

// New создаёт HTTP-сервер.
func New(c *container.Container) *Server {
	return &Server{container: c}
}

// Start регистрирует маршруты и блокирующе слушает адрес.
func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/xray/analyze", s.handleAnalyze)
	mux.HandleFunc("/", s.handleRoot)

	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to DiagnoAI API"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "project": "DiagnoAI"})
}

// handleAnalyze принимает multipart-файл снимка и возвращает отчёт в JSON.
// Тепловая карта уходит в ответ строкой base64.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}

	report, err := s.container.DiagnosisService.AnalyzeImage(r.Context(), imageData)
	if err != nil {
		log.Printf("analyze failed: %v", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if len(report.Heatmap) > 0 {
		report.HeatmapB64 = base64.StdEncoding.EncodeToString(report.Heatmap)
	}

	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
