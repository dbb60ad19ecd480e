// Package extracttext реализует HTTP-обработчик извлечения текстового слоя
// из загруженного PDF-файла.
package extracttext

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-access-platform/internal/http/response"
	"github.com/magabrotheeeer/course-access-platform/internal/lib/pdftext"
	"github.com/magabrotheeeer/course-access-platform/internal/lib/sl"
)

// maxUploadSize — предел размера загружаемого PDF.
const maxUploadSize = 50 << 20

// Handler обрабатывает загрузку PDF и возвращает извлечённый текст.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler с переданным логгером.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Извлечь текст из PDF
// @Description Принимает PDF-файл в multipart-поле file и возвращает извлечённый текст. Доступно только администратору.
// @Tags Uploads
// @Accept  multipart/form-data
// @Produce  json
// @Param file formData file true "PDF-файл"
// @Success 200 {object} map[string]any "Извлечённый текст"
// @Failure 400 {object} response.ErrorResponse "Файл отсутствует или не является PDF"
// @Failure 500 {object} response.ErrorResponse "Ошибка извлечения текста"
// @Router /uploads/extract-text [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.upload.extracttext"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		log.Error("missing file field", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("file field is required"))
		return
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error("failed to read uploaded file", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read uploaded file"))
		return
	}

	result, err := pdftext.Extract(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		log.Error("failed to extract text from pdf", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("could not extract text from pdf"))
		return
	}

	log.Info("pdf text extracted", slog.Int("pages", result.Pages))
	render.JSON(w, r, response.StatusOKWithData(result))
}
