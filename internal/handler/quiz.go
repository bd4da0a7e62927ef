package handler

import (
	"strconv"

	"quizcraft/internal/domain"
	"quizcraft/internal/dto"
	"quizcraft/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service: service,
	}
}

// RegisterRoutes wires the quiz endpoints onto the given router.
func (h *QuizHandler) RegisterRoutes(api fiber.Router) {
	api.Post("/notes", h.PreviewNotes)
	api.Post("/quizzes", h.CreateQuiz)
	api.Get("/quizzes/:id", h.GetQuiz)
	api.Post("/quizzes/:id/answers", h.SubmitAnswer)
	api.Post("/quizzes/:id/regenerate", h.RegenerateQuiz)
	api.Get("/quizzes/:id/results", h.GetResults)
	api.Get("/history", h.GetHistory)
}

// PreviewNotes godoc
// @Summary Preview note segmentation
// @Description Segments pasted study text and returns the detected topics
// @Tags notes
// @Accept json
// @Produce json
// @Param request body dto.UploadNotesRequest true "Study notes"
// @Success 200 {object} dto.UploadNotesResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /notes [post]
func (h *QuizHandler) PreviewNotes(c *fiber.Ctx) error {
	var req dto.UploadNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body must be valid JSON")
	}

	resp, err := h.service.PreviewNotes(c.Context(), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// CreateQuiz godoc
// @Summary Generate a quiz
// @Description Generates a quiz over the given text using the configured preferences
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.CreateQuizRequest true "Source text and preferences"
// @Success 201 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /quizzes [post]
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body must be valid JSON")
	}

	resp, err := h.service.CreateQuiz(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetQuiz godoc
// @Summary Get a quiz by ID
// @Tags quiz
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	resp, err := h.service.GetQuiz(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SubmitAnswer godoc
// @Summary Submit an answer
// @Description Grades one answer; option choices for MCQ, free text for SAQ
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param request body dto.SubmitAnswerRequest true "Answer"
// @Success 200 {object} dto.SubmitAnswerResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /quizzes/{id}/answers [post]
func (h *QuizHandler) SubmitAnswer(c *fiber.Ctx) error {
	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body must be valid JSON")
	}

	resp, err := h.service.SubmitAnswer(c.Context(), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// RegenerateQuiz godoc
// @Summary Regenerate a quiz
// @Description Re-runs generation with the stored source text and preferences
// @Tags quiz
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 201 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /quizzes/{id}/regenerate [post]
func (h *QuizHandler) RegenerateQuiz(c *fiber.Ctx) error {
	resp, err := h.service.RegenerateQuiz(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetResults godoc
// @Summary Get session results
// @Description Returns the full graded history once every question is answered
// @Tags quiz
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.SessionResultResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id}/results [get]
func (h *QuizHandler) GetResults(c *fiber.Ctx) error {
	resp, err := h.service.GetResults(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetHistory godoc
// @Summary List stored quizzes
// @Tags quiz
// @Produce json
// @Param limit query int false "Maximum number of quizzes" default(20)
// @Success 200 {object} dto.HistoryResponse
// @Router /history [get]
func (h *QuizHandler) GetHistory(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	resp, err := h.service.GetHistory(c.Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
