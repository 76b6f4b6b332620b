package handlers

import (
	"github.com/SAP-F-2025/question-service/internal/services"
	"github.com/SAP-F-2025/question-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	questionHandler     *QuestionHandler
	importExportHandler *ImportExportHandler
}

func NewHandlerManager(
	questionService services.QuestionService,
	importExportService services.ImportExportService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		questionHandler:     NewQuestionHandler(questionService, logger),
		importExportHandler: NewImportExportHandler(importExportService, logger),
	}
}

// SetupRoutes sets up all API routes. authMiddleware guards /api/v1 and must
// set user_id on the context.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware)
	{
		questions := v1.Group("/questions")
		{
			questions.POST("", hm.questionHandler.CreateQuestion)
			questions.GET("", hm.questionHandler.ListQuestions)
			questions.GET("/:id", hm.questionHandler.GetQuestion)
			questions.PUT("/:id", hm.questionHandler.UpdateQuestion)
			questions.DELETE("/:id", hm.questionHandler.DeleteQuestion)

			// Answer config management
			questions.GET("/:id/answer-config", hm.questionHandler.GetAnswerConfig)
			questions.PUT("/:id/answer-config", hm.questionHandler.UpdateAnswerConfig)
			questions.POST("/:id/check", hm.questionHandler.CheckAnswer)
			questions.POST("/migrate-legacy", hm.questionHandler.MigrateLegacy)

			// Spreadsheet import/export
			questions.POST("/import", hm.importExportHandler.ImportQuestions)
			questions.GET("/export", hm.importExportHandler.ExportQuestions)
		}

		answerConfigs := v1.Group("/answer-configs")
		{
			answerConfigs.POST("/normalize", hm.questionHandler.NormalizeAnswerConfig)
		}
	}
}
