package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtlebank/teenfin/internal/catalog"
	"github.com/turtlebank/teenfin/internal/interfaces/http/middleware"
	"github.com/turtlebank/teenfin/internal/recommend"
)

// SurveyHandler serves the question catalog and the recommendation pipeline.
type SurveyHandler struct {
	catalog     *catalog.Catalog
	recommender *recommend.Service
}

// NewSurveyHandler builds a SurveyHandler.
func NewSurveyHandler(cat *catalog.Catalog, recommender *recommend.Service) *SurveyHandler {
	return &SurveyHandler{catalog: cat, recommender: recommender}
}

// Questions returns the survey question list for the client to render.
func (h *SurveyHandler) Questions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"questions": h.catalog.Questions()})
}

// Recommend runs survey answers through the recommendation pipeline.
func (h *SurveyHandler) Recommend(c *gin.Context) {
	var req recommend.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.recommender.Recommend(c.Request.Context(), middleware.GetRequestID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
