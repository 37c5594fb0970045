package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vidlens/abcd/internal/assess"
	"github.com/vidlens/abcd/internal/services"
	"github.com/vidlens/abcd/pkg/models"
)

type AssessmentHandler struct {
	assessment *services.AssessmentService
	validator  *validator.Validate
	logger     *logrus.Logger
}

func NewAssessmentHandler(assessment *services.AssessmentService, logger *logrus.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		assessment: assessment,
		validator:  validator.New(),
		logger:     logger,
	}
}

// Create runs an assessment for the brand in the request body and returns
// the full result synchronously.
func (h *AssessmentHandler) Create(c *gin.Context) {
	var criteria models.BrandCriteria

	if err := c.ShouldBindJSON(&criteria); err != nil {
		h.logger.WithError(err).Warn("Invalid JSON in assessment request")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_JSON",
				"message": "Invalid JSON format",
				"details": err.Error(),
			},
		})
		return
	}

	if err := h.validator.Struct(&criteria); err != nil {
		h.logger.WithError(err).Warn("Assessment request validation failed")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "VALIDATION_FAILED",
				"message": "Brand criteria validation failed",
				"details": err.Error(),
			},
		})
		return
	}

	result, err := h.assessment.Run(c.Request.Context(), criteria)
	if err != nil {
		switch {
		case errors.Is(err, assess.ErrNoVideosFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{
					"code":    "NO_VIDEOS_FOUND",
					"message": "No videos found for brand " + criteria.BrandName,
				},
			})
		case errors.Is(err, models.ErrEmptyResult):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": gin.H{
					"code":    "NO_VIDEOS_ASSESSED",
					"message": "All videos for brand " + criteria.BrandName + " were skipped",
				},
			})
		default:
			h.logger.WithError(err).WithField("brand", criteria.BrandName).
				Error("Assessment run failed")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{
					"code":    "ASSESSMENT_FAILED",
					"message": "Assessment run failed",
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get returns a persisted run by ID.
func (h *AssessmentHandler) Get(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("runId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_RUN_ID",
				"message": "Run ID must be a valid UUID",
			},
		})
		return
	}

	run, err := h.assessment.GetRun(c.Request.Context(), runID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    "RUN_NOT_FOUND",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, run)
}

// History lists persisted runs for a brand, newest first.
func (h *AssessmentHandler) History(c *gin.Context) {
	brandName := c.Param("brandName")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	runs, err := h.assessment.ListRuns(c.Request.Context(), brandName, limit)
	if err != nil {
		h.logger.WithError(err).WithField("brand", brandName).
			Error("Failed to list assessment runs")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "HISTORY_UNAVAILABLE",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brand_name": brandName,
		"runs":       runs,
	})
}
