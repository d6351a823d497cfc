package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"healthbite/backend/internal/wellness"
)

func (s *Server) handleStep1(c *gin.Context) {
	var req Step1Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid payload: %w", err))
		return
	}
	row, err := s.profiles.SaveStep1(c.Request.Context(), subjectFrom(c), req.toBasics())
	if err != nil {
		s.renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Step 1 saved",
		"bmi":          round2(row.BMI),
		"bmi_category": row.BMICategory,
	})
}

func (s *Server) handleStep2(c *gin.Context) {
	var req Step2Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid payload: %w", err))
		return
	}
	row, err := s.profiles.SaveStep2(c.Request.Context(), subjectFrom(c), req.toConditions())
	if err != nil {
		s.renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":            "Step 2 saved",
		"diabetes_status":    statusOrNormal(row.DiabetesStatus),
		"bp_status":          statusOrNormal(row.BPStatus),
		"cholesterol_status": statusOrNormal(row.CholesterolStatus),
	})
}

func (s *Server) handleFinalize(c *gin.Context) {
	row, err := s.profiles.Finalize(c.Request.Context(), subjectFrom(c))
	if err != nil {
		s.renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Profile finalized",
		"risk_score": row.RiskScore,
		"risk_level": row.RiskLevel,
	})
}

func (s *Server) handleSaveProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid payload: %w", err))
		return
	}
	row, err := s.profiles.SaveProfile(c.Request.Context(), subjectFrom(c), req.toBasics(), req.toConditions())
	if err != nil {
		s.renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ProfileFromModel(row))
}

func (s *Server) handleGetProfile(c *gin.Context) {
	row, err := s.profiles.Get(c.Request.Context(), subjectFrom(c))
	if err != nil {
		s.renderServiceError(c, fmt.Errorf("health profile: %w", err))
		return
	}
	c.JSON(http.StatusOK, ProfileFromModel(row))
}

func (s *Server) handleCheck(c *gin.Context) {
	subject := subjectFrom(c)
	status, err := s.profiles.Check(c.Request.Context(), subject)
	if err != nil {
		s.renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, CheckResponse{
		HasProfile:     status.HasProfile,
		OnboardingStep: status.OnboardingStep,
		UserID:         subject,
		Name:           status.Name,
	})
}

func (s *Server) handleReport(c *gin.Context) {
	report, err := s.profiles.Report(c.Request.Context(), subjectFrom(c))
	if err != nil {
		s.renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ReportFromService(report))
}

func (s *Server) handleLogDay(c *gin.Context) {
	var req DailyLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid payload: %w", err))
		return
	}
	row, err := s.wellness.Log(c.Request.Context(), subjectFrom(c), wellness.Entry{
		WaterIntakeMl: req.WaterIntakeMl,
		Steps:         req.Steps,
		Mood:          req.Mood,
	})
	if err != nil {
		s.renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, DailyLogFromModel(*row))
}

func (s *Server) handleGetDay(c *gin.Context) {
	row, err := s.wellness.Today(c.Request.Context(), subjectFrom(c))
	if err != nil {
		s.renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, DailyLogFromModel(row))
}
