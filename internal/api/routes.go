package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/liftwright/liftwright/internal/models"
	"github.com/liftwright/liftwright/internal/planner"
	"gorm.io/gorm"
)

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, db *gorm.DB, p *planner.Planner) {
	router.GET("/healthz", handleHealth(db))
	router.POST("/weekly-plans", handleCreateWeeklyPlan(p))
	router.POST("/session-plans", handleSessionPlan(p))
	router.POST("/session-logs", handleSessionLog(p))
}

func handleHealth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

type weeklyPlanRequest struct {
	UserID        string `json:"user_id" binding:"required"`
	WeekStartDate string `json:"week_start_date" binding:"required"`
	Timezone      string `json:"timezone"`
	Strategy      string `json:"strategy" binding:"omitempty,oneof=ULF_2C FULL_3 UL_4 CUSTOM"`
}

type weeklyPlanDayResponse struct {
	Date          string  `json:"date"`
	Label         string  `json:"label"`
	SessionPlanID *string `json:"session_plan_id"`
	Notes         *string `json:"notes"`
}

type weeklyPlanResponse struct {
	ID            string                  `json:"id"`
	UserID        string                  `json:"user_id"`
	WeekStartDate string                  `json:"week_start_date"`
	Timezone      string                  `json:"timezone"`
	Strategy      string                  `json:"strategy"`
	Days          []weeklyPlanDayResponse `json:"days"`
	CreatedAt     time.Time               `json:"created_at"`
}

func handleCreateWeeklyPlan(p *planner.Planner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req weeklyPlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ref, err := time.Parse(planner.DateFormat, req.WeekStartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "week_start_date must be YYYY-MM-DD"})
			return
		}

		plan, err := p.CreateWeeklyPlan(req.UserID, ref, req.Timezone, req.Strategy)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, toWeeklyPlanResponse(plan))
	}
}

func toWeeklyPlanResponse(plan *models.WeeklyPlan) weeklyPlanResponse {
	days := make([]weeklyPlanDayResponse, len(plan.Days))
	for i, day := range plan.Days {
		days[i] = weeklyPlanDayResponse{
			Date:          day.Date,
			Label:         day.Label,
			SessionPlanID: day.SessionPlanID,
			Notes:         day.Notes,
		}
	}
	return weeklyPlanResponse{
		ID:            plan.ID,
		UserID:        plan.UserID,
		WeekStartDate: plan.WeekStartDate,
		Timezone:      plan.Timezone,
		Strategy:      plan.Strategy,
		Days:          days,
		CreatedAt:     plan.CreatedAt,
	}
}

type sessionPlanRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Date   string `json:"date" binding:"required"`
}

func handleSessionPlan(p *planner.Planner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sessionPlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		date, err := time.Parse(planner.DateFormat, req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}

		plan, err := p.SessionPlanForDate(req.UserID, date)
		if err != nil {
			switch {
			case errors.Is(err, planner.ErrNoPlannedDay):
				c.JSON(http.StatusNotFound, gin.H{"error": "no weekly plan for this date"})
			case errors.Is(err, planner.ErrRestDay):
				c.JSON(http.StatusBadRequest, gin.H{"error": "rest day has no session plan"})
			case errors.Is(err, planner.ErrExerciseUnresolvable):
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		// The stored document is served verbatim so repeat requests are
		// byte-identical.
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(plan.PlanJSON))
	}
}

type sessionLogSetRequest struct {
	ExerciseID string   `json:"exercise_id" binding:"required"`
	SetNumber  int      `json:"set_number" binding:"required,min=1"`
	RepsDone   *int     `json:"reps_done" binding:"required,min=0"`
	LoadUsed   *float64 `json:"load_used"`
	RPE        *float64 `json:"rpe" binding:"omitempty,min=0,max=10"`
}

type sessionLogRequest struct {
	UserID        string                 `json:"user_id" binding:"required"`
	Date          string                 `json:"date" binding:"required"`
	SessionType   string                 `json:"session_type" binding:"required,oneof=UPPER LOWER FULL CARDIO MOBILITY"`
	SessionPlanID *string                `json:"session_plan_id"`
	Readiness     map[string]interface{} `json:"readiness"`
	Notes         *string                `json:"notes"`
	Sets          []sessionLogSetRequest `json:"sets" binding:"required,min=1,dive"`
}

func handleSessionLog(p *planner.Planner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sessionLogRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		date, err := time.Parse(planner.DateFormat, req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}

		var readiness *string
		if req.Readiness != nil {
			raw, err := json.Marshal(req.Readiness)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "readiness is not serializable"})
				return
			}
			s := string(raw)
			readiness = &s
		}

		sets := make([]planner.LoggedSet, len(req.Sets))
		for i, s := range req.Sets {
			sets[i] = planner.LoggedSet{
				ExerciseID: s.ExerciseID,
				SetNumber:  s.SetNumber,
				RepsDone:   *s.RepsDone,
				LoadUsed:   s.LoadUsed,
				RPE:        s.RPE,
			}
		}

		logID, err := p.IngestLog(planner.LogSubmission{
			UserID:        req.UserID,
			Date:          date,
			SessionType:   req.SessionType,
			SessionPlanID: req.SessionPlanID,
			ReadinessJSON: readiness,
			Notes:         req.Notes,
			Sets:          sets,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "session_log_id": logID})
	}
}
